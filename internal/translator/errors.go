package translator

import "fmt"

// NotSupportedError reports a source construct the encoding has no image
// for. The pipeline turns it into a per-definition failure rather than
// aborting the whole run.
type NotSupportedError struct {
	Construct string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("no encoding for %s", e.Construct)
}

// ArityError reports a reference supplied with the wrong number of
// universe or term arguments.
type ArityError struct {
	Ref  string
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: got %d arguments, want %d", e.Ref, e.Got, e.Want)
}
