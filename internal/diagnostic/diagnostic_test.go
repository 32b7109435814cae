package diagnostic

import (
	"strings"
	"testing"
)

func TestErrorsAndWarningsAreSeparated(t *testing.T) {
	d := New()
	d.Errorf("div", "no encoding for %s", "cofixpoint")
	d.Warningf("m", "ordering is not enforced")

	if !d.HasErrors() {
		t.Error("collection with an error must report HasErrors")
	}
	if got := d.ErrorCount(); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
	if got := d.Count(); got != 2 {
		t.Errorf("total count = %d, want 2", got)
	}
	errs := d.Errors()
	if len(errs) != 1 || errs[0].Decl != "div" {
		t.Fatalf("errors = %v, want the single error for div", errs)
	}
	if errs[0].Message != "no encoding for cofixpoint" {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestWarningsAloneAreNotFailures(t *testing.T) {
	d := New()
	d.Warningf("m", "ordering is not enforced")
	if d.HasErrors() {
		t.Error("a warning must not count as an error")
	}
	if got := len(d.All()); got != 1 {
		t.Errorf("all diagnostics = %d, want 1", got)
	}
}

func TestFormatIncludesHints(t *testing.T) {
	d := New()
	d.ErrorWithHint("div", "no encoding for cofixpoint",
		"cofixpoint is outside the translated fragment")
	d.Warningf("aux", "declaration shadowed by an earlier symbol")

	out := d.Format("mymodule")
	if !strings.Contains(out, "error[mymodule.div]: no encoding for cofixpoint") {
		t.Errorf("missing error line in %q", out)
	}
	if !strings.Contains(out, "hint: cofixpoint is outside the translated fragment") {
		t.Errorf("missing hint line in %q", out)
	}
	if !strings.Contains(out, "warning[mymodule.aux]:") {
		t.Errorf("missing warning line in %q", out)
	}
	if d.Format("") == "" || strings.Contains(d.Format(""), "mymodule") {
		t.Error("formatting without a module must drop the module prefix")
	}
}

func TestFormatEmptyCollection(t *testing.T) {
	if got := New().Format("m"); got != "" {
		t.Errorf("empty collection formats to %q, want empty", got)
	}
}
