// Package universe maps the source calculus's universe algebra onto the
// encoding, parameterized by an encoding mode. The translation is pure and
// total over well-formed input: the same universe expression always yields
// the same target term regardless of call order.
package universe

import (
	"fmt"
	"sort"
	"strings"
)

// UnresolvedError reports a named universe absent from the solved level
// table, which means the constraint-graph solve did not cover it.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved universe %q: not covered by the solved level table", e.Name)
}

// UnsupportedError reports a universe construct with no encoding under the
// active mode.
type UnsupportedError struct {
	Construct string
	Mode      Mode
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("universe construct %s is not supported under %s mode", e.Construct, e.Mode)
}

// Table is the process-wide mapping from global universe names to concrete
// integer levels. It is populated once per source library by solving the
// universe constraint graph, then read-only during term translation.
type Table struct {
	levels map[string]int
}

// NewTable builds a table from explicit levels, chiefly for tests.
func NewTable(levels map[string]int) *Table {
	copied := make(map[string]int, len(levels))
	for k, v := range levels {
		copied[k] = v
	}
	return &Table{levels: copied}
}

// Lookup resolves a named universe to its solved level.
func (t *Table) Lookup(name string) (int, error) {
	if t == nil {
		return 0, &UnresolvedError{Name: name}
	}
	lvl, ok := t.levels[name]
	if !ok {
		return 0, &UnresolvedError{Name: name}
	}
	return lvl, nil
}

// Names returns the covered universe names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.levels))
	for n := range t.levels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Constraint is one edge of the universe constraint graph.
type Constraint struct {
	Left  string
	Rel   Relation
	Right string
}

// Relation is the comparison carried by a constraint edge.
type Relation string

const (
	Lt Relation = "<"
	Le Relation = "<="
	Eq Relation = "="
)

func (c Constraint) String() string {
	return strings.Join([]string{c.Left, string(c.Rel), c.Right}, " ")
}
