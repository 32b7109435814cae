package universe

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/rewrite"
)

// Mode selects how universes are rendered in the target. Modes are mutually
// exclusive and fixed for a whole translation run.
type Mode int

const (
	// Concrete resolves every named universe to a finite ordinal through
	// the solved level table; Max and Succ compute on ordinals.
	Concrete Mode = iota
	// Constraints keeps named universes as free symbols declared as opaque
	// sorts, with the solved graph's inequalities emitted as rewrite rules.
	Constraints
	// Named renders each universe as a distinct uninterpreted symbol; max
	// and rule remain symbolic operators, never reduced.
	Named
)

func (m Mode) String() string {
	switch m {
	case Concrete:
		return "concrete"
	case Constraints:
		return "constraints"
	case Named:
		return "named"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode reads a mode from its configuration spelling.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "concrete", "":
		return Concrete, nil
	case "constraints":
		return Constraints, nil
	case "named":
		return Named, nil
	default:
		return Concrete, fmt.Errorf("unknown universe mode %q (want concrete, constraints or named)", s)
	}
}

// Translator maps universe expressions to target terms. It is stateless
// apart from its read-only configuration, so identical inputs produce
// byte-identical outputs in any call order; the fixpoint cache and
// let-lifting rely on this.
type Translator struct {
	mode   Mode
	table  *Table
	params []string
}

// New builds a translator for the given mode. The table may be nil in modes
// that never consult it.
func New(mode Mode, table *Table) *Translator {
	return &Translator{mode: mode, table: table}
}

// Mode returns the active encoding mode.
func (t *Translator) Mode() Mode {
	return t.mode
}

// WithParams returns a derived translator that resolves Param(i) to the
// i-th of the given locally bound universe names.
func (t *Translator) WithParams(names []string) *Translator {
	return &Translator{mode: t.mode, table: t.table, params: names}
}

// Sort renders a universe expression as an element of the target's sort
// type.
func (t *Translator) Sort(u kernel.Univ) (rewrite.Term, error) {
	return t.translate(kernel.NormalizeUniv(u))
}

// Code renders the universe of terms classified by u: the code of the sort
// itself, an inhabitant of the next universe. This is the second half of
// the sort-vs-universe duality.
func (t *Translator) Code(u kernel.Univ) (rewrite.Term, error) {
	s, err := t.Sort(u)
	if err != nil {
		return nil, err
	}
	return rewrite.Code(s), nil
}

func (t *Translator) translate(u kernel.Univ) (rewrite.Term, error) {
	if lvl, ok, err := t.eval(u); err != nil {
		return nil, err
	} else if ok {
		return lvl.render(), nil
	}

	switch n := u.(type) {
	case *kernel.Prop:
		return rewrite.SortProp(), nil
	case *kernel.Set:
		return rewrite.SortSet(), nil
	case *kernel.Global:
		// Concrete mode is fully handled by eval; reaching here means the
		// name stays a free symbol.
		return &rewrite.Const{Name: n.Name}, nil
	case *kernel.Param:
		if n.Index < 0 || n.Index >= len(t.params) {
			return nil, fmt.Errorf("universe parameter %d out of range (%d bound)", n.Index, len(t.params))
		}
		return &rewrite.Var{Name: t.params[n.Index]}, nil
	case *kernel.Succ:
		of, err := t.translate(n.Of)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n.K; i++ {
			of = rewrite.SortSucc(of)
		}
		return of, nil
	case *kernel.Max:
		if len(n.Of) == 0 {
			return rewrite.SortProp(), nil
		}
		out, err := t.translate(n.Of[0])
		if err != nil {
			return nil, err
		}
		for _, o := range n.Of[1:] {
			next, err := t.translate(o)
			if err != nil {
				return nil, err
			}
			out = rewrite.SortMax(out, next)
		}
		return out, nil
	case *kernel.Rule:
		if t.mode == Constraints {
			// Encoding rule over free level symbols would need second-order
			// constraints; there is no sound rendering.
			return nil, &UnsupportedError{Construct: "rule", Mode: t.mode}
		}
		left, err := t.translate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translate(n.Right)
		if err != nil {
			return nil, err
		}
		return rewrite.SortRule(left, right), nil
	case *kernel.Unbounded:
		return nil, fmt.Errorf("internal sentinel universe reached the encoder")
	default:
		return nil, fmt.Errorf("unknown universe node %T", u)
	}
}

// level is the result of ordinal evaluation: Prop, Set, or a finite Type
// level. Set behaves as level zero under joins.
type level struct {
	kind levelKind
	n    int
}

type levelKind int

const (
	propLevel levelKind = iota
	setLevel
	typeLevel
)

func (l level) render() rewrite.Term {
	switch l.kind {
	case propLevel:
		return rewrite.SortProp()
	case setLevel:
		return rewrite.SortSet()
	default:
		return rewrite.SortLevel(l.n)
	}
}

func (l level) succ(k int) level {
	if k == 0 {
		return l
	}
	switch l.kind {
	case propLevel, setLevel:
		// Successors of Prop and Set are concrete numerals in every mode.
		return level{kind: typeLevel, n: k}
	default:
		return level{kind: typeLevel, n: l.n + k}
	}
}

func maxLevel(a, b level) level {
	switch {
	case a.kind == propLevel:
		return b
	case b.kind == propLevel:
		return a
	case a.kind == setLevel:
		return b
	case b.kind == setLevel:
		return a
	case a.n >= b.n:
		return a
	default:
		return b
	}
}

func ruleLevel(a, b level) level {
	if b.kind == propLevel {
		return b
	}
	return maxLevel(a, b)
}

// eval attempts ordinal evaluation of a normalized universe expression.
// Under Concrete mode everything without universe parameters evaluates and
// a missing table entry is an error; under the symbolic modes only Prop,
// Set and their successors do.
func (t *Translator) eval(u kernel.Univ) (level, bool, error) {
	switch n := u.(type) {
	case *kernel.Prop:
		return level{kind: propLevel}, true, nil
	case *kernel.Set:
		return level{kind: setLevel}, true, nil
	case *kernel.Global:
		if t.mode != Concrete {
			return level{}, false, nil
		}
		lvl, err := t.table.Lookup(n.Name)
		if err != nil {
			return level{}, false, err
		}
		return level{kind: typeLevel, n: lvl}, true, nil
	case *kernel.Param:
		return level{}, false, nil
	case *kernel.Succ:
		of, ok, err := t.eval(n.Of)
		if err != nil || !ok {
			return level{}, ok, err
		}
		return of.succ(n.K), true, nil
	case *kernel.Max:
		if t.mode == Named {
			return level{}, false, nil
		}
		out := level{kind: propLevel}
		for _, o := range n.Of {
			lvl, ok, err := t.eval(o)
			if err != nil || !ok {
				return level{}, ok, err
			}
			out = maxLevel(out, lvl)
		}
		return out, true, nil
	case *kernel.Rule:
		if t.mode != Concrete {
			return level{}, false, nil
		}
		left, ok, err := t.eval(n.Left)
		if err != nil || !ok {
			return level{}, ok, err
		}
		right, ok, err := t.eval(n.Right)
		if err != nil || !ok {
			return level{}, ok, err
		}
		return ruleLevel(left, right), true, nil
	default:
		return level{}, false, nil
	}
}
