package kernel

import (
	"strconv"
	"strings"
)

// Key renders a canonical, binder-name-insensitive string for a term. Two
// terms have equal keys exactly when they are structurally identical, which
// makes the key usable as a cache index.
func Key(t Term) string {
	w := &keyWriter{}
	w.term(t)
	return w.sb.String()
}

// ErasedKey is Key with every universe operand replaced by a placeholder.
// Two terms that differ only in universe instantiation share an erased key.
func ErasedKey(t Term) string {
	w := &keyWriter{erase: true}
	w.term(t)
	return w.sb.String()
}

// UnivKey renders a canonical string for a normalized universe expression.
func UnivKey(u Univ) string {
	w := &keyWriter{}
	w.univ(NormalizeUniv(u))
	return w.sb.String()
}

// Equal reports structural equality of two terms. Binder names are ignored;
// universe operands compare after normalization.
func Equal(a, b Term) bool {
	return Key(a) == Key(b)
}

type keyWriter struct {
	sb    strings.Builder
	erase bool
}

func (w *keyWriter) term(t Term) {
	switch n := t.(type) {
	case *Var:
		w.sb.WriteByte('#')
		w.sb.WriteString(strconv.Itoa(n.Index))
	case *NamedVar:
		w.sb.WriteString("g:")
		w.sb.WriteString(n.Name)
	case *Sort:
		w.sb.WriteString("s(")
		w.univ(NormalizeUniv(n.Univ))
		w.sb.WriteByte(')')
	case *Cast:
		w.wrap("cast", n.Body, n.Type)
	case *Prod:
		w.wrap("pi", n.Domain, n.Codomain)
	case *Lam:
		w.wrap("lam", n.Domain, n.Body)
	case *Let:
		w.wrap("let", n.Value, n.Type, n.Body)
	case *App:
		w.sb.WriteString("app(")
		w.term(n.Fn)
		for _, a := range n.Args {
			w.sb.WriteByte(',')
			w.term(a)
		}
		w.sb.WriteByte(')')
	case *Const:
		w.ref("c", n.Name, n.Univs)
	case *Ind:
		w.ref("i", n.Name, n.Univs)
	case *Construct:
		w.ref("k", n.Name, n.Univs)
	case *Case:
		w.sb.WriteString("case[")
		w.sb.WriteString(n.Ind)
		w.sb.WriteByte(']')
		w.wrap("", append([]Term{n.Motive, n.Discriminee}, n.Branches...)...)
	case *Fix:
		w.sb.WriteString("fix[")
		for i, r := range n.RecIndices {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.sb.WriteString(strconv.Itoa(r))
		}
		w.sb.WriteByte('/')
		w.sb.WriteString(strconv.Itoa(n.Focus))
		w.sb.WriteByte(']')
		w.wrap("", append(append([]Term{}, n.Types...), n.Bodies...)...)
	case *CoFix:
		w.sb.WriteString("cofix")
		w.wrap("", append(append([]Term{}, n.Types...), n.Bodies...)...)
	case *Proj:
		w.sb.WriteString("proj[")
		w.sb.WriteString(n.Field)
		w.sb.WriteByte(']')
		w.wrap("", n.Arg)
	case *Meta:
		w.sb.WriteString("?")
		w.sb.WriteString(n.Name)
	}
}

func (w *keyWriter) wrap(tag string, ts ...Term) {
	w.sb.WriteString(tag)
	w.sb.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		w.term(t)
	}
	w.sb.WriteByte(')')
}

func (w *keyWriter) ref(tag, name string, univs []Univ) {
	w.sb.WriteString(tag)
	w.sb.WriteByte(':')
	w.sb.WriteString(name)
	if len(univs) > 0 && !w.erase {
		w.sb.WriteByte('{')
		for i, u := range univs {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.univ(NormalizeUniv(u))
		}
		w.sb.WriteByte('}')
	}
}

func (w *keyWriter) univ(u Univ) {
	if w.erase {
		w.sb.WriteByte('_')
		return
	}
	switch n := u.(type) {
	case *Prop:
		w.sb.WriteString("prop")
	case *Set:
		w.sb.WriteString("set")
	case *Global:
		w.sb.WriteString("u:")
		w.sb.WriteString(n.Name)
	case *Param:
		w.sb.WriteByte('@')
		w.sb.WriteString(strconv.Itoa(n.Index))
	case *Succ:
		w.sb.WriteString("succ^")
		w.sb.WriteString(strconv.Itoa(n.K))
		w.sb.WriteByte('(')
		w.univ(n.Of)
		w.sb.WriteByte(')')
	case *Max:
		w.sb.WriteString("max(")
		for i, o := range n.Of {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			w.univ(o)
		}
		w.sb.WriteByte(')')
	case *Rule:
		w.sb.WriteString("rule(")
		w.univ(n.Left)
		w.sb.WriteByte(',')
		w.univ(n.Right)
		w.sb.WriteByte(')')
	case *Unbounded:
		w.sb.WriteString("top")
	}
}
