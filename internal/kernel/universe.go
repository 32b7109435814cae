package kernel

// Univ is the interface for all universe expressions (the sort algebra).
type Univ interface {
	univNode()
}

// Prop is the impredicative bottom sort.
type Prop struct{}

func (*Prop) univNode() {}

// Set is the lowest predicative sort.
type Set struct{}

func (*Set) univNode() {}

// Global is a named universe, resolved through the solved level table in
// concrete mode and kept as a free symbol otherwise.
type Global struct {
	Name string
}

func (*Global) univNode() {}

// Param is a universe bound by an enclosing polymorphic declaration,
// de Bruijn indexed over that declaration's universe parameters.
type Param struct {
	Index int
}

func (*Param) univNode() {}

// Succ is the K-fold successor of Of, K >= 0.
type Succ struct {
	Of Univ
	K  int
}

func (*Succ) univNode() {}

// Max is the join of its operands. The empty join is Prop.
type Max struct {
	Of []Univ
}

func (*Max) univNode() {}

// Rule is the sort of a product whose domain lives in Left and codomain in
// Right, including the impredicative collapse into Prop.
type Rule struct {
	Left  Univ
	Right Univ
}

func (*Rule) univNode() {}

// Unbounded is a top sentinel used internally by sort inference. It must
// never reach the universe translator.
type Unbounded struct{}

func (*Unbounded) univNode() {}

// NormalizeUniv rewrites a universe expression into the normal form expected
// by the encoder: successor chains collapse to a single count, zero-fold
// successors vanish, singleton joins reduce to their operand and the empty
// join becomes Prop. The function is idempotent.
func NormalizeUniv(u Univ) Univ {
	switch n := u.(type) {
	case *Succ:
		of := NormalizeUniv(n.Of)
		k := n.K
		if inner, ok := of.(*Succ); ok {
			k += inner.K
			of = inner.Of
		}
		if k == 0 {
			return of
		}
		return &Succ{Of: of, K: k}
	case *Max:
		switch len(n.Of) {
		case 0:
			return &Prop{}
		case 1:
			return NormalizeUniv(n.Of[0])
		}
		of := make([]Univ, len(n.Of))
		for i, o := range n.Of {
			of[i] = NormalizeUniv(o)
		}
		return &Max{Of: of}
	case *Rule:
		return &Rule{Left: NormalizeUniv(n.Left), Right: NormalizeUniv(n.Right)}
	default:
		return u
	}
}

// UnivEqual reports structural equality of two universe expressions after
// normalization.
func UnivEqual(a, b Univ) bool {
	return univEq(NormalizeUniv(a), NormalizeUniv(b))
}

func univEq(a, b Univ) bool {
	switch x := a.(type) {
	case *Prop:
		_, ok := b.(*Prop)
		return ok
	case *Set:
		_, ok := b.(*Set)
		return ok
	case *Global:
		y, ok := b.(*Global)
		return ok && x.Name == y.Name
	case *Param:
		y, ok := b.(*Param)
		return ok && x.Index == y.Index
	case *Succ:
		y, ok := b.(*Succ)
		return ok && x.K == y.K && univEq(x.Of, y.Of)
	case *Max:
		y, ok := b.(*Max)
		if !ok || len(x.Of) != len(y.Of) {
			return false
		}
		for i := range x.Of {
			if !univEq(x.Of[i], y.Of[i]) {
				return false
			}
		}
		return true
	case *Rule:
		y, ok := b.(*Rule)
		return ok && univEq(x.Left, y.Left) && univEq(x.Right, y.Right)
	case *Unbounded:
		_, ok := b.(*Unbounded)
		return ok
	default:
		return false
	}
}
