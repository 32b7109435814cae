// Package kernel defines the source calculus: dependently-typed terms with a
// cumulative universe hierarchy, de Bruijn indexed binders, inductive types
// and structural recursion. It is the input language of the translator.
package kernel

// Term is the interface for all source-calculus term nodes.
type Term interface {
	termNode()
}

// Var is a bound variable, de Bruijn indexed relative to the ambient context
// (0 is the innermost binder).
type Var struct {
	Index int
}

func (*Var) termNode() {}

// NamedVar references a named entry of the global context, typically a
// declaration produced by let-lifting.
type NamedVar struct {
	Name string
}

func (*NamedVar) termNode() {}

// Sort is a universe used as a term.
type Sort struct {
	Univ Univ
}

func (*Sort) termNode() {}

// Cast asserts that Body has type Type.
type Cast struct {
	Body Term
	Type Term
}

func (*Cast) termNode() {}

// Prod is a dependent product (Pi type). Binder is a naming hint only;
// binding is positional.
type Prod struct {
	Binder   string
	Domain   Term
	Codomain Term
}

func (*Prod) termNode() {}

// Lam is a lambda abstraction.
type Lam struct {
	Binder string
	Domain Term
	Body   Term
}

func (*Lam) termNode() {}

// Let binds Value (of type Type) in Body.
type Let struct {
	Binder string
	Value  Term
	Type   Term
	Body   Term
}

func (*Let) termNode() {}

// App applies Fn to one or more arguments.
type App struct {
	Fn   Term
	Args []Term
}

func (*App) termNode() {}

// Const references a global constant, instantiated at the given universe
// arguments.
type Const struct {
	Name  string
	Univs []Univ
}

func (*Const) termNode() {}

// Ind references an inductive type.
type Ind struct {
	Name  string
	Univs []Univ
}

func (*Ind) termNode() {}

// Construct references an inductive constructor.
type Construct struct {
	Name  string
	Univs []Univ
}

func (*Construct) termNode() {}

// Case is a pattern match on a fully applied inductive value. Branches are
// closed over their constructor fields with ordinary lambdas, one branch per
// constructor in declaration order.
type Case struct {
	Ind         string
	Motive      Term
	Discriminee Term
	Branches    []Term
}

func (*Case) termNode() {}

// Fix is a group of mutually recursive definitions. RecIndices[i] is the
// position of the structurally decreasing argument of definition i. Bodies
// are typed in a context extended by all Names in order, so inside a body
// Var(len(Names)-1) refers to Names[0].
type Fix struct {
	RecIndices []int
	Focus      int
	Names      []string
	Types      []Term
	Bodies     []Term
}

func (*Fix) termNode() {}

// Meta is an unresolved placeholder. It has no encoding; the translator
// rejects it.
type Meta struct {
	Name string
}

func (*Meta) termNode() {}

// CoFix is a co-recursive definition. It has no encoding; the translator
// rejects it.
type CoFix struct {
	Focus  int
	Names  []string
	Types  []Term
	Bodies []Term
}

func (*CoFix) termNode() {}

// Proj is a primitive record projection. It has no encoding; the translator
// rejects it.
type Proj struct {
	Field string
	Arg   Term
}

func (*Proj) termNode() {}

// MkApp builds an application, flattening a nested App head and eliding the
// App node entirely for an empty argument list.
func MkApp(fn Term, args ...Term) Term {
	if len(args) == 0 {
		return fn
	}
	if a, ok := fn.(*App); ok {
		merged := make([]Term, 0, len(a.Args)+len(args))
		merged = append(merged, a.Args...)
		merged = append(merged, args...)
		return &App{Fn: a.Fn, Args: merged}
	}
	return &App{Fn: fn, Args: args}
}

// Lift shifts every free variable of t up by k.
func Lift(t Term, k int) Term {
	if k == 0 {
		return t
	}
	return liftAbove(t, k, 0)
}

// LiftAbove shifts free variables with index >= cutoff up by k, leaving
// variables bound below the cutoff alone.
func LiftAbove(t Term, k, cutoff int) Term {
	if k == 0 {
		return t
	}
	return liftAbove(t, k, cutoff)
}

// liftAbove shifts free variables with index >= cutoff up by k.
func liftAbove(t Term, k, cutoff int) Term {
	switch n := t.(type) {
	case *Var:
		if n.Index >= cutoff {
			return &Var{Index: n.Index + k}
		}
		return n
	case *NamedVar, *Sort, *Const, *Ind, *Construct, *Meta:
		return n
	case *Cast:
		return &Cast{Body: liftAbove(n.Body, k, cutoff), Type: liftAbove(n.Type, k, cutoff)}
	case *Prod:
		return &Prod{
			Binder:   n.Binder,
			Domain:   liftAbove(n.Domain, k, cutoff),
			Codomain: liftAbove(n.Codomain, k, cutoff+1),
		}
	case *Lam:
		return &Lam{
			Binder: n.Binder,
			Domain: liftAbove(n.Domain, k, cutoff),
			Body:   liftAbove(n.Body, k, cutoff+1),
		}
	case *Let:
		return &Let{
			Binder: n.Binder,
			Value:  liftAbove(n.Value, k, cutoff),
			Type:   liftAbove(n.Type, k, cutoff),
			Body:   liftAbove(n.Body, k, cutoff+1),
		}
	case *App:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = liftAbove(a, k, cutoff)
		}
		return &App{Fn: liftAbove(n.Fn, k, cutoff), Args: args}
	case *Case:
		branches := make([]Term, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = liftAbove(b, k, cutoff)
		}
		return &Case{
			Ind:         n.Ind,
			Motive:      liftAbove(n.Motive, k, cutoff),
			Discriminee: liftAbove(n.Discriminee, k, cutoff),
			Branches:    branches,
		}
	case *Fix:
		return &Fix{
			RecIndices: n.RecIndices,
			Focus:      n.Focus,
			Names:      n.Names,
			Types:      liftAll(n.Types, k, cutoff),
			Bodies:     liftAll(n.Bodies, k, cutoff+len(n.Names)),
		}
	case *CoFix:
		return &CoFix{
			Focus:  n.Focus,
			Names:  n.Names,
			Types:  liftAll(n.Types, k, cutoff),
			Bodies: liftAll(n.Bodies, k, cutoff+len(n.Names)),
		}
	case *Proj:
		return &Proj{Field: n.Field, Arg: liftAbove(n.Arg, k, cutoff)}
	default:
		return t
	}
}

func liftAll(ts []Term, k, cutoff int) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = liftAbove(t, k, cutoff)
	}
	return out
}

// Subst replaces Var(j) in t by s and lowers every variable above j by one,
// removing the binder that introduced j.
func Subst(t Term, j int, s Term) Term {
	switch n := t.(type) {
	case *Var:
		switch {
		case n.Index == j:
			return Lift(s, j)
		case n.Index > j:
			return &Var{Index: n.Index - 1}
		default:
			return n
		}
	case *NamedVar, *Sort, *Const, *Ind, *Construct, *Meta:
		return n
	case *Cast:
		return &Cast{Body: Subst(n.Body, j, s), Type: Subst(n.Type, j, s)}
	case *Prod:
		return &Prod{
			Binder:   n.Binder,
			Domain:   Subst(n.Domain, j, s),
			Codomain: Subst(n.Codomain, j+1, s),
		}
	case *Lam:
		return &Lam{
			Binder: n.Binder,
			Domain: Subst(n.Domain, j, s),
			Body:   Subst(n.Body, j+1, s),
		}
	case *Let:
		return &Let{
			Binder: n.Binder,
			Value:  Subst(n.Value, j, s),
			Type:   Subst(n.Type, j, s),
			Body:   Subst(n.Body, j+1, s),
		}
	case *App:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = Subst(a, j, s)
		}
		return &App{Fn: Subst(n.Fn, j, s), Args: args}
	case *Case:
		branches := make([]Term, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = Subst(b, j, s)
		}
		return &Case{
			Ind:         n.Ind,
			Motive:      Subst(n.Motive, j, s),
			Discriminee: Subst(n.Discriminee, j, s),
			Branches:    branches,
		}
	case *Fix:
		return &Fix{
			RecIndices: n.RecIndices,
			Focus:      n.Focus,
			Names:      n.Names,
			Types:      substAll(n.Types, j, s),
			Bodies:     substAll(n.Bodies, j+len(n.Names), s),
		}
	case *CoFix:
		return &CoFix{
			Focus:  n.Focus,
			Names:  n.Names,
			Types:  substAll(n.Types, j, s),
			Bodies: substAll(n.Bodies, j+len(n.Names), s),
		}
	case *Proj:
		return &Proj{Field: n.Field, Arg: Subst(n.Arg, j, s)}
	default:
		return t
	}
}

func substAll(ts []Term, j int, s Term) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = Subst(t, j, s)
	}
	return out
}

// Instantiate plugs arg in for the innermost binder of body.
func Instantiate(body Term, arg Term) Term {
	return Subst(body, 0, arg)
}
