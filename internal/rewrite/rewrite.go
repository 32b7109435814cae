// Package rewrite defines the target calculus: an untyped rewriting system
// with explicit type and sort annotations. Translated programs are ordered
// lists of statements (declarations, definitions and rewrite rules) over
// name-based terms; all binder freshness is the producer's responsibility.
package rewrite

// Term is the interface for all target-calculus term nodes.
type Term interface {
	rwNode()
}

// Var is a named variable, either bound by an enclosing binder or matched by
// an enclosing rewrite-rule context.
type Var struct {
	Name string
}

func (*Var) rwNode() {}

// Const references a globally declared symbol.
type Const struct {
	Name string
}

func (*Const) rwNode() {}

// App applies Fn to one or more arguments.
type App struct {
	Fn   Term
	Args []Term
}

func (*App) rwNode() {}

// Lam is a lambda abstraction. Type may be nil for an unannotated binder.
type Lam struct {
	Binder string
	Type   Term
	Body   Term
}

func (*Lam) rwNode() {}

// Pi is a dependent product.
type Pi struct {
	Binder   string
	Domain   Term
	Codomain Term
}

func (*Pi) rwNode() {}

// Kind is the target's topmost classifier, written "Type" in concrete syntax.
type Kind struct{}

func (*Kind) rwNode() {}

// Statement is a single top-level item of the output stream. The stream is
// ordered: a statement may only reference names introduced earlier.
type Statement interface {
	stmtNode()
}

// Declaration introduces an opaque symbol: "name : type."
type Declaration struct {
	Name string
	Type Term
}

func (*Declaration) stmtNode() {}

// Definition introduces a defined symbol: "def name : type := body."
type Definition struct {
	Name string
	Type Term
	Body Term
}

func (*Definition) stmtNode() {}

// Rule is a rewrite rule with a pattern-variable context:
// "[x, y] lhs --> rhs."
type Rule struct {
	Vars []string
	LHS  Term
	RHS  Term
}

func (*Rule) stmtNode() {}

// Comment is a passthrough line in the output stream.
type Comment struct {
	Text string
}

func (*Comment) stmtNode() {}

// MkApp builds an application, flattening a nested App head. With no
// arguments it returns fn unchanged.
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

// Arrow is a non-dependent product with an unused binder.
func Arrow(domain, codomain Term) Term {
	return &Pi{Binder: "_", Domain: domain, Codomain: codomain}
}
