// Package env models the translation context: an ordered stack of local
// bindings with de Bruijn lookup, and a named global table shared by one
// translation run. Environments are immutable; extension returns a new value
// sharing structure with its parent, which keeps recursive descent and
// let-lifting free of save/restore bookkeeping.
package env

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/kernel"
)

// Binding is one local context entry. Name is the fresh target-side
// identifier chosen when the binder was crossed; Value is non-nil for
// let-bound entries and is expressed relative to the context below this
// binding.
type Binding struct {
	Name  string
	Type  kernel.Term
	Value kernel.Term
}

// Env is an ordered binding stack, innermost binding last.
type Env struct {
	bindings []Binding
}

// Empty returns the empty local context.
func Empty() *Env {
	return &Env{}
}

// Depth returns the number of enclosing binders.
func (e *Env) Depth() int {
	return len(e.bindings)
}

// Extended returns a new context with one more binding pushed.
func (e *Env) Extended(b Binding) *Env {
	bindings := make([]Binding, len(e.bindings), len(e.bindings)+1)
	copy(bindings, e.bindings)
	return &Env{bindings: append(bindings, b)}
}

// Lookup resolves a de Bruijn index (0 is innermost) to its binding.
func (e *Env) Lookup(index int) (Binding, error) {
	if index < 0 || index >= len(e.bindings) {
		return Binding{}, fmt.Errorf("variable index %d out of range (depth %d)", index, len(e.bindings))
	}
	return e.bindings[len(e.bindings)-1-index], nil
}

// Bindings returns the context entries, outermost first.
func (e *Env) Bindings() []Binding {
	return e.bindings
}

// Names returns the binding names, outermost first.
func (e *Env) Names() []string {
	names := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		names[i] = b.Name
	}
	return names
}

// CloseProd generalizes t over the whole local context as nested products,
// outermost binding first. Let-bound entries generalize as plain binders;
// the value is re-supplied by ApplyContext at the use site.
func (e *Env) CloseProd(t kernel.Term) kernel.Term {
	for i := len(e.bindings) - 1; i >= 0; i-- {
		b := e.bindings[i]
		t = &kernel.Prod{Binder: b.Name, Domain: b.Type, Codomain: t}
	}
	return t
}

// CloseLam generalizes t over the whole local context as nested lambdas.
func (e *Env) CloseLam(t kernel.Term) kernel.Term {
	for i := len(e.bindings) - 1; i >= 0; i-- {
		b := e.bindings[i]
		t = &kernel.Lam{Binder: b.Name, Domain: b.Type, Body: t}
	}
	return t
}

// ApplyContext re-specializes a context-generalized head by applying it to
// the context variables, outermost first. The result is relative to e.
func (e *Env) ApplyContext(head kernel.Term) kernel.Term {
	depth := len(e.bindings)
	if depth == 0 {
		return head
	}
	args := make([]kernel.Term, depth)
	for i := 0; i < depth; i++ {
		args[i] = &kernel.Var{Index: depth - 1 - i}
	}
	return kernel.MkApp(head, args...)
}

// ApplyPrefix is ApplyContext restricted to the outermost n bindings.
func (e *Env) ApplyPrefix(head kernel.Term, n int) kernel.Term {
	if n > len(e.bindings) {
		n = len(e.bindings)
	}
	if n == 0 {
		return head
	}
	depth := len(e.bindings)
	args := make([]kernel.Term, n)
	for i := 0; i < n; i++ {
		args[i] = &kernel.Var{Index: depth - 1 - i}
	}
	return kernel.MkApp(head, args...)
}
