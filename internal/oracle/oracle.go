// Package oracle defines the source-calculus services the translator
// consumes: type and sort inference, convertibility, and head reduction to
// the shapes the encoder destructures. The translator treats these as black
// boxes; Engine is a reference implementation good enough to drive the
// pipeline and the tests, and production embedders can supply their
// kernel's own checker through the Oracle interface.
package oracle

import (
	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
)

// IndApp is a type reduced to a fully applied inductive, split into the
// universe instance, the parameters and the real indices.
type IndApp struct {
	Info   *env.InductiveInfo
	Univs  []kernel.Univ
	Params []kernel.Term
	Reals  []kernel.Term
}

// Oracle answers typing questions about source terms. All calls are
// blocking, in-process computations assumed to terminate.
type Oracle interface {
	// InferType returns the type of t in the given context.
	InferType(e *env.Env, t kernel.Term) (kernel.Term, error)
	// InferSort returns the universe classifying the type ty.
	InferSort(e *env.Env, ty kernel.Term) (kernel.Univ, error)
	// Convertible reports whether two types are interchangeable.
	Convertible(e *env.Env, a, b kernel.Term) bool
	// ReduceToProduct reduces a function type to its head product.
	ReduceToProduct(e *env.Env, ty kernel.Term) (*kernel.Prod, error)
	// ReduceToInductive reduces a type to a fully applied inductive and
	// unifies its arguments against the declared arity.
	ReduceToInductive(e *env.Env, ty kernel.Term) (*IndApp, error)
	// ReduceToSort reduces a classifier to the universe it denotes.
	ReduceToSort(e *env.Env, ty kernel.Term) (kernel.Univ, error)
}
