package oracle

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
)

// Engine is the reference oracle: a small structural inference engine over
// the source calculus. It assumes its input already typechecked in the
// producing kernel, so it computes types without re-verifying side
// conditions (guard checks, universe consistency).
type Engine struct {
	globals *env.Globals
}

// NewEngine builds a reference oracle over the given global context.
func NewEngine(globals *env.Globals) *Engine {
	return &Engine{globals: globals}
}

// InferType implements Oracle.
func (en *Engine) InferType(e *env.Env, t kernel.Term) (kernel.Term, error) {
	switch n := t.(type) {
	case *kernel.Var:
		b, err := e.Lookup(n.Index)
		if err != nil {
			return nil, err
		}
		// The binding's type is relative to the context below it.
		return kernel.Lift(b.Type, n.Index+1), nil

	case *kernel.NamedVar:
		info, err := en.globals.Const(n.Name)
		if err != nil {
			return nil, err
		}
		return info.Type, nil

	case *kernel.Sort:
		return &kernel.Sort{Univ: kernel.NormalizeUniv(&kernel.Succ{Of: n.Univ, K: 1})}, nil

	case *kernel.Cast:
		return n.Type, nil

	case *kernel.Prod:
		s1, err := en.InferSort(e, n.Domain)
		if err != nil {
			return nil, err
		}
		inner := e.Extended(env.Binding{Name: n.Binder, Type: n.Domain})
		s2, err := en.InferSort(inner, n.Codomain)
		if err != nil {
			return nil, err
		}
		return &kernel.Sort{Univ: kernel.NormalizeUniv(&kernel.Rule{Left: s1, Right: s2})}, nil

	case *kernel.Lam:
		inner := e.Extended(env.Binding{Name: n.Binder, Type: n.Domain})
		bodyTy, err := en.InferType(inner, n.Body)
		if err != nil {
			return nil, err
		}
		return &kernel.Prod{Binder: n.Binder, Domain: n.Domain, Codomain: bodyTy}, nil

	case *kernel.Let:
		inner := e.Extended(env.Binding{Name: n.Binder, Type: n.Type, Value: n.Value})
		bodyTy, err := en.InferType(inner, n.Body)
		if err != nil {
			return nil, err
		}
		return kernel.Instantiate(bodyTy, n.Value), nil

	case *kernel.App:
		fnTy, err := en.InferType(e, n.Fn)
		if err != nil {
			return nil, err
		}
		for i, arg := range n.Args {
			prod, ok := en.whnf(fnTy).(*kernel.Prod)
			if !ok {
				return nil, fmt.Errorf("application head is not a product at argument %d", i)
			}
			fnTy = kernel.Instantiate(prod.Codomain, arg)
		}
		return fnTy, nil

	case *kernel.Const:
		info, err := en.globals.Const(n.Name)
		if err != nil {
			return nil, err
		}
		return kernel.InstUnivs(info.Type, n.Univs), nil

	case *kernel.Ind:
		info, err := en.globals.Inductive(n.Name)
		if err != nil {
			return nil, err
		}
		return kernel.InstUnivs(info.Arity, n.Univs), nil

	case *kernel.Construct:
		info, idx, err := en.globals.Constructor(n.Name)
		if err != nil {
			return nil, err
		}
		return kernel.InstUnivs(info.Ctors[idx].Type, n.Univs), nil

	case *kernel.Case:
		discTy, err := en.InferType(e, n.Discriminee)
		if err != nil {
			return nil, err
		}
		ia, err := en.ReduceToInductive(e, discTy)
		if err != nil {
			return nil, err
		}
		reals := ia.Reals
		applied := kernel.MkApp(n.Motive, append(append([]kernel.Term{}, reals...), n.Discriminee)...)
		return en.normalize(applied), nil

	case *kernel.Fix:
		if n.Focus < 0 || n.Focus >= len(n.Types) {
			return nil, fmt.Errorf("fix focus %d out of range", n.Focus)
		}
		return n.Types[n.Focus], nil

	default:
		return nil, fmt.Errorf("cannot infer type of %T", t)
	}
}

// InferSort implements Oracle.
func (en *Engine) InferSort(e *env.Env, ty kernel.Term) (kernel.Univ, error) {
	t, err := en.InferType(e, ty)
	if err != nil {
		return nil, err
	}
	sort, ok := en.whnf(t).(*kernel.Sort)
	if !ok {
		return nil, fmt.Errorf("type is classified by %T, expected a sort", t)
	}
	return kernel.NormalizeUniv(sort.Univ), nil
}

// Convertible implements Oracle: structural equality of normal forms, with
// universe operands compared after normalization.
func (en *Engine) Convertible(e *env.Env, a, b kernel.Term) bool {
	return kernel.Equal(en.normalize(a), en.normalize(b))
}

// ReduceToProduct implements Oracle.
func (en *Engine) ReduceToProduct(e *env.Env, ty kernel.Term) (*kernel.Prod, error) {
	prod, ok := en.whnf(ty).(*kernel.Prod)
	if !ok {
		return nil, fmt.Errorf("type does not reduce to a product (head is %T)", en.whnf(ty))
	}
	return prod, nil
}

// ReduceToSort implements Oracle.
func (en *Engine) ReduceToSort(e *env.Env, ty kernel.Term) (kernel.Univ, error) {
	s, ok := en.whnf(ty).(*kernel.Sort)
	if !ok {
		return nil, fmt.Errorf("type does not reduce to a sort (head is %T)", en.whnf(ty))
	}
	return kernel.NormalizeUniv(s.Univ), nil
}

// ReduceToInductive implements Oracle: reduces ty to a fully applied
// inductive and splits its arguments against the declared arity.
func (en *Engine) ReduceToInductive(e *env.Env, ty kernel.Term) (*IndApp, error) {
	head := en.whnf(ty)
	var ind *kernel.Ind
	var args []kernel.Term
	switch h := head.(type) {
	case *kernel.Ind:
		ind = h
	case *kernel.App:
		inner, ok := h.Fn.(*kernel.Ind)
		if !ok {
			return nil, fmt.Errorf("type head is %T, expected an inductive", h.Fn)
		}
		ind = inner
		args = h.Args
	default:
		return nil, fmt.Errorf("type is %T, expected an inductive application", head)
	}
	info, err := en.globals.Inductive(ind.Name)
	if err != nil {
		return nil, err
	}
	if len(args) != info.ParamCount+info.IndexCount {
		return nil, fmt.Errorf("inductive %s applied to %d arguments, arity declares %d",
			info.Name, len(args), info.ParamCount+info.IndexCount)
	}
	return &IndApp{
		Info:   info,
		Univs:  ind.Univs,
		Params: args[:info.ParamCount],
		Reals:  args[info.ParamCount:],
	}, nil
}

// whnf reduces the head of a term: beta steps, let and cast elimination, and
// delta expansion of defined globals.
func (en *Engine) whnf(t kernel.Term) kernel.Term {
	for {
		switch n := t.(type) {
		case *kernel.Cast:
			t = n.Body
		case *kernel.Let:
			t = kernel.Instantiate(n.Body, n.Value)
		case *kernel.NamedVar:
			info, err := en.globals.Const(n.Name)
			if err != nil || info.Value == nil {
				return t
			}
			t = info.Value
		case *kernel.Const:
			info, err := en.globals.Const(n.Name)
			if err != nil || info.Value == nil {
				return t
			}
			t = kernel.InstUnivs(info.Value, n.Univs)
		case *kernel.App:
			fn := en.whnf(n.Fn)
			lam, ok := fn.(*kernel.Lam)
			if !ok {
				if kernel.Equal(fn, n.Fn) {
					return t
				}
				t = kernel.MkApp(fn, n.Args...)
				continue
			}
			reduced := kernel.Instantiate(lam.Body, n.Args[0])
			t = kernel.MkApp(reduced, n.Args[1:]...)
		default:
			return t
		}
	}
}

// normalize computes a full normal form by head reduction followed by
// normalization of all subterms. It is only used for convertibility and for
// motive application, never for output.
func (en *Engine) normalize(t kernel.Term) kernel.Term {
	t = en.whnf(t)
	switch n := t.(type) {
	case *kernel.Prod:
		return &kernel.Prod{Binder: n.Binder, Domain: en.normalize(n.Domain), Codomain: en.normalize(n.Codomain)}
	case *kernel.Lam:
		return &kernel.Lam{Binder: n.Binder, Domain: en.normalize(n.Domain), Body: en.normalize(n.Body)}
	case *kernel.App:
		args := make([]kernel.Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = en.normalize(a)
		}
		return kernel.MkApp(en.normalize(n.Fn), args...)
	case *kernel.Case:
		branches := make([]kernel.Term, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = en.normalize(b)
		}
		return &kernel.Case{
			Ind:         n.Ind,
			Motive:      en.normalize(n.Motive),
			Discriminee: en.normalize(n.Discriminee),
			Branches:    branches,
		}
	default:
		return t
	}
}
