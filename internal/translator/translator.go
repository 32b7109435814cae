// Package translator implements the core encoding of source terms into the
// rewriting target. The translation is homomorphic on every construct except
// casts; lets and fixpoints additionally emit auxiliary top-level statements,
// collected in order alongside the translated term.
package translator

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/oracle"
	"github.com/modulus-lang/modulus/internal/rewrite"
	"github.com/modulus-lang/modulus/internal/universe"
)

// Translator drives one translation run. It is not safe for concurrent use:
// emission order and fresh-name allocation are part of the output.
type Translator struct {
	base    *universe.Translator
	u       *universe.Translator // base specialized to the current parameters
	oracle  oracle.Oracle
	globals *env.Globals
	fix     *fixCache

	univParams []string
	out        []rewrite.Statement
}

// New builds a translator over the given universe renderer, oracle and
// global context.
func New(base *universe.Translator, orc oracle.Oracle, globals *env.Globals) *Translator {
	return &Translator{base: base, u: base, oracle: orc, globals: globals, fix: newFixCache()}
}

// Globals exposes the run's global context.
func (tr *Translator) Globals() *env.Globals {
	return tr.globals
}

// FixCacheHits reports how many fixpoint occurrences were served from the
// sharing cache instead of being re-encoded.
func (tr *Translator) FixCacheHits() int {
	return tr.fix.hits
}

// Definition translates one defined global, registers it, and returns its
// statements: any auxiliary declarations first, the definition itself last.
func (tr *Translator) Definition(name string, univParams []string, ty, body kernel.Term) ([]rewrite.Statement, error) {
	tr.begin(univParams)
	e := env.Empty()
	tyT, err := tr.asType(e, ty)
	if err != nil {
		return nil, fmt.Errorf("type of %s: %w", name, err)
	}
	bodyT, err := tr.translate(e, body, ty)
	if err != nil {
		return nil, fmt.Errorf("body of %s: %w", name, err)
	}
	tr.globals.Names().Claim(name)
	if err := tr.globals.AddConst(&env.ConstInfo{
		Name:       name,
		UnivParams: univParams,
		Type:       ty,
		Value:      body,
	}); err != nil {
		return nil, err
	}
	stmts := append(tr.out, &rewrite.Definition{
		Name: name,
		Type: tr.closeTypeOverParams(tyT),
		Body: tr.closeBodyOverParams(bodyT),
	})
	tr.out = nil
	return stmts, nil
}

// Axiom translates one opaque global and registers it.
func (tr *Translator) Axiom(name string, univParams []string, ty kernel.Term) ([]rewrite.Statement, error) {
	tr.begin(univParams)
	tyT, err := tr.asType(env.Empty(), ty)
	if err != nil {
		return nil, fmt.Errorf("type of %s: %w", name, err)
	}
	tr.globals.Names().Claim(name)
	if err := tr.globals.AddConst(&env.ConstInfo{
		Name:       name,
		UnivParams: univParams,
		Type:       ty,
	}); err != nil {
		return nil, err
	}
	stmts := append(tr.out, &rewrite.Declaration{
		Name: name,
		Type: tr.closeTypeOverParams(tyT),
	})
	tr.out = nil
	return stmts, nil
}

// Translate encodes one closed term against an optional expected type,
// returning the term and the auxiliary statements emitted along the way.
func (tr *Translator) Translate(univParams []string, t, expected kernel.Term) (rewrite.Term, []rewrite.Statement, error) {
	tr.begin(univParams)
	out, err := tr.translate(env.Empty(), t, expected)
	if err != nil {
		return nil, nil, err
	}
	aux := tr.out
	tr.out = nil
	return out, aux, nil
}

func (tr *Translator) begin(univParams []string) {
	tr.out = nil
	tr.univParams = univParams
	tr.u = tr.base.WithParams(univParams)
}

func (tr *Translator) emit(s rewrite.Statement) {
	tr.out = append(tr.out, s)
}

// closeTypeOverParams abstracts a translated type over the current universe
// parameters, one sort-valued product per parameter.
func (tr *Translator) closeTypeOverParams(t rewrite.Term) rewrite.Term {
	for i := len(tr.univParams) - 1; i >= 0; i-- {
		t = &rewrite.Pi{Binder: tr.univParams[i], Domain: rewrite.SortTy(), Codomain: t}
	}
	return t
}

func (tr *Translator) closeBodyOverParams(t rewrite.Term) rewrite.Term {
	for i := len(tr.univParams) - 1; i >= 0; i-- {
		t = &rewrite.Lam{Binder: tr.univParams[i], Type: rewrite.SortTy(), Body: t}
	}
	return t
}

// asType renders ty in a type position: the decoding of its code at its
// inferred sort.
func (tr *Translator) asType(e *env.Env, ty kernel.Term) (rewrite.Term, error) {
	s, err := tr.oracle.InferSort(e, ty)
	if err != nil {
		return nil, err
	}
	sT, err := tr.u.Sort(s)
	if err != nil {
		return nil, err
	}
	code, err := tr.translate(e, ty, nil)
	if err != nil {
		return nil, err
	}
	return rewrite.TermTy(sT, code), nil
}

// translate encodes t in context e. When expected is non-nil and the
// inferred type is not convertible to it, a cast is inserted around t; this
// is the translation's only non-homomorphic point.
func (tr *Translator) translate(e *env.Env, t kernel.Term, expected kernel.Term) (rewrite.Term, error) {
	if expected != nil {
		if _, already := t.(*kernel.Cast); !already {
			inferred, err := tr.oracle.InferType(e, t)
			if err != nil {
				return nil, err
			}
			if !tr.oracle.Convertible(e, inferred, expected) {
				t = &kernel.Cast{Body: t, Type: expected}
			}
		}
	}

	switch n := t.(type) {
	case *kernel.Var:
		b, err := e.Lookup(n.Index)
		if err != nil {
			return nil, err
		}
		if b.Value != nil {
			// Let-bound occurrences unfold to the lifted definition.
			return tr.translate(e, kernel.Lift(b.Value, n.Index+1), nil)
		}
		return &rewrite.Var{Name: b.Name}, nil

	case *kernel.NamedVar:
		info, err := tr.globals.Const(n.Name)
		if err != nil {
			return nil, err
		}
		return tr.constRef(info, nil)

	case *kernel.Sort:
		return tr.u.Code(n.Univ)

	case *kernel.Cast:
		return tr.translateCast(e, n)

	case *kernel.Prod:
		return tr.translateProd(e, n)

	case *kernel.Lam:
		s, err := tr.oracle.InferSort(e, n.Domain)
		if err != nil {
			return nil, err
		}
		sT, err := tr.u.Sort(s)
		if err != nil {
			return nil, err
		}
		domT, err := tr.translate(e, n.Domain, nil)
		if err != nil {
			return nil, err
		}
		fresh := tr.globals.Names().Fresh(n.Binder)
		inner := e.Extended(env.Binding{Name: fresh, Type: n.Domain})
		bodyT, err := tr.translate(inner, n.Body, nil)
		if err != nil {
			return nil, err
		}
		return &rewrite.Lam{Binder: fresh, Type: rewrite.TermTy(sT, domT), Body: bodyT}, nil

	case *kernel.Let:
		return tr.translateLet(e, n)

	case *kernel.App:
		return tr.translateApp(e, n)

	case *kernel.Const:
		info, err := tr.globals.Const(n.Name)
		if err != nil {
			return nil, err
		}
		return tr.constRef(info, n.Univs)

	case *kernel.Ind:
		info, err := tr.globals.Inductive(n.Name)
		if err != nil {
			return nil, err
		}
		return tr.globalRef(info.TargetName, info.Name, info.UnivParams, info.Template, n.Univs)

	case *kernel.Construct:
		info, idx, err := tr.globals.Constructor(n.Name)
		if err != nil {
			return nil, err
		}
		return tr.globalRef(info.Ctors[idx].TargetName, n.Name, info.UnivParams, info.Template, n.Univs)

	case *kernel.Case:
		return tr.translateCase(e, n)

	case *kernel.Fix:
		return tr.translateFix(e, n)

	case *kernel.Meta:
		return nil, &NotSupportedError{Construct: "metavariable"}
	case *kernel.CoFix:
		return nil, &NotSupportedError{Construct: "cofixpoint"}
	case *kernel.Proj:
		return nil, &NotSupportedError{Construct: "primitive projection"}
	default:
		return nil, fmt.Errorf("unknown term node %T", t)
	}
}

func (tr *Translator) translateCast(e *env.Env, n *kernel.Cast) (rewrite.Term, error) {
	if _, nested := n.Body.(*kernel.Cast); nested {
		return nil, &NotSupportedError{Construct: "nested cast"}
	}
	from, err := tr.oracle.InferType(e, n.Body)
	if err != nil {
		return nil, err
	}
	s1, err := tr.oracle.InferSort(e, from)
	if err != nil {
		return nil, err
	}
	s2, err := tr.oracle.InferSort(e, n.Type)
	if err != nil {
		return nil, err
	}
	s1T, err := tr.u.Sort(s1)
	if err != nil {
		return nil, err
	}
	s2T, err := tr.u.Sort(s2)
	if err != nil {
		return nil, err
	}
	aT, err := tr.translate(e, from, nil)
	if err != nil {
		return nil, err
	}
	bT, err := tr.translate(e, n.Type, nil)
	if err != nil {
		return nil, err
	}
	body, err := tr.translate(e, n.Body, nil)
	if err != nil {
		return nil, err
	}
	return rewrite.Cast(s1T, s2T, aT, bT, body), nil
}

func (tr *Translator) translateProd(e *env.Env, n *kernel.Prod) (rewrite.Term, error) {
	s1, err := tr.oracle.InferSort(e, n.Domain)
	if err != nil {
		return nil, err
	}
	fresh := tr.globals.Names().Fresh(n.Binder)
	inner := e.Extended(env.Binding{Name: fresh, Type: n.Domain})
	s2, err := tr.oracle.InferSort(inner, n.Codomain)
	if err != nil {
		return nil, err
	}
	s1T, err := tr.u.Sort(s1)
	if err != nil {
		return nil, err
	}
	s2T, err := tr.u.Sort(s2)
	if err != nil {
		return nil, err
	}
	domT, err := tr.translate(e, n.Domain, nil)
	if err != nil {
		return nil, err
	}
	codT, err := tr.translate(inner, n.Codomain, nil)
	if err != nil {
		return nil, err
	}
	abstraction := &rewrite.Lam{
		Binder: fresh,
		Type:   rewrite.TermTy(s1T, domT),
		Body:   codT,
	}
	return rewrite.Prod(s1T, s2T, domT, abstraction), nil
}

func (tr *Translator) translateApp(e *env.Env, n *kernel.App) (rewrite.Term, error) {
	headT, err := tr.translate(e, n.Fn, nil)
	if err != nil {
		return nil, err
	}
	fnTy, err := tr.oracle.InferType(e, n.Fn)
	if err != nil {
		return nil, err
	}
	if info := tr.templateInfo(n.Fn); info != nil {
		inst, err := tr.templateInstance(e, info, n.Args)
		if err != nil {
			return nil, err
		}
		synth := make([]rewrite.Term, len(inst))
		for i, u := range inst {
			if synth[i], err = tr.u.Sort(u); err != nil {
				return nil, err
			}
		}
		headT = rewrite.MkApp(headT, synth...)
		// The declared type carries the template slots as parameters; the
		// argument loop below needs them filled in.
		fnTy = kernel.InstUnivs(fnTy, inst)
	}
	args := make([]rewrite.Term, 0, len(n.Args))
	for _, arg := range n.Args {
		prod, err := tr.oracle.ReduceToProduct(e, fnTy)
		if err != nil {
			return nil, err
		}
		argT, err := tr.translate(e, arg, prod.Domain)
		if err != nil {
			return nil, err
		}
		args = append(args, argT)
		fnTy = kernel.Instantiate(prod.Codomain, arg)
	}
	return rewrite.MkApp(headT, args...), nil
}

// constRef renders a reference to a named constant at a universe instance.
func (tr *Translator) constRef(info *env.ConstInfo, inst []kernel.Univ) (rewrite.Term, error) {
	return tr.globalRef(info.TargetName, info.Name, info.UnivParams, false, inst)
}

// globalRef renders a polymorphic global applied to its encoded universe
// instance. Template globals take no instance here; their universe arguments
// are synthesized at application sites.
func (tr *Translator) globalRef(target, name string, declParams []string, template bool, inst []kernel.Univ) (rewrite.Term, error) {
	head := &rewrite.Const{Name: target}
	if template {
		return head, nil
	}
	args, err := tr.instanceArgs(name, declParams, inst)
	if err != nil {
		return nil, err
	}
	return rewrite.MkApp(head, args...), nil
}

// templateInfo returns the inductive metadata when head is a reference to a
// template-polymorphic inductive or one of its constructors.
func (tr *Translator) templateInfo(head kernel.Term) *env.InductiveInfo {
	switch h := head.(type) {
	case *kernel.Ind:
		if info, err := tr.globals.Inductive(h.Name); err == nil && info.Template {
			return info
		}
	case *kernel.Construct:
		if info, _, err := tr.globals.Constructor(h.Name); err == nil && info.Template {
			return info
		}
	}
	return nil
}

// paramInstance is the identity universe instance over n parameters.
func paramInstance(n int) []kernel.Univ {
	inst := make([]kernel.Univ, n)
	for i := range inst {
		inst[i] = &kernel.Param{Index: i}
	}
	return inst
}
