package translator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/rewrite"
)

// fixCache shares the encoding of structurally identical recursive groups
// within one run. Keys erase universe operands, so occurrences that differ
// only in universe instantiation reuse one encoding.
type fixCache struct {
	byKey map[string]*encodedFix
	hits  int
}

func newFixCache() *fixCache {
	return &fixCache{byKey: make(map[string]*encodedFix)}
}

// encodedFix records what a use site needs: the entry symbol of each
// definition and how many context bindings the symbols abstract over.
type encodedFix struct {
	entries []string
	ctxLen  int
}

func fixKey(e *env.Env, n *kernel.Fix) string {
	var sb strings.Builder
	for _, b := range e.Bindings() {
		sb.WriteString(kernel.ErasedKey(b.Type))
		sb.WriteByte('|')
	}
	sb.WriteString(kernel.ErasedKey(n))
	return sb.String()
}

// translateFix encodes a group of mutually recursive definitions. Each
// definition becomes three opaque symbols and a set of rewrite rules:
//
//   - the entry symbol carries the definition's type; its single rule
//     duplicates the structurally decreasing argument into a guard call;
//   - the guard symbol blocks until the duplicated argument is a syntactic
//     constructor application; one rule per constructor discards the
//     decomposition and forwards to the body symbol;
//   - the body symbol rewrites to the translated body, with recursive
//     references resolved to the entry symbols.
//
// Unfolding therefore happens only on constructor-headed arguments, which
// keeps the target system terminating on well-founded input.
func (tr *Translator) translateFix(e *env.Env, n *kernel.Fix) (rewrite.Term, error) {
	if len(n.Types) != len(n.Names) || len(n.Bodies) != len(n.Names) || len(n.RecIndices) != len(n.Names) {
		return nil, fmt.Errorf("recursive group arity mismatch: %d names, %d types, %d bodies, %d indices",
			len(n.Names), len(n.Types), len(n.Bodies), len(n.RecIndices))
	}
	if n.Focus < 0 || n.Focus >= len(n.Names) {
		return nil, fmt.Errorf("recursive group focus %d out of range", n.Focus)
	}

	key := fixKey(e, n)
	enc, ok := tr.fix.byKey[key]
	if ok {
		tr.fix.hits++
	} else {
		var err error
		enc, err = tr.encodeFix(e, n)
		if err != nil {
			return nil, err
		}
		tr.fix.byKey[key] = enc
	}
	return tr.fixOccurrence(e, enc, n.Focus)
}

// fixOccurrence renders a use of an encoded group: the focused entry symbol
// applied to the shared context prefix.
func (tr *Translator) fixOccurrence(e *env.Env, enc *encodedFix, focus int) (rewrite.Term, error) {
	head := &kernel.Const{Name: enc.entries[focus], Univs: paramInstance(len(tr.univParams))}
	return tr.translate(e, e.ApplyPrefix(head, enc.ctxLen), nil)
}

func (tr *Translator) encodeFix(e *env.Env, n *kernel.Fix) (*encodedFix, error) {
	nDefs := len(n.Names)
	ctxNames := e.Names()
	names := tr.globals.Names()

	closedTys := make([]kernel.Term, nDefs)
	for i := range closedTys {
		closedTys[i] = e.CloseProd(n.Types[i])
	}

	entries := make([]string, nDefs)
	guards := make([]string, nDefs)
	bodies := make([]string, nDefs)
	for i, name := range n.Names {
		entries[i] = names.Fresh(name)
		guards[i] = names.Fresh(name + "_guard")
		bodies[i] = names.Fresh(name + "_body")
	}

	// Entry symbols go into the global context first so recursive calls and
	// body inference resolve through the ordinary constant path.
	for i := range entries {
		if err := tr.globals.AddConst(&env.ConstInfo{
			Name:       entries[i],
			TargetName: entries[i],
			UnivParams: tr.univParams,
			Type:       closedTys[i],
		}); err != nil {
			return nil, err
		}
	}

	// Declarations: entry and body share the definition's type, the guard
	// takes the decreasing argument twice.
	declTys := make([]rewrite.Term, nDefs)
	for i := range closedTys {
		tyT, err := tr.asType(env.Empty(), closedTys[i])
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		declTys[i] = tr.closeTypeOverParams(tyT)
	}
	for i := range closedTys {
		guardTy, err := tr.guardType(e, n.Types[i], n.RecIndices[i])
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		guardTyT, err := tr.asType(env.Empty(), e.CloseProd(guardTy))
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		tr.emit(&rewrite.Declaration{Name: entries[i], Type: declTys[i]})
		tr.emit(&rewrite.Declaration{Name: guards[i], Type: tr.closeTypeOverParams(guardTyT)})
		tr.emit(&rewrite.Declaration{Name: bodies[i], Type: declTys[i]})
	}

	univVars := varTerms(tr.univParams)
	ctxVars := varTerms(ctxNames)

	// Entry rules.
	argNames := make([][]string, nDefs)
	for i := range closedTys {
		rec := n.RecIndices[i]
		doms, _, _, err := tr.peelProducts(e, n.Types[i], rec+1)
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		args := make([]string, rec+1)
		for j, d := range doms {
			args[j] = names.Fresh(d.Binder)
		}
		argNames[i] = args
		argVars := varTerms(args)

		lhs := rewrite.MkApp(&rewrite.Const{Name: entries[i]},
			concat(univVars, ctxVars, argVars)...)
		rhs := rewrite.MkApp(&rewrite.Const{Name: guards[i]},
			concat(univVars, ctxVars, argVars, []rewrite.Term{argVars[rec]})...)
		tr.emit(&rewrite.Rule{
			Vars: concatStrings(tr.univParams, ctxNames, args),
			LHS:  lhs,
			RHS:  rhs,
		})
	}

	// Trigger rules: one per constructor of the decreasing argument's type.
	for i := range closedTys {
		rec := n.RecIndices[i]
		_, rest, extEnv, err := tr.peelProducts(e, n.Types[i], rec)
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		recProd, err := tr.oracle.ReduceToProduct(extEnv, rest)
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		ia, err := tr.oracle.ReduceToInductive(extEnv, recProd.Domain)
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: decreasing argument: %w", n.Names[i], err)
		}
		info := ia.Info

		nUniv := len(info.UnivParams)
		if info.Template {
			nUniv = 0
			for _, s := range info.TemplateSlots {
				if s+1 > nUniv {
					nUniv = s + 1
				}
			}
		}
		argVars := varTerms(argNames[i])
		for _, ctor := range info.Ctors {
			ctorUnivs := freshAll(names, "s", nUniv)
			params := freshAll(names, "p", info.ParamCount)
			fields := freshAll(names, "y", ctor.FieldCount)
			pattern := rewrite.MkApp(&rewrite.Const{Name: ctor.TargetName},
				concat(varTerms(ctorUnivs), varTerms(params), varTerms(fields))...)
			lhs := rewrite.MkApp(&rewrite.Const{Name: guards[i]},
				concat(univVars, ctxVars, argVars, []rewrite.Term{pattern})...)
			rhs := rewrite.MkApp(&rewrite.Const{Name: bodies[i]},
				concat(univVars, ctxVars, argVars)...)
			tr.emit(&rewrite.Rule{
				Vars: concatStrings(tr.univParams, ctxNames, argNames[i], ctorUnivs, params, fields),
				LHS:  lhs,
				RHS:  rhs,
			})
		}
	}

	// Body rules: recursive references resolve to the entry symbols,
	// re-specialized over the shared context.
	for i := range closedTys {
		bodyTerm := n.Bodies[i]
		for j := 0; j < nDefs; j++ {
			repl := e.ApplyContext(&kernel.Const{
				Name:  entries[j],
				Univs: paramInstance(len(tr.univParams)),
			})
			bodyTerm = kernel.Subst(bodyTerm, nDefs-1-j, repl)
		}
		rhs, err := tr.translate(e, bodyTerm, nil)
		if err != nil {
			return nil, fmt.Errorf("recursive definition %s: %w", n.Names[i], err)
		}
		lhs := rewrite.MkApp(&rewrite.Const{Name: bodies[i]}, concat(univVars, ctxVars)...)
		tr.emit(&rewrite.Rule{
			Vars: concatStrings(tr.univParams, ctxNames),
			LHS:  lhs,
			RHS:  rhs,
		})
	}

	return &encodedFix{entries: entries, ctxLen: e.Depth()}, nil
}

// guardType inserts a duplicate of the decreasing argument binder directly
// after it: the duplicate is the syntactic position trigger rules match on.
func (tr *Translator) guardType(e *env.Env, ty kernel.Term, rec int) (kernel.Term, error) {
	doms, rest, _, err := tr.peelProducts(e, ty, rec+1)
	if err != nil {
		return nil, err
	}
	last := doms[rec]
	out := &kernel.Prod{
		Binder:   last.Binder,
		Domain:   kernel.Lift(last.Domain, 1),
		Codomain: kernel.Lift(rest, 1),
	}
	for i := rec; i >= 0; i-- {
		out = &kernel.Prod{Binder: doms[i].Binder, Domain: doms[i].Domain, Codomain: out}
	}
	return out, nil
}

// peelProducts exposes the first count argument positions of a function
// type, reducing as needed, and returns the peeled binders, the remaining
// codomain and the extended context.
func (tr *Translator) peelProducts(e *env.Env, ty kernel.Term, count int) ([]*kernel.Prod, kernel.Term, *env.Env, error) {
	doms := make([]*kernel.Prod, 0, count)
	for i := 0; i < count; i++ {
		prod, err := tr.oracle.ReduceToProduct(e, ty)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("argument %d: %w", i, err)
		}
		doms = append(doms, prod)
		e = e.Extended(env.Binding{Name: prod.Binder, Type: prod.Domain})
		ty = prod.Codomain
	}
	return doms, ty, e, nil
}

func varTerms(names []string) []rewrite.Term {
	return lo.Map(names, func(n string, _ int) rewrite.Term {
		return &rewrite.Var{Name: n}
	})
}

func freshAll(names *env.NameGen, hint string, count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = names.Fresh(hint)
	}
	return out
}

func concat(chunks ...[]rewrite.Term) []rewrite.Term {
	return lo.Flatten(chunks)
}

func concatStrings(chunks ...[]string) []string {
	return lo.Flatten(chunks)
}
