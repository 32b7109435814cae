package translator

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/rewrite"
)

// Inductive registers an inductive block and renders its signature: one
// declaration for the type former, one per constructor, and one for the
// match symbol. Reduction rules for the match symbol are intentionally not
// produced; recursion is unfolded through the fixpoint encoding instead.
//
// Template-polymorphic inductives name their universe slots in UnivParams,
// so arity and constructor types close over the slots like ordinary
// polymorphic declarations; only use sites differ.
func (tr *Translator) Inductive(info *env.InductiveInfo) ([]rewrite.Statement, error) {
	if err := tr.globals.AddInductive(info); err != nil {
		return nil, err
	}
	names := tr.globals.Names()
	names.Claim(info.TargetName)
	names.Claim(info.MatchName)
	for i := range info.Ctors {
		names.Claim(info.Ctors[i].TargetName)
	}

	tr.begin(info.UnivParams)
	var stmts []rewrite.Statement

	arityT, err := tr.asType(env.Empty(), info.Arity)
	if err != nil {
		return nil, fmt.Errorf("arity of %s: %w", info.Name, err)
	}
	stmts = append(stmts, tr.out...)
	tr.out = nil
	stmts = append(stmts, &rewrite.Declaration{
		Name: info.TargetName,
		Type: tr.closeTypeOverParams(arityT),
	})

	for i := range info.Ctors {
		ctor := &info.Ctors[i]
		ctorT, err := tr.asType(env.Empty(), ctor.Type)
		if err != nil {
			return nil, fmt.Errorf("constructor %s: %w", ctor.Name, err)
		}
		stmts = append(stmts, tr.out...)
		tr.out = nil
		stmts = append(stmts, &rewrite.Declaration{
			Name: ctor.TargetName,
			Type: tr.closeTypeOverParams(ctorT),
		})
	}

	matchStmts, err := tr.matchSignature(info)
	if err != nil {
		return nil, fmt.Errorf("match symbol of %s: %w", info.Name, err)
	}
	return append(stmts, matchStmts...), nil
}

// matchSignature builds the dependent type of the match symbol from the
// declared arity and constructor types:
//
//	match__I : (univ slots) -> s : Sort ->
//	           params -> motive -> branches -> indices -> scrutinee -> motive applied
//
// The motive's classifying sort s is an extra universe parameter, matching
// the extra sort argument at every match application site.
func (tr *Translator) matchSignature(info *env.InductiveInfo) ([]rewrite.Statement, error) {
	nP, nR, nC := info.ParamCount, info.IndexCount, len(info.Ctors)

	sName := tr.globals.Names().Fresh("s")
	matchParams := make([]string, 0, len(info.UnivParams)+1)
	matchParams = append(matchParams, info.UnivParams...)
	matchParams = append(matchParams, sName)
	sU := &kernel.Param{Index: len(info.UnivParams)}
	indInst := paramInstance(len(info.UnivParams))

	doms, _, _, err := tr.peelProducts(env.Empty(), info.Arity, nP+nR)
	if err != nil {
		return nil, err
	}
	paramDoms, idxDoms := doms[:nP], doms[nP:]
	indRef := &kernel.Ind{Name: info.Name, Univs: indInst}

	// Motive: Pi over the indices and the scrutinee into the result sort.
	// Sits directly under the parameter binders, where the peeled index
	// domains are already well-scoped.
	xArgs := make([]kernel.Term, 0, nP+nR)
	for j := 0; j < nP; j++ {
		xArgs = append(xArgs, &kernel.Var{Index: nP + nR - 1 - j})
	}
	for k := 0; k < nR; k++ {
		xArgs = append(xArgs, &kernel.Var{Index: nR - 1 - k})
	}
	motiveTy := kernel.Term(&kernel.Prod{
		Binder:   "x",
		Domain:   kernel.MkApp(indRef, xArgs...),
		Codomain: &kernel.Sort{Univ: sU},
	})
	for k := nR - 1; k >= 0; k-- {
		motiveTy = &kernel.Prod{
			Binder:   idxDoms[k].Binder,
			Domain:   idxDoms[k].Domain,
			Codomain: motiveTy,
		}
	}

	// One branch per constructor: Pi over the fields into the motive at the
	// constructor's indices and the rebuilt constructor value.
	branchTys := make([]kernel.Term, nC)
	for c := range info.Ctors {
		ctor := &info.Ctors[c]
		depth := nP + 1 + c // params, motive, earlier branches
		shift := depth - nP
		nF := ctor.FieldCount

		ctorDoms, ctorRes, _, err := tr.peelProducts(env.Empty(), ctor.Type, nP+nF)
		if err != nil {
			return nil, fmt.Errorf("constructor %s: %w", ctor.Name, err)
		}
		reals, err := resultIndices(info, kernel.LiftAbove(ctorRes, shift, nF))
		if err != nil {
			return nil, fmt.Errorf("constructor %s: %w", ctor.Name, err)
		}

		ctorArgs := make([]kernel.Term, 0, nP+nF)
		for j := 0; j < nP; j++ {
			ctorArgs = append(ctorArgs, &kernel.Var{Index: depth + nF - 1 - j})
		}
		for f := 0; f < nF; f++ {
			ctorArgs = append(ctorArgs, &kernel.Var{Index: nF - 1 - f})
		}
		value := kernel.MkApp(&kernel.Construct{Name: ctor.Name, Univs: indInst}, ctorArgs...)
		body := kernel.MkApp(&kernel.Var{Index: c + nF}, append(reals, value)...)

		branchTy := body
		for f := nF - 1; f >= 0; f-- {
			branchTy = &kernel.Prod{
				Binder:   ctorDoms[nP+f].Binder,
				Domain:   kernel.LiftAbove(ctorDoms[nP+f].Domain, shift, f),
				Codomain: branchTy,
			}
		}
		branchTys[c] = branchTy
	}

	// Tail: the indices again, the scrutinee, and the motive applied to both.
	base := nP + 1 + nC
	xTailArgs := make([]kernel.Term, 0, nP+nR)
	for j := 0; j < nP; j++ {
		xTailArgs = append(xTailArgs, &kernel.Var{Index: base + nR - 1 - j})
	}
	for k := 0; k < nR; k++ {
		xTailArgs = append(xTailArgs, &kernel.Var{Index: nR - 1 - k})
	}
	resultArgs := make([]kernel.Term, 0, nR+1)
	for k := 0; k < nR; k++ {
		resultArgs = append(resultArgs, &kernel.Var{Index: nR - k})
	}
	resultArgs = append(resultArgs, &kernel.Var{Index: 0})
	tail := kernel.Term(&kernel.Prod{
		Binder:   "x",
		Domain:   kernel.MkApp(indRef, xTailArgs...),
		Codomain: kernel.MkApp(&kernel.Var{Index: nC + nR + 1}, resultArgs...),
	})
	for k := nR - 1; k >= 0; k-- {
		tail = &kernel.Prod{
			Binder:   idxDoms[k].Binder,
			Domain:   kernel.LiftAbove(idxDoms[k].Domain, 1+nC, k),
			Codomain: tail,
		}
	}

	matchTy := tail
	for c := nC - 1; c >= 0; c-- {
		matchTy = &kernel.Prod{
			Binder:   "case_" + info.Ctors[c].Name,
			Domain:   branchTys[c],
			Codomain: matchTy,
		}
	}
	matchTy = &kernel.Prod{Binder: "motive", Domain: motiveTy, Codomain: matchTy}
	for j := nP - 1; j >= 0; j-- {
		matchTy = &kernel.Prod{
			Binder:   paramDoms[j].Binder,
			Domain:   paramDoms[j].Domain,
			Codomain: matchTy,
		}
	}

	tr.begin(matchParams)
	matchTyT, err := tr.asType(env.Empty(), matchTy)
	if err != nil {
		return nil, err
	}
	stmts := append(tr.out, &rewrite.Declaration{
		Name: info.MatchName,
		Type: tr.closeTypeOverParams(matchTyT),
	})
	tr.out = nil
	return stmts, nil
}

// resultIndices splits a constructor's result type, which must be the owning
// inductive fully applied, and returns its real indices.
func resultIndices(info *env.InductiveInfo, res kernel.Term) ([]kernel.Term, error) {
	var head kernel.Term
	var args []kernel.Term
	switch r := res.(type) {
	case *kernel.App:
		head = r.Fn
		args = r.Args
	default:
		head = res
	}
	ind, ok := head.(*kernel.Ind)
	if !ok || ind.Name != info.Name {
		return nil, fmt.Errorf("result type is not the owning inductive")
	}
	if len(args) != info.ParamCount+info.IndexCount {
		return nil, &ArityError{Ref: info.Name, Got: len(args), Want: info.ParamCount + info.IndexCount}
	}
	return args[info.ParamCount:], nil
}
