package translator

import (
	"fmt"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/rewrite"
)

// translateCase encodes a pattern match as an application of the inductive's
// eliminator symbol. Argument order is fixed: universe arguments, the
// motive's classifying sort, the parameters, the motive, one branch per
// constructor in declaration order, the real indices, and the discriminee.
func (tr *Translator) translateCase(e *env.Env, n *kernel.Case) (rewrite.Term, error) {
	discTy, err := tr.oracle.InferType(e, n.Discriminee)
	if err != nil {
		return nil, err
	}
	ia, err := tr.oracle.ReduceToInductive(e, discTy)
	if err != nil {
		return nil, err
	}
	info := ia.Info
	if info.Name != n.Ind {
		return nil, fmt.Errorf("match on %s but discriminee inhabits %s", n.Ind, info.Name)
	}
	if len(n.Branches) != len(info.Ctors) {
		return nil, &ArityError{Ref: info.Name, Got: len(n.Branches), Want: len(info.Ctors)}
	}

	var univArgs []rewrite.Term
	if info.Template {
		univArgs, err = tr.templateArgs(e, info, ia.Params)
	} else {
		univArgs, err = tr.instanceArgs(info.Name, info.UnivParams, ia.Univs)
	}
	if err != nil {
		return nil, err
	}

	sortP, err := tr.motiveSort(e, info, n.Motive)
	if err != nil {
		return nil, err
	}
	sT, err := tr.u.Sort(sortP)
	if err != nil {
		return nil, err
	}

	out := make([]rewrite.Term, 0, len(univArgs)+len(ia.Params)+len(n.Branches)+len(ia.Reals)+3)
	out = append(out, univArgs...)
	out = append(out, sT)
	for _, p := range ia.Params {
		pT, err := tr.translate(e, p, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, pT)
	}
	motiveT, err := tr.translate(e, n.Motive, nil)
	if err != nil {
		return nil, err
	}
	out = append(out, motiveT)
	for _, b := range n.Branches {
		bT, err := tr.translate(e, b, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, bT)
	}
	for _, r := range ia.Reals {
		rT, err := tr.translate(e, r, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, rT)
	}
	discT, err := tr.translate(e, n.Discriminee, nil)
	if err != nil {
		return nil, err
	}
	out = append(out, discT)

	return rewrite.MkApp(&rewrite.Const{Name: info.MatchName}, out...), nil
}

// motiveSort peels the motive's type down to its result classifier: one
// product per real index, one for the discriminee, then a sort.
func (tr *Translator) motiveSort(e *env.Env, info *env.InductiveInfo, motive kernel.Term) (kernel.Univ, error) {
	mt, err := tr.oracle.InferType(e, motive)
	if err != nil {
		return nil, err
	}
	me := e
	for i := 0; i < info.IndexCount+1; i++ {
		prod, err := tr.oracle.ReduceToProduct(me, mt)
		if err != nil {
			return nil, fmt.Errorf("motive of %s: %w", info.Name, err)
		}
		me = me.Extended(env.Binding{Name: "_", Type: prod.Domain})
		mt = prod.Codomain
	}
	return tr.oracle.ReduceToSort(me, mt)
}

// templateInstance synthesizes the universe instance of a template-polymorphic
// inductive from the inferred sorts of the concrete parameters it is applied
// to. args must at least cover the parameters.
func (tr *Translator) templateInstance(e *env.Env, info *env.InductiveInfo, args []kernel.Term) ([]kernel.Univ, error) {
	if len(args) < info.ParamCount {
		return nil, &ArityError{Ref: info.Name, Got: len(args), Want: info.ParamCount}
	}
	slots := 0
	for _, s := range info.TemplateSlots {
		if s+1 > slots {
			slots = s + 1
		}
	}
	out := make([]kernel.Univ, slots)
	for i, slot := range info.TemplateSlots {
		if slot < 0 {
			continue
		}
		u, err := tr.oracle.InferSort(e, args[i])
		if err != nil {
			return nil, err
		}
		out[slot] = u
	}
	for i, u := range out {
		if u == nil {
			return nil, fmt.Errorf("template inductive %s: universe slot %d bound by no parameter", info.Name, i)
		}
	}
	return out, nil
}

// templateArgs renders a synthesized template instance as sort arguments.
func (tr *Translator) templateArgs(e *env.Env, info *env.InductiveInfo, args []kernel.Term) ([]rewrite.Term, error) {
	inst, err := tr.templateInstance(e, info, args)
	if err != nil {
		return nil, err
	}
	out := make([]rewrite.Term, len(inst))
	for i, u := range inst {
		if out[i], err = tr.u.Sort(u); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// instanceArgs encodes an explicit universe instance against the declared
// parameter list.
func (tr *Translator) instanceArgs(ref string, declParams []string, inst []kernel.Univ) ([]rewrite.Term, error) {
	if len(inst) != len(declParams) {
		if len(inst) != 0 {
			return nil, &ArityError{Ref: ref, Got: len(inst), Want: len(declParams)}
		}
		inst = paramInstance(len(declParams))
	}
	out := make([]rewrite.Term, len(inst))
	for i, u := range inst {
		s, err := tr.u.Sort(u)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
