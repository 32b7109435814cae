package translator

import (
	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/rewrite"
)

// translateLet hoists the bound value to a closed global definition,
// generalized over the local context, and re-specializes it at the binding
// site by applying the new global to the context variables. Occurrences of
// the binder unfold to that application, so the local binding itself leaves
// no trace in the output term.
func (tr *Translator) translateLet(e *env.Env, n *kernel.Let) (rewrite.Term, error) {
	name := tr.globals.Names().Fresh(n.Binder + "_let")
	liftedTy := e.CloseProd(n.Type)
	liftedVal := e.CloseLam(n.Value)

	closed := env.Empty()
	tyT, err := tr.asType(closed, liftedTy)
	if err != nil {
		return nil, err
	}
	valT, err := tr.translate(closed, liftedVal, liftedTy)
	if err != nil {
		return nil, err
	}
	tr.emit(&rewrite.Definition{
		Name: name,
		Type: tr.closeTypeOverParams(tyT),
		Body: tr.closeBodyOverParams(valT),
	})
	if err := tr.globals.AddConst(&env.ConstInfo{
		Name:       name,
		TargetName: name,
		UnivParams: tr.univParams,
		Type:       liftedTy,
		Value:      liftedVal,
	}); err != nil {
		return nil, err
	}

	head := &kernel.Const{Name: name, Univs: paramInstance(len(tr.univParams))}
	inner := e.Extended(env.Binding{
		Name:  name,
		Type:  n.Type,
		Value: e.ApplyContext(head),
	})
	return tr.translate(inner, n.Body, nil)
}
