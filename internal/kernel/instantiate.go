package kernel

// InstUnivs substitutes the polymorphic universe parameters of a declaration
// body or type: every Param(i) occurring in a sort or instance position is
// replaced by inst[i]. Parameters beyond the instance are left untouched.
func InstUnivs(t Term, inst []Univ) Term {
	if len(inst) == 0 {
		return t
	}
	switch n := t.(type) {
	case *Var, *NamedVar, *Meta:
		return t
	case *Sort:
		return &Sort{Univ: instUniv(n.Univ, inst)}
	case *Cast:
		return &Cast{Body: InstUnivs(n.Body, inst), Type: InstUnivs(n.Type, inst)}
	case *Prod:
		return &Prod{Binder: n.Binder, Domain: InstUnivs(n.Domain, inst), Codomain: InstUnivs(n.Codomain, inst)}
	case *Lam:
		return &Lam{Binder: n.Binder, Domain: InstUnivs(n.Domain, inst), Body: InstUnivs(n.Body, inst)}
	case *Let:
		return &Let{Binder: n.Binder, Value: InstUnivs(n.Value, inst), Type: InstUnivs(n.Type, inst), Body: InstUnivs(n.Body, inst)}
	case *App:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = InstUnivs(a, inst)
		}
		return &App{Fn: InstUnivs(n.Fn, inst), Args: args}
	case *Const:
		return &Const{Name: n.Name, Univs: instUnivList(n.Univs, inst)}
	case *Ind:
		return &Ind{Name: n.Name, Univs: instUnivList(n.Univs, inst)}
	case *Construct:
		return &Construct{Name: n.Name, Univs: instUnivList(n.Univs, inst)}
	case *Case:
		branches := make([]Term, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = InstUnivs(b, inst)
		}
		return &Case{
			Ind:         n.Ind,
			Motive:      InstUnivs(n.Motive, inst),
			Discriminee: InstUnivs(n.Discriminee, inst),
			Branches:    branches,
		}
	case *Fix:
		return &Fix{
			RecIndices: n.RecIndices,
			Focus:      n.Focus,
			Names:      n.Names,
			Types:      instAll(n.Types, inst),
			Bodies:     instAll(n.Bodies, inst),
		}
	case *CoFix:
		return &CoFix{
			Focus:  n.Focus,
			Names:  n.Names,
			Types:  instAll(n.Types, inst),
			Bodies: instAll(n.Bodies, inst),
		}
	case *Proj:
		return &Proj{Field: n.Field, Arg: InstUnivs(n.Arg, inst)}
	default:
		return t
	}
}

func instAll(ts []Term, inst []Univ) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = InstUnivs(t, inst)
	}
	return out
}

func instUnivList(us []Univ, inst []Univ) []Univ {
	out := make([]Univ, len(us))
	for i, u := range us {
		out[i] = instUniv(u, inst)
	}
	return out
}

func instUniv(u Univ, inst []Univ) Univ {
	switch n := u.(type) {
	case *Param:
		if n.Index >= 0 && n.Index < len(inst) {
			return inst[n.Index]
		}
		return n
	case *Succ:
		return &Succ{Of: instUniv(n.Of, inst), K: n.K}
	case *Max:
		of := make([]Univ, len(n.Of))
		for i, o := range n.Of {
			of[i] = instUniv(o, inst)
		}
		return &Max{Of: of}
	case *Rule:
		return &Rule{Left: instUniv(n.Left, inst), Right: instUniv(n.Right, inst)}
	default:
		return u
	}
}
