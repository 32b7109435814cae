package rewrite

// Well-known symbols of the encoding signature. The prefix keeps them out of
// the way of translated user identifiers.
const (
	SymSort = "cc.Sort"
	SymNat  = "cc.Nat"
	SymZero = "cc.0"
	SymNext = "cc.S"
	SymProp = "cc.prop"
	SymSet  = "cc.set"
	SymType = "cc.type"
	SymSucc = "cc.succ"
	SymMax  = "cc.max"
	SymRule = "cc.rule"
	SymUniv = "cc.Univ"
	SymTerm = "cc.Term"
	SymCode = "cc.univ"
	SymProd = "cc.prod"
	SymCast = "cc.cast"
)

// SortTy is the target type of sort codes.
func SortTy() Term { return &Const{Name: SymSort} }

// Numeral builds a unary numeral in the encoding's naturals.
func Numeral(n int) Term {
	var t Term = &Const{Name: SymZero}
	for i := 0; i < n; i++ {
		t = MkApp(&Const{Name: SymNext}, t)
	}
	return t
}

// SortProp is the code of the impredicative bottom sort.
func SortProp() Term { return &Const{Name: SymProp} }

// SortSet is the code of the lowest predicative sort.
func SortSet() Term { return &Const{Name: SymSet} }

// SortLevel is the code of the concrete universe at a finite ordinal.
func SortLevel(n int) Term { return MkApp(&Const{Name: SymType}, Numeral(n)) }

// SortSucc applies the symbolic successor to a sort code.
func SortSucc(s Term) Term { return MkApp(&Const{Name: SymSucc}, s) }

// SortMax joins two sort codes symbolically.
func SortMax(a, b Term) Term { return MkApp(&Const{Name: SymMax}, a, b) }

// SortRule applies the product-formation operator to two sort codes.
func SortRule(a, b Term) Term { return MkApp(&Const{Name: SymRule}, a, b) }

// UnivTy is the target type of codes living in sort s.
func UnivTy(s Term) Term { return MkApp(&Const{Name: SymUniv}, s) }

// TermTy is the target type of terms whose code is a in sort s.
func TermTy(s, a Term) Term { return MkApp(&Const{Name: SymTerm}, s, a) }

// Code is the code of sort s itself, an inhabitant of Univ (succ s).
func Code(s Term) Term { return MkApp(&Const{Name: SymCode}, s) }

// Prod is the code of a dependent product: domain code a in s1, codomain
// code abstraction b into s2.
func Prod(s1, s2, a, b Term) Term {
	return MkApp(&Const{Name: SymProd}, s1, s2, a, b)
}

// Cast re-types a term from code a in s1 to code b in s2.
func Cast(s1, s2, a, b, t Term) Term {
	return MkApp(&Const{Name: SymCast}, s1, s2, a, b, t)
}

// Signature returns the declarations and rules of the encoding prelude, in
// emission order. Every translated module is checked against this prelude.
func Signature() []Statement {
	sort := SortTy()
	return []Statement{
		&Comment{Text: "encoding signature"},
		&Declaration{Name: SymNat, Type: &Kind{}},
		&Declaration{Name: SymZero, Type: &Const{Name: SymNat}},
		&Declaration{Name: SymNext, Type: Arrow(&Const{Name: SymNat}, &Const{Name: SymNat})},
		&Declaration{Name: SymSort, Type: &Kind{}},
		&Declaration{Name: SymProp, Type: sort},
		&Declaration{Name: SymSet, Type: sort},
		&Declaration{Name: SymType, Type: Arrow(&Const{Name: SymNat}, sort)},
		&Declaration{Name: SymSucc, Type: Arrow(sort, sort)},
		&Declaration{Name: SymMax, Type: Arrow(sort, Arrow(sort, sort))},
		&Declaration{Name: SymRule, Type: Arrow(sort, Arrow(sort, sort))},
		&Declaration{Name: SymUniv, Type: Arrow(sort, &Kind{})},
		&Declaration{Name: SymTerm, Type: &Pi{
			Binder:   "s",
			Domain:   sort,
			Codomain: Arrow(UnivTy(&Var{Name: "s"}), &Kind{}),
		}},
		&Declaration{Name: SymCode, Type: &Pi{
			Binder:   "s",
			Domain:   sort,
			Codomain: UnivTy(SortSucc(&Var{Name: "s"})),
		}},
		&Declaration{Name: SymProd, Type: &Pi{
			Binder: "s1",
			Domain: sort,
			Codomain: &Pi{
				Binder: "s2",
				Domain: sort,
				Codomain: &Pi{
					Binder: "a",
					Domain: UnivTy(&Var{Name: "s1"}),
					Codomain: Arrow(
						Arrow(TermTy(&Var{Name: "s1"}, &Var{Name: "a"}), UnivTy(&Var{Name: "s2"})),
						UnivTy(SortRule(&Var{Name: "s1"}, &Var{Name: "s2"})),
					),
				},
			},
		}},
		&Declaration{Name: SymCast, Type: &Pi{
			Binder: "s1",
			Domain: sort,
			Codomain: &Pi{
				Binder: "s2",
				Domain: sort,
				Codomain: &Pi{
					Binder: "a",
					Domain: UnivTy(&Var{Name: "s1"}),
					Codomain: &Pi{
						Binder: "b",
						Domain: UnivTy(&Var{Name: "s2"}),
						Codomain: Arrow(
							TermTy(&Var{Name: "s1"}, &Var{Name: "a"}),
							TermTy(&Var{Name: "s2"}, &Var{Name: "b"}),
						),
					},
				},
			},
		}},
		// A sort used as a term decodes to the universe it classifies. The
		// index position is a free variable: emitted types carry evaluated
		// indices (cc.set, cc.type n), not a syntactic cc.succ.
		&Rule{
			Vars: []string{"s0", "s"},
			LHS:  TermTy(&Var{Name: "s0"}, Code(&Var{Name: "s"})),
			RHS:  UnivTy(&Var{Name: "s"}),
		},
		// A product code decodes to a dependent function space; the index is
		// free for the same reason.
		&Rule{
			Vars: []string{"s0", "s1", "s2", "a", "b"},
			LHS: TermTy(
				&Var{Name: "s0"},
				Prod(&Var{Name: "s1"}, &Var{Name: "s2"}, &Var{Name: "a"}, &Var{Name: "b"}),
			),
			RHS: &Pi{
				Binder: "x",
				Domain: TermTy(&Var{Name: "s1"}, &Var{Name: "a"}),
				Codomain: TermTy(&Var{Name: "s2"},
					MkApp(&Var{Name: "b"}, &Var{Name: "x"})),
			},
		},
		// Successor computes on concrete levels.
		&Rule{
			Vars: []string{},
			LHS:  SortSucc(SortProp()),
			RHS:  SortLevel(1),
		},
		&Rule{
			Vars: []string{},
			LHS:  SortSucc(SortSet()),
			RHS:  SortLevel(1),
		},
		&Rule{
			Vars: []string{"n"},
			LHS:  SortSucc(MkApp(&Const{Name: SymType}, &Var{Name: "n"})),
			RHS:  MkApp(&Const{Name: SymType}, MkApp(&Const{Name: SymNext}, &Var{Name: "n"})),
		},
		// Impredicative product rule: anything into prop is prop.
		&Rule{
			Vars: []string{"s"},
			LHS:  SortRule(&Var{Name: "s"}, SortProp()),
			RHS:  SortProp(),
		},
	}
}
