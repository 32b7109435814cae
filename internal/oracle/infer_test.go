package oracle

import (
	"testing"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
)

// natGlobals registers a bare naturals type: O and S with no parameters.
func natGlobals(t *testing.T) *env.Globals {
	t.Helper()
	g := env.NewGlobals()
	nat := &kernel.Ind{Name: "nat"}
	err := g.AddInductive(&env.InductiveInfo{
		Name:  "nat",
		Arity: &kernel.Sort{Univ: &kernel.Set{}},
		Ctors: []env.ConstructorInfo{
			{Name: "O", FieldCount: 0, Type: nat},
			{Name: "S", FieldCount: 1, Type: &kernel.Prod{Binder: "n", Domain: nat, Codomain: nat}},
		},
	})
	if err != nil {
		t.Fatalf("AddInductive: %v", err)
	}
	return g
}

func TestInferSortOfSort(t *testing.T) {
	en := NewEngine(env.NewGlobals())
	ty, err := en.InferType(env.Empty(), &kernel.Sort{Univ: &kernel.Set{}})
	if err != nil {
		t.Fatalf("InferType: %v", err)
	}
	s, ok := ty.(*kernel.Sort)
	if !ok {
		t.Fatalf("type of a sort = %T, want Sort", ty)
	}
	if !kernel.UnivEqual(s.Univ, &kernel.Succ{Of: &kernel.Set{}, K: 1}) {
		t.Errorf("sort of Set = %s, want its successor", kernel.UnivKey(s.Univ))
	}
}

func TestInferVarLiftsBindingType(t *testing.T) {
	en := NewEngine(env.NewGlobals())
	e := env.Empty().
		Extended(env.Binding{Name: "A", Type: &kernel.Sort{Univ: &kernel.Set{}}}).
		Extended(env.Binding{Name: "x", Type: &kernel.Var{Index: 0}})

	ty, err := en.InferType(e, &kernel.Var{Index: 0})
	if err != nil {
		t.Fatalf("InferType: %v", err)
	}
	// x's declared type Var(0) refers to A from under one binder less; seen
	// from the full context it must point at A again.
	if v, ok := ty.(*kernel.Var); !ok || v.Index != 1 {
		t.Errorf("type of innermost variable = %v, want Var(1)", ty)
	}
}

func TestInferApplicationInstantiates(t *testing.T) {
	en := NewEngine(natGlobals(t))
	nat := &kernel.Ind{Name: "nat"}
	// (\x : nat. x) O
	app := kernel.MkApp(
		&kernel.Lam{Binder: "x", Domain: nat, Body: &kernel.Var{Index: 0}},
		&kernel.Construct{Name: "O"},
	)
	ty, err := en.InferType(env.Empty(), app)
	if err != nil {
		t.Fatalf("InferType: %v", err)
	}
	if !kernel.Equal(ty, nat) {
		t.Errorf("type of the redex = %s, want nat", kernel.Key(ty))
	}
}

func TestInferProductSort(t *testing.T) {
	en := NewEngine(natGlobals(t))
	nat := &kernel.Ind{Name: "nat"}
	ty, err := en.InferType(env.Empty(), &kernel.Prod{Binder: "n", Domain: nat, Codomain: nat})
	if err != nil {
		t.Fatalf("InferType: %v", err)
	}
	s, ok := ty.(*kernel.Sort)
	if !ok {
		t.Fatalf("type of a product = %T, want Sort", ty)
	}
	want := kernel.NormalizeUniv(&kernel.Rule{Left: &kernel.Set{}, Right: &kernel.Set{}})
	if !kernel.UnivEqual(s.Univ, want) {
		t.Errorf("product sort = %s, want %s", kernel.UnivKey(s.Univ), kernel.UnivKey(want))
	}
}

func TestConvertibleReducesBeta(t *testing.T) {
	en := NewEngine(natGlobals(t))
	nat := &kernel.Ind{Name: "nat"}
	redex := kernel.MkApp(
		&kernel.Lam{Binder: "A", Domain: &kernel.Sort{Univ: &kernel.Set{}}, Body: &kernel.Var{Index: 0}},
		nat,
	)
	if !en.Convertible(env.Empty(), redex, nat) {
		t.Error("beta redex must be convertible to its contractum")
	}
	if en.Convertible(env.Empty(), nat, &kernel.Sort{Univ: &kernel.Set{}}) {
		t.Error("distinct normal forms must not be convertible")
	}
}

func TestConvertibleUnfoldsDefinitions(t *testing.T) {
	g := natGlobals(t)
	nat := &kernel.Ind{Name: "nat"}
	if err := g.AddConst(&env.ConstInfo{
		Name:  "natAlias",
		Type:  &kernel.Sort{Univ: &kernel.Set{}},
		Value: nat,
	}); err != nil {
		t.Fatalf("AddConst: %v", err)
	}
	en := NewEngine(g)
	if !en.Convertible(env.Empty(), &kernel.Const{Name: "natAlias"}, nat) {
		t.Error("defined constant must unfold to its value")
	}
}

func TestReduceToProductThroughLetAndCast(t *testing.T) {
	en := NewEngine(natGlobals(t))
	nat := &kernel.Ind{Name: "nat"}
	arrow := &kernel.Prod{Binder: "n", Domain: nat, Codomain: nat}
	wrapped := &kernel.Cast{
		Type: &kernel.Sort{Univ: &kernel.Set{}},
		Body: &kernel.Let{
			Binder: "T",
			Type:   &kernel.Sort{Univ: &kernel.Set{}},
			Value:  nat,
			Body:   &kernel.Prod{Binder: "n", Domain: &kernel.Var{Index: 0}, Codomain: kernel.Lift(nat, 1)},
		},
	}
	prod, err := en.ReduceToProduct(env.Empty(), wrapped)
	if err != nil {
		t.Fatalf("ReduceToProduct: %v", err)
	}
	if !kernel.Equal(prod.Domain, arrow.Domain) {
		t.Errorf("reduced domain = %s, want nat", kernel.Key(prod.Domain))
	}
	if _, err := en.ReduceToProduct(env.Empty(), nat); err == nil {
		t.Error("an inductive head must not reduce to a product")
	}
}

func TestReduceToSort(t *testing.T) {
	en := NewEngine(natGlobals(t))
	u, err := en.ReduceToSort(env.Empty(), &kernel.Sort{Univ: &kernel.Succ{Of: &kernel.Succ{Of: &kernel.Set{}, K: 1}, K: 1}})
	if err != nil {
		t.Fatalf("ReduceToSort: %v", err)
	}
	if !kernel.UnivEqual(u, &kernel.Succ{Of: &kernel.Set{}, K: 2}) {
		t.Errorf("reduced sort = %s, want set+2", kernel.UnivKey(u))
	}
	if _, err := en.ReduceToSort(env.Empty(), &kernel.Ind{Name: "nat"}); err == nil {
		t.Error("an inductive is not a sort")
	}
}

func TestReduceToInductiveSplitsArguments(t *testing.T) {
	g := env.NewGlobals()
	setSort := &kernel.Sort{Univ: &kernel.Set{}}
	// vec : Set -> nat -> Set, one parameter and one real index
	err := g.AddInductive(&env.InductiveInfo{
		Name:       "vec",
		ParamCount: 1,
		IndexCount: 1,
		Arity: &kernel.Prod{
			Binder: "A",
			Domain: setSort,
			Codomain: &kernel.Prod{
				Binder:   "n",
				Domain:   &kernel.Ind{Name: "nat"},
				Codomain: setSort,
			},
		},
	})
	if err != nil {
		t.Fatalf("AddInductive: %v", err)
	}
	en := NewEngine(g)

	app := kernel.MkApp(&kernel.Ind{Name: "vec"},
		&kernel.Ind{Name: "nat"},
		&kernel.Construct{Name: "O"},
	)
	ia, err := en.ReduceToInductive(env.Empty(), app)
	if err != nil {
		t.Fatalf("ReduceToInductive: %v", err)
	}
	if ia.Info.Name != "vec" {
		t.Errorf("inductive = %q, want vec", ia.Info.Name)
	}
	if len(ia.Params) != 1 || len(ia.Reals) != 1 {
		t.Fatalf("split = %d params / %d reals, want 1/1", len(ia.Params), len(ia.Reals))
	}
	if _, ok := ia.Reals[0].(*kernel.Construct); !ok {
		t.Errorf("real index = %T, want the constructor argument", ia.Reals[0])
	}

	under := kernel.MkApp(&kernel.Ind{Name: "vec"}, &kernel.Ind{Name: "nat"})
	if _, err := en.ReduceToInductive(env.Empty(), under); err == nil {
		t.Error("underapplied inductive must be rejected")
	}
}

func TestInferConstructInstantiatesUniverses(t *testing.T) {
	g := env.NewGlobals()
	// box (u) : Type u, with one polymorphic constructor
	sortU := &kernel.Sort{Univ: &kernel.Param{Index: 0}}
	err := g.AddInductive(&env.InductiveInfo{
		Name:       "box",
		UnivParams: []string{"u"},
		Arity:      &kernel.Sort{Univ: &kernel.Succ{Of: &kernel.Param{Index: 0}, K: 1}},
		Ctors: []env.ConstructorInfo{{
			Name:       "Box",
			FieldCount: 1,
			Type: &kernel.Prod{
				Binder:   "x",
				Domain:   sortU,
				Codomain: &kernel.Ind{Name: "box", Univs: []kernel.Univ{&kernel.Param{Index: 0}}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("AddInductive: %v", err)
	}
	en := NewEngine(g)

	inst := []kernel.Univ{&kernel.Global{Name: "v"}}
	ty, err := en.InferType(env.Empty(), &kernel.Construct{Name: "Box", Univs: inst})
	if err != nil {
		t.Fatalf("InferType: %v", err)
	}
	prod, ok := ty.(*kernel.Prod)
	if !ok {
		t.Fatalf("constructor type = %T, want Prod", ty)
	}
	dom, ok := prod.Domain.(*kernel.Sort)
	if !ok {
		t.Fatalf("constructor domain = %T, want Sort", prod.Domain)
	}
	if gu, ok := dom.Univ.(*kernel.Global); !ok || gu.Name != "v" {
		t.Errorf("instantiated universe = %s, want v", kernel.UnivKey(dom.Univ))
	}
}
