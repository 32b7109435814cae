package kernel

import "testing"

func TestLiftShiftsFreeVariables(t *testing.T) {
	// x:A |- \y. x y  with x = Var(0) outside, Var(1) under the lambda
	term := &Lam{
		Binder: "y",
		Domain: &Var{Index: 0},
		Body:   MkApp(&Var{Index: 1}, &Var{Index: 0}),
	}
	lifted := Lift(term, 2).(*Lam)
	if got := lifted.Domain.(*Var).Index; got != 2 {
		t.Errorf("domain index = %d, want 2", got)
	}
	app := lifted.Body.(*App)
	if got := app.Fn.(*Var).Index; got != 3 {
		t.Errorf("free variable under binder = %d, want 3", got)
	}
	if got := app.Args[0].(*Var).Index; got != 0 {
		t.Errorf("bound variable = %d, want 0 (must not shift)", got)
	}
}

func TestLiftZeroIsIdentity(t *testing.T) {
	term := &Prod{Binder: "x", Domain: &Var{Index: 3}, Codomain: &Var{Index: 0}}
	if Lift(term, 0) != Term(term) {
		t.Error("Lift by 0 should return the term unchanged")
	}
}

func TestLiftAboveRespectsCutoff(t *testing.T) {
	term := MkApp(&Var{Index: 0}, &Var{Index: 1}, &Var{Index: 2})
	shifted := LiftAbove(term, 10, 2).(*App)
	want := []int{0, 1, 12}
	got := []int{
		shifted.Fn.(*Var).Index,
		shifted.Args[0].(*Var).Index,
		shifted.Args[1].(*Var).Index,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInstantiateBeta(t *testing.T) {
	// (\x. x applied-to free) [free := Var(4)]
	body := MkApp(&Var{Index: 0}, &Var{Index: 1})
	result := Instantiate(body, &Var{Index: 4}).(*App)
	if got := result.Fn.(*Var).Index; got != 4 {
		t.Errorf("substituted head = %d, want 4", got)
	}
	// the free Var(1) loses the removed binder
	if got := result.Args[0].(*Var).Index; got != 0 {
		t.Errorf("remaining free variable = %d, want 0", got)
	}
}

func TestSubstUnderBinder(t *testing.T) {
	// \y. Var(1) where Var(1) is the substitution target outside the lambda
	term := &Lam{Binder: "y", Domain: &Sort{Univ: &Set{}}, Body: &Var{Index: 1}}
	result := Instantiate(term, &Var{Index: 7}).(*Lam)
	if got := result.Body.(*Var).Index; got != 8 {
		t.Errorf("substituted term under binder = %d, want 8 (lifted across the lambda)", got)
	}
}

func TestSubstCrossesFixBinders(t *testing.T) {
	// Types live in the ambient context, bodies under one binder per group
	// member: Var(0) in the type and Var(1) in the body both name the
	// substitution target outside the group.
	fix := &Fix{
		RecIndices: []int{0},
		Focus:      0,
		Names:      []string{"f"},
		Types:      []Term{&Var{Index: 0}},
		Bodies:     []Term{MkApp(&Var{Index: 0}, &Var{Index: 1})},
	}
	result := Instantiate(fix, &NamedVar{Name: "g"}).(*Fix)
	if _, ok := result.Types[0].(*NamedVar); !ok {
		t.Errorf("fix type after substitution = %T, want NamedVar", result.Types[0])
	}
	body := result.Bodies[0].(*App)
	if got, ok := body.Fn.(*Var); !ok || got.Index != 0 {
		t.Errorf("group self-reference = %v, want Var(0) untouched", body.Fn)
	}
	if _, ok := body.Args[0].(*NamedVar); !ok {
		t.Errorf("free variable under the group binder = %T, want NamedVar", body.Args[0])
	}
}

func TestMkAppFlattens(t *testing.T) {
	inner := MkApp(&NamedVar{Name: "f"}, &Var{Index: 0})
	outer := MkApp(inner, &Var{Index: 1}).(*App)
	if len(outer.Args) != 2 {
		t.Fatalf("args = %d, want 2 (nested application must flatten)", len(outer.Args))
	}
	if MkApp(&Var{Index: 0}) != Term(&Var{Index: 0}) {
		// pointer identity is not required, but no App node may appear
		if _, ok := MkApp(&Var{Index: 0}).(*App); ok {
			t.Error("MkApp with no arguments must not produce an App node")
		}
	}
}

func TestValidateScopeCatchesEscapes(t *testing.T) {
	term := &Lam{
		Binder: "x",
		Domain: &Sort{Univ: &Set{}},
		Body:   &Var{Index: 1},
	}
	if errs := ValidateScope(term, 0); len(errs) == 0 {
		t.Error("expected a scope violation for Var(1) under one binder")
	}
	if errs := ValidateScope(term, 1); len(errs) != 0 {
		t.Errorf("term is well scoped at depth 1, got %v", errs)
	}
}

func TestValidateScopeFixGroup(t *testing.T) {
	fix := &Fix{
		RecIndices: []int{0, 0},
		Focus:      0,
		Names:      []string{"f", "g"},
		Types:      []Term{&Sort{Univ: &Set{}}, &Sort{Univ: &Set{}}},
		Bodies:     []Term{&Var{Index: 1}, &Var{Index: 0}},
	}
	if errs := ValidateScope(fix, 0); len(errs) != 0 {
		t.Errorf("mutual references inside the group are in scope, got %v", errs)
	}
	fix.Bodies[0] = &Var{Index: 2}
	if errs := ValidateScope(fix, 0); len(errs) == 0 {
		t.Error("expected a scope violation for an index past the group binders")
	}
}
