package universe

import (
	"errors"
	"testing"

	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/printer"
)

func render(t *testing.T, tr *Translator, u kernel.Univ) string {
	t.Helper()
	out, err := tr.Sort(u)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	return printer.PrintTerm(out)
}

func TestConcreteResolvesGlobals(t *testing.T) {
	tr := New(Concrete, NewTable(map[string]int{"u": 2}))
	got := render(t, tr, &kernel.Global{Name: "u"})
	want := "cc.type (cc.S (cc.S cc.0))"
	if got != want {
		t.Errorf("concrete global = %q, want %q", got, want)
	}
}

func TestConcreteComputesJoins(t *testing.T) {
	tr := New(Concrete, NewTable(map[string]int{"u": 1, "v": 3}))
	got := render(t, tr, &kernel.Max{Of: []kernel.Univ{
		&kernel.Global{Name: "u"},
		&kernel.Global{Name: "v"},
	}})
	want := "cc.type (cc.S (cc.S (cc.S cc.0)))"
	if got != want {
		t.Errorf("concrete join = %q, want %q", got, want)
	}
}

func TestConcreteRuleIntoPropIsProp(t *testing.T) {
	tr := New(Concrete, NewTable(map[string]int{"u": 5}))
	got := render(t, tr, &kernel.Rule{
		Left:  &kernel.Global{Name: "u"},
		Right: &kernel.Prop{},
	})
	if got != "cc.prop" {
		t.Errorf("product into the bottom sort = %q, want cc.prop", got)
	}
}

func TestConcreteMissingNameFails(t *testing.T) {
	tr := New(Concrete, NewTable(nil))
	_, err := tr.Sort(&kernel.Global{Name: "ghost"})
	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("err = %v, want UnresolvedError", err)
	}
	if unresolved.Name != "ghost" {
		t.Errorf("unresolved name = %q, want ghost", unresolved.Name)
	}
}

func TestSuccOfBaseSortsIsNumeralInEveryMode(t *testing.T) {
	for _, mode := range []Mode{Concrete, Constraints, Named} {
		tr := New(mode, nil)
		if got := render(t, tr, &kernel.Succ{Of: &kernel.Prop{}, K: 1}); got != "cc.type (cc.S cc.0)" {
			t.Errorf("%s: succ of prop = %q, want cc.type (cc.S cc.0)", mode, got)
		}
		if got := render(t, tr, &kernel.Succ{Of: &kernel.Set{}, K: 2}); got != "cc.type (cc.S (cc.S cc.0))" {
			t.Errorf("%s: double succ of set = %q", mode, got)
		}
	}
}

func TestConstraintsKeepsGlobalsFree(t *testing.T) {
	tr := New(Constraints, nil)
	got := render(t, tr, &kernel.Succ{Of: &kernel.Global{Name: "u"}, K: 1})
	if got != "cc.succ u" {
		t.Errorf("constraints succ = %q, want cc.succ u", got)
	}
}

func TestConstraintsRejectsRule(t *testing.T) {
	tr := New(Constraints, nil)
	_, err := tr.Sort(&kernel.Rule{
		Left:  &kernel.Global{Name: "u"},
		Right: &kernel.Global{Name: "v"},
	})
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedError", err)
	}
	if unsupported.Mode != Constraints {
		t.Errorf("reported mode = %s, want constraints", unsupported.Mode)
	}
}

func TestNamedKeepsJoinsSymbolic(t *testing.T) {
	tr := New(Named, nil)
	got := render(t, tr, &kernel.Max{Of: []kernel.Univ{
		&kernel.Global{Name: "u"},
		&kernel.Global{Name: "v"},
	}})
	if got != "cc.max u v" {
		t.Errorf("named join = %q, want cc.max u v", got)
	}
}

func TestParamsResolveToBoundNames(t *testing.T) {
	tr := New(Constraints, nil).WithParams([]string{"s0", "s1"})
	if got := render(t, tr, &kernel.Param{Index: 1}); got != "s1" {
		t.Errorf("bound parameter = %q, want s1", got)
	}
	if _, err := tr.Sort(&kernel.Param{Index: 2}); err == nil {
		t.Error("out-of-range parameter must fail")
	}
}

func TestCodeWrapsSort(t *testing.T) {
	tr := New(Concrete, nil)
	out, err := tr.Code(&kernel.Set{})
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if got := printer.PrintTerm(out); got != "cc.univ cc.set" {
		t.Errorf("code of set = %q, want cc.univ cc.set", got)
	}
}

func TestTranslationIsDeterministic(t *testing.T) {
	tr := New(Concrete, NewTable(map[string]int{"u": 2, "v": 1}))
	u := &kernel.Max{Of: []kernel.Univ{
		&kernel.Succ{Of: &kernel.Global{Name: "v"}, K: 1},
		&kernel.Global{Name: "u"},
	}}
	first := render(t, tr, u)
	for i := 0; i < 3; i++ {
		if got := render(t, tr, u); got != first {
			t.Fatalf("run %d produced %q, first run produced %q", i, got, first)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"concrete", Concrete, true},
		{"", Concrete, true},
		{"constraints", Constraints, true},
		{"named", Named, true},
		{"symbolic", Concrete, false},
	}
	for _, c := range cases {
		got, err := ParseMode(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseMode(%q) succeeded, want error", c.in)
		}
	}
}

func TestEmitConstraintsRendersEdges(t *testing.T) {
	stmts := EmitConstraints([]Constraint{
		{Left: "u", Rel: Le, Right: "v"},
		{Left: "u", Rel: Lt, Right: "w"},
		{Left: "v", Rel: Eq, Right: "w"},
	})
	got := printer.Print(stmts)
	want := "(; universe level symbols ;)\n" +
		"u : cc.Sort.\n" +
		"v : cc.Sort.\n" +
		"w : cc.Sort.\n" +
		"[] cc.max u v --> v.\n" +
		"[] cc.max (cc.succ u) w --> w.\n" +
		"[] v --> w.\n"
	if got != want {
		t.Errorf("rendered constraints:\n%s\nwant:\n%s", got, want)
	}
}

func TestDeclareNamedEmitsOnlyDeclarations(t *testing.T) {
	stmts := DeclareNamed([]Constraint{
		{Left: "b", Rel: Lt, Right: "a"},
	})
	got := printer.Print(stmts)
	want := "(; universe symbols ;)\n" +
		"a : cc.Sort.\n" +
		"b : cc.Sort.\n"
	if got != want {
		t.Errorf("rendered declarations:\n%s\nwant:\n%s", got, want)
	}
}
