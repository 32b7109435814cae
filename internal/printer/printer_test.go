package printer

import (
	"strings"
	"testing"

	"github.com/modulus-lang/modulus/internal/rewrite"
)

func TestPrintStatements(t *testing.T) {
	stmts := []rewrite.Statement{
		&rewrite.Comment{Text: "a header"},
		&rewrite.Declaration{Name: "A", Type: rewrite.SortTy()},
		&rewrite.Definition{
			Name: "one",
			Type: &rewrite.Const{Name: "cc.Nat"},
			Body: rewrite.MkApp(&rewrite.Const{Name: "cc.S"}, &rewrite.Const{Name: "cc.0"}),
		},
		&rewrite.Rule{
			Vars: []string{"x", "y"},
			LHS:  rewrite.MkApp(&rewrite.Const{Name: "f"}, &rewrite.Var{Name: "x"}, &rewrite.Var{Name: "y"}),
			RHS:  &rewrite.Var{Name: "x"},
		},
	}
	got := Print(stmts)
	want := "(; a header ;)\n" +
		"A : cc.Sort.\n" +
		"def one : cc.Nat := cc.S cc.0.\n" +
		"[x, y] f x y --> x.\n"
	if got != want {
		t.Errorf("printed stream:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintParenthesizesNestedApplications(t *testing.T) {
	inner := rewrite.MkApp(&rewrite.Const{Name: "g"}, &rewrite.Var{Name: "x"})
	outer := rewrite.MkApp(&rewrite.Const{Name: "f"}, inner, &rewrite.Var{Name: "y"})
	if got := PrintTerm(outer); got != "f (g x) y" {
		t.Errorf("nested application = %q, want %q", got, "f (g x) y")
	}
}

func TestPrintBinders(t *testing.T) {
	lam := &rewrite.Lam{
		Binder: "x",
		Type:   &rewrite.Const{Name: "T"},
		Body:   &rewrite.Var{Name: "x"},
	}
	if got := PrintTerm(lam); got != "x : T => x" {
		t.Errorf("lambda = %q", got)
	}
	bare := &rewrite.Lam{Binder: "x", Body: &rewrite.Var{Name: "x"}}
	if got := PrintTerm(bare); got != "x => x" {
		t.Errorf("unannotated lambda = %q", got)
	}
	applied := rewrite.MkApp(&rewrite.Const{Name: "f"}, lam)
	if got := PrintTerm(applied); got != "f (x : T => x)" {
		t.Errorf("lambda in argument position = %q", got)
	}
}

func TestPrintAnnotationsExtendToTheArrow(t *testing.T) {
	annotated := &rewrite.Lam{
		Binder: "x",
		Type:   rewrite.MkApp(&rewrite.Const{Name: "cc.Term"}, &rewrite.Const{Name: "cc.set"}, &rewrite.Const{Name: "nat"}),
		Body:   &rewrite.Var{Name: "x"},
	}
	if got := PrintTerm(annotated); got != "x : cc.Term cc.set nat => x" {
		t.Errorf("applied annotation = %q, want it unparenthesized", got)
	}
	dep := &rewrite.Pi{
		Binder:   "x",
		Domain:   rewrite.MkApp(&rewrite.Const{Name: "f"}, &rewrite.Var{Name: "y"}),
		Codomain: &rewrite.Var{Name: "x"},
	}
	if got := PrintTerm(dep); got != "x : f y -> x" {
		t.Errorf("applied domain = %q, want it unparenthesized", got)
	}
	higher := rewrite.Arrow(
		rewrite.Arrow(&rewrite.Const{Name: "A"}, &rewrite.Const{Name: "B"}),
		&rewrite.Const{Name: "C"},
	)
	if got := PrintTerm(higher); got != "(A -> B) -> C" {
		t.Errorf("higher-order domain = %q, want the inner arrow parenthesized", got)
	}
}

func TestPrintProducts(t *testing.T) {
	dep := &rewrite.Pi{
		Binder:   "x",
		Domain:   &rewrite.Const{Name: "A"},
		Codomain: &rewrite.Var{Name: "x"},
	}
	if got := PrintTerm(dep); got != "x : A -> x" {
		t.Errorf("dependent product = %q", got)
	}
	arrow := rewrite.Arrow(&rewrite.Const{Name: "A"}, &rewrite.Const{Name: "B"})
	if got := PrintTerm(arrow); got != "A -> B" {
		t.Errorf("arrow = %q", got)
	}
	if got := PrintTerm(&rewrite.Kind{}); got != "Type" {
		t.Errorf("kind = %q", got)
	}
}

func TestSignaturePrintsDeterministically(t *testing.T) {
	first := Print(rewrite.Signature())
	second := Print(rewrite.Signature())
	if first != second {
		t.Fatal("signature output differs across runs")
	}
	for _, sym := range []string{"cc.Sort", "cc.Term", "cc.prod", "cc.cast", "cc.univ"} {
		if !strings.Contains(first, sym+" : ") {
			t.Errorf("signature misses declaration of %s", sym)
		}
	}
	if !strings.Contains(first, "-->") {
		t.Error("signature must contain decode rules")
	}
}
