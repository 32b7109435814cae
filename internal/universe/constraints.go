package universe

import (
	"sort"

	"github.com/modulus-lang/modulus/internal/rewrite"
)

// DeclareNamed renders the declarations Named mode needs: every universe
// name mentioned by the graph becomes a distinct uninterpreted sort symbol.
// The edges themselves are not emitted; max and rule stay symbolic.
func DeclareNamed(constraints []Constraint) []rewrite.Statement {
	seen := make(map[string]bool)
	var names []string
	for _, c := range constraints {
		for _, n := range []string{c.Left, c.Right} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)

	var out []rewrite.Statement
	if len(names) > 0 {
		out = append(out, &rewrite.Comment{Text: "universe symbols"})
	}
	for _, n := range names {
		out = append(out, &rewrite.Declaration{Name: n, Type: rewrite.SortTy()})
	}
	return out
}

// EmitConstraints renders the solved graph for Constraints mode: every
// named universe becomes an opaque sort declaration and every edge becomes
// a rewrite rule over the abstract join, so the target checker can discharge
// cumulativity obligations by rewriting.
func EmitConstraints(constraints []Constraint) []rewrite.Statement {
	seen := make(map[string]bool)
	var names []string
	for _, c := range constraints {
		for _, n := range []string{c.Left, c.Right} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)

	var out []rewrite.Statement
	if len(names) > 0 {
		out = append(out, &rewrite.Comment{Text: "universe level symbols"})
	}
	for _, n := range names {
		out = append(out, &rewrite.Declaration{Name: n, Type: rewrite.SortTy()})
	}
	for _, c := range constraints {
		left := &rewrite.Const{Name: c.Left}
		right := &rewrite.Const{Name: c.Right}
		switch c.Rel {
		case Eq:
			out = append(out, &rewrite.Rule{LHS: left, RHS: right})
		case Le:
			out = append(out, &rewrite.Rule{LHS: rewrite.SortMax(left, right), RHS: right})
		case Lt:
			out = append(out, &rewrite.Rule{
				LHS: rewrite.SortMax(rewrite.SortSucc(left), right),
				RHS: right,
			})
		}
	}
	return out
}
