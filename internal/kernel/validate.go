package kernel

import "fmt"

// ValidateScope checks that every bound-variable reference in t stays within
// the bound-count of enclosing binders, assuming depth binders already
// enclose t. It returns a list of violation messages; an empty slice means
// the term is well scoped. Transformations that insert or remove binders run
// this as a round-trip re-scoping check.
func ValidateScope(t Term, depth int) []string {
	var errors []string
	walkScope(t, depth, "term", &errors)
	return errors
}

func walkScope(t Term, depth int, context string, errors *[]string) {
	switch n := t.(type) {
	case *Var:
		if n.Index < 0 || n.Index >= depth {
			*errors = append(*errors, fmt.Sprintf("%s: variable index %d out of range (depth %d)", context, n.Index, depth))
		}
	case *NamedVar, *Sort, *Const, *Ind, *Construct, *Meta:
	case *Cast:
		walkScope(n.Body, depth, context+" (cast body)", errors)
		walkScope(n.Type, depth, context+" (cast type)", errors)
	case *Prod:
		walkScope(n.Domain, depth, context+" (domain)", errors)
		walkScope(n.Codomain, depth+1, context+" (codomain)", errors)
	case *Lam:
		walkScope(n.Domain, depth, context+" (domain)", errors)
		walkScope(n.Body, depth+1, context+" (body)", errors)
	case *Let:
		walkScope(n.Value, depth, context+" (let value)", errors)
		walkScope(n.Type, depth, context+" (let type)", errors)
		walkScope(n.Body, depth+1, context+" (let body)", errors)
	case *App:
		walkScope(n.Fn, depth, context+" (head)", errors)
		for i, a := range n.Args {
			walkScope(a, depth, fmt.Sprintf("%s (arg %d)", context, i), errors)
		}
	case *Case:
		walkScope(n.Motive, depth, context+" (motive)", errors)
		walkScope(n.Discriminee, depth, context+" (discriminee)", errors)
		for i, b := range n.Branches {
			walkScope(b, depth, fmt.Sprintf("%s (branch %d)", context, i), errors)
		}
	case *Fix:
		if len(n.Types) != len(n.Names) || len(n.Bodies) != len(n.Names) {
			*errors = append(*errors, fmt.Sprintf("%s: fix group arity mismatch (%d names, %d types, %d bodies)",
				context, len(n.Names), len(n.Types), len(n.Bodies)))
			return
		}
		for i, ty := range n.Types {
			walkScope(ty, depth, fmt.Sprintf("%s (fix type %d)", context, i), errors)
		}
		for i, b := range n.Bodies {
			walkScope(b, depth+len(n.Names), fmt.Sprintf("%s (fix body %d)", context, i), errors)
		}
	case *CoFix:
		for i, ty := range n.Types {
			walkScope(ty, depth, fmt.Sprintf("%s (cofix type %d)", context, i), errors)
		}
		for i, b := range n.Bodies {
			walkScope(b, depth+len(n.Names), fmt.Sprintf("%s (cofix body %d)", context, i), errors)
		}
	case *Proj:
		walkScope(n.Arg, depth, context+" (projection)", errors)
	default:
		*errors = append(*errors, fmt.Sprintf("%s: unknown term node %T", context, t))
	}
}
