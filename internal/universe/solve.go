package universe

import (
	"fmt"
	"sort"
	"strings"
)

// Solve linearizes a universe constraint graph into concrete levels: every
// named universe gets the smallest level >= 1 satisfying all edges. Equal
// universes collapse into one class first; the remaining graph must be
// acyclic (a cycle means the producing kernel emitted an inconsistent
// graph, which this solver does not attempt to repair).
func Solve(constraints []Constraint) (*Table, error) {
	classes := newClasses()
	for _, c := range constraints {
		classes.add(c.Left)
		classes.add(c.Right)
		if c.Rel == Eq {
			classes.union(c.Left, c.Right)
		}
	}

	// weight 0 for <=, weight 1 for <, between class representatives
	type edge struct {
		from   string
		weight int
	}
	incoming := make(map[string][]edge)
	for _, c := range constraints {
		if c.Rel == Eq {
			continue
		}
		from, to := classes.find(c.Left), classes.find(c.Right)
		w := 0
		if c.Rel == Lt {
			w = 1
		}
		if from == to {
			if w > 0 {
				return nil, fmt.Errorf("inconsistent universe graph: %s after merging equal universes", c)
			}
			continue
		}
		incoming[to] = append(incoming[to], edge{from: from, weight: w})
	}

	// Longest path from the bottom, depth-first with an explicit recursion
	// stack for cycle reporting.
	levels := make(map[string]int)
	visiting := make(map[string]bool)

	var visit func(rep string, stack []string) (int, error)
	visit = func(rep string, stack []string) (int, error) {
		if lvl, ok := levels[rep]; ok {
			return lvl, nil
		}
		if visiting[rep] {
			cycleStart := 0
			for i, p := range stack {
				if p == rep {
					cycleStart = i
					break
				}
			}
			return 0, fmt.Errorf("universe constraint cycle: %s",
				strings.Join(append(stack[cycleStart:], rep), " -> "))
		}
		visiting[rep] = true
		stack = append(stack, rep)

		lvl := 1
		for _, in := range incoming[rep] {
			from, err := visit(in.from, stack)
			if err != nil {
				return 0, err
			}
			if from+in.weight > lvl {
				lvl = from + in.weight
			}
		}

		visiting[rep] = false
		levels[rep] = lvl
		return lvl, nil
	}

	reps := classes.reps()
	sort.Strings(reps)
	for _, rep := range reps {
		if _, err := visit(rep, nil); err != nil {
			return nil, err
		}
	}

	solved := make(map[string]int)
	for _, name := range classes.members() {
		solved[name] = levels[classes.find(name)]
	}
	return &Table{levels: solved}, nil
}

// classes is a small union-find over universe names.
type classes struct {
	parent map[string]string
}

func newClasses() *classes {
	return &classes{parent: make(map[string]string)}
}

func (c *classes) add(name string) {
	if _, ok := c.parent[name]; !ok {
		c.parent[name] = name
	}
}

func (c *classes) find(name string) string {
	for c.parent[name] != name {
		c.parent[name] = c.parent[c.parent[name]]
		name = c.parent[name]
	}
	return name
}

func (c *classes) union(a, b string) {
	ra, rb := c.find(a), c.find(b)
	if ra != rb {
		// Deterministic representative: the lexicographically smaller name.
		if rb < ra {
			ra, rb = rb, ra
		}
		c.parent[rb] = ra
	}
}

func (c *classes) reps() []string {
	var out []string
	for name := range c.parent {
		if c.find(name) == name {
			out = append(out, name)
		}
	}
	return out
}

func (c *classes) members() []string {
	out := make([]string, 0, len(c.parent))
	for name := range c.parent {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
