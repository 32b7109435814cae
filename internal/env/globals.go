package env

import (
	"fmt"
	"strconv"

	"github.com/modulus-lang/modulus/internal/kernel"
)

// ConstInfo describes a named global: a source constant, an axiom, or a
// declaration produced by let-lifting or the fixpoint encoder.
type ConstInfo struct {
	Name       string
	TargetName string
	UnivParams []string
	Type       kernel.Term
	Value      kernel.Term // nil for opaque declarations
}

// ConstructorInfo describes one constructor of an inductive.
type ConstructorInfo struct {
	Name       string
	TargetName string
	FieldCount int
	Type       kernel.Term // in-context type, parameters included
}

// InductiveInfo is the metadata the translator needs about an inductive
// type: its arity split, its constructors, and (for template-polymorphic
// inductives) the per-parameter universe-slot mapping.
type InductiveInfo struct {
	Name       string
	TargetName string
	MatchName  string
	UnivParams []string
	ParamCount int
	IndexCount int
	Arity      kernel.Term
	Ctors      []ConstructorInfo
	Template   bool
	// TemplateSlots[i] is the universe-argument slot bound by parameter i,
	// or -1 when the parameter carries no universe.
	TemplateSlots []int
}

// Globals is the named global context of one translation run: constants,
// inductives and constructor ownership, plus the fresh-name allocator.
type Globals struct {
	consts  map[string]*ConstInfo
	inds    map[string]*InductiveInfo
	ctorInd map[string]string // constructor name -> owning inductive
	order   []string          // constant registration order, for reproducibility

	names *NameGen
}

// NewGlobals returns an empty global context with its own name allocator.
func NewGlobals() *Globals {
	return &Globals{
		consts:  make(map[string]*ConstInfo),
		inds:    make(map[string]*InductiveInfo),
		ctorInd: make(map[string]string),
		names:   NewNameGen(),
	}
}

// Names exposes the run's fresh-name allocator.
func (g *Globals) Names() *NameGen {
	return g.names
}

// AddConst registers a constant. Re-registration under the same name is an
// invariant violation.
func (g *Globals) AddConst(info *ConstInfo) error {
	if _, ok := g.consts[info.Name]; ok {
		return fmt.Errorf("global %q registered twice", info.Name)
	}
	if info.TargetName == "" {
		info.TargetName = info.Name
	}
	g.consts[info.Name] = info
	g.order = append(g.order, info.Name)
	return nil
}

// Const resolves a constant by source name.
func (g *Globals) Const(name string) (*ConstInfo, error) {
	info, ok := g.consts[name]
	if !ok {
		return nil, fmt.Errorf("unknown global %q", name)
	}
	return info, nil
}

// AddInductive registers an inductive and claims its constructor names.
func (g *Globals) AddInductive(info *InductiveInfo) error {
	if _, ok := g.inds[info.Name]; ok {
		return fmt.Errorf("inductive %q registered twice", info.Name)
	}
	if info.TargetName == "" {
		info.TargetName = info.Name
	}
	if info.MatchName == "" {
		info.MatchName = "match__" + info.Name
	}
	for i := range info.Ctors {
		if info.Ctors[i].TargetName == "" {
			info.Ctors[i].TargetName = info.Ctors[i].Name
		}
		g.ctorInd[info.Ctors[i].Name] = info.Name
	}
	g.inds[info.Name] = info
	return nil
}

// Inductive resolves an inductive by source name.
func (g *Globals) Inductive(name string) (*InductiveInfo, error) {
	info, ok := g.inds[name]
	if !ok {
		return nil, fmt.Errorf("unknown inductive %q", name)
	}
	return info, nil
}

// Constructor resolves a constructor name to its owning inductive and its
// position in declaration order.
func (g *Globals) Constructor(name string) (*InductiveInfo, int, error) {
	indName, ok := g.ctorInd[name]
	if !ok {
		return nil, 0, fmt.Errorf("unknown constructor %q", name)
	}
	info := g.inds[indName]
	for i, c := range info.Ctors {
		if c.Name == name {
			return info, i, nil
		}
	}
	return nil, 0, fmt.Errorf("constructor %q missing from inductive %q", name, indName)
}

// NameGen allocates globally unique identifiers from human-readable hints.
// Allocation is deterministic in call order, which the whole translation
// relies on: re-running a translation must reproduce identical output.
type NameGen struct {
	used map[string]bool
	next map[string]int
}

// NewNameGen returns an allocator with no names claimed.
func NewNameGen() *NameGen {
	return &NameGen{used: make(map[string]bool), next: make(map[string]int)}
}

// Claim marks a name as taken without generating anything.
func (n *NameGen) Claim(name string) {
	n.used[name] = true
}

// Fresh returns the hint itself when still free, otherwise the hint with the
// lowest unused numeric suffix.
func (n *NameGen) Fresh(hint string) string {
	if hint == "" || hint == "_" {
		hint = "x"
	}
	if !n.used[hint] {
		n.used[hint] = true
		return hint
	}
	for {
		n.next[hint]++
		candidate := hint + "_" + strconv.Itoa(n.next[hint])
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}
