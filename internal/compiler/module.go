package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/kernel"
	"github.com/modulus-lang/modulus/internal/universe"
)

// Module is the decoded interchange form of one compiled source library:
// its universe constraint graph and its declarations in dependency order.
type Module struct {
	Name        string
	Constraints []universe.Constraint
	Decls       []Decl
}

// DeclKind discriminates top-level declarations.
type DeclKind string

const (
	DefinitionDecl DeclKind = "definition"
	AxiomDecl      DeclKind = "axiom"
	InductiveDecl  DeclKind = "inductive"
)

// Decl is one top-level declaration of a module.
type Decl struct {
	Kind       DeclKind
	Name       string
	UnivParams []string
	Type       kernel.Term // definition, axiom
	Body       kernel.Term // definition
	Inductive  *env.InductiveInfo
}

// LoadModule reads and decodes one interchange file.
func LoadModule(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	mod, err := DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("load module %s: %w", path, err)
	}
	return mod, nil
}

// LoadModules decodes several interchange files concurrently, preserving the
// argument order in the result. At most jobs files are decoded at once; zero
// means unbounded.
func LoadModules(ctx context.Context, paths []string, jobs int) ([]*Module, error) {
	mods := make([]*Module, len(paths))
	g, _ := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			mod, err := LoadModule(path)
			if err != nil {
				return err
			}
			mods[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mods, nil
}

// DecodeModule parses an interchange document and sanity-checks it: every
// top-level term must be closed and every declaration shape complete.
func DecodeModule(data []byte) (*Module, error) {
	var raw moduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	mod := &Module{Name: raw.Name}
	for _, c := range raw.Constraints {
		rel := universe.Relation(c.Rel)
		switch rel {
		case universe.Lt, universe.Le, universe.Eq:
		default:
			return nil, fmt.Errorf("constraint %s %s %s: unknown relation", c.Left, c.Rel, c.Right)
		}
		mod.Constraints = append(mod.Constraints, universe.Constraint{
			Left: c.Left, Rel: rel, Right: c.Right,
		})
	}
	for i, d := range raw.Decls {
		decl, err := decodeDecl(d)
		if err != nil {
			return nil, fmt.Errorf("declaration %d (%s): %w", i, d.Name, err)
		}
		mod.Decls = append(mod.Decls, decl)
	}
	return mod, nil
}

type moduleJSON struct {
	Name        string           `json:"name"`
	Constraints []constraintJSON `json:"constraints,omitempty"`
	Decls       []declJSON       `json:"decls"`
}

type constraintJSON struct {
	Left  string `json:"left"`
	Rel   string `json:"rel"`
	Right string `json:"right"`
}

type declJSON struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	UnivParams []string        `json:"univ_params,omitempty"`
	Type       json.RawMessage `json:"type,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Inductive  *inductiveJSON  `json:"inductive,omitempty"`
}

type inductiveJSON struct {
	ParamCount    int             `json:"param_count"`
	IndexCount    int             `json:"index_count"`
	Arity         json.RawMessage `json:"arity"`
	Template      bool            `json:"template,omitempty"`
	TemplateSlots []int           `json:"template_slots,omitempty"`
	Ctors         []ctorJSON      `json:"ctors"`
}

type ctorJSON struct {
	Name   string          `json:"name"`
	Fields int             `json:"fields"`
	Type   json.RawMessage `json:"type"`
}

func decodeDecl(d declJSON) (Decl, error) {
	if d.Name == "" {
		return Decl{}, fmt.Errorf("missing name")
	}
	decl := Decl{Kind: DeclKind(d.Kind), Name: d.Name, UnivParams: d.UnivParams}
	switch decl.Kind {
	case DefinitionDecl:
		ty, err := decodeClosedTerm(d.Type, "type")
		if err != nil {
			return Decl{}, err
		}
		body, err := decodeClosedTerm(d.Body, "body")
		if err != nil {
			return Decl{}, err
		}
		decl.Type, decl.Body = ty, body
	case AxiomDecl:
		ty, err := decodeClosedTerm(d.Type, "type")
		if err != nil {
			return Decl{}, err
		}
		decl.Type = ty
	case InductiveDecl:
		if d.Inductive == nil {
			return Decl{}, fmt.Errorf("missing inductive block")
		}
		info, err := decodeInductive(d.Name, d.UnivParams, d.Inductive)
		if err != nil {
			return Decl{}, err
		}
		decl.Inductive = info
	default:
		return Decl{}, fmt.Errorf("unknown declaration kind %q", d.Kind)
	}
	return decl, nil
}

func decodeInductive(name string, univParams []string, raw *inductiveJSON) (*env.InductiveInfo, error) {
	arity, err := decodeClosedTerm(raw.Arity, "arity")
	if err != nil {
		return nil, err
	}
	if raw.ParamCount < 0 || raw.IndexCount < 0 {
		return nil, fmt.Errorf("negative arity split")
	}
	if raw.Template && len(raw.TemplateSlots) != raw.ParamCount {
		return nil, fmt.Errorf("template slots cover %d parameters, arity declares %d",
			len(raw.TemplateSlots), raw.ParamCount)
	}
	info := &env.InductiveInfo{
		Name:          name,
		UnivParams:    univParams,
		ParamCount:    raw.ParamCount,
		IndexCount:    raw.IndexCount,
		Arity:         arity,
		Template:      raw.Template,
		TemplateSlots: raw.TemplateSlots,
	}
	for _, c := range raw.Ctors {
		ty, err := decodeClosedTerm(c.Type, "constructor "+c.Name)
		if err != nil {
			return nil, err
		}
		if c.Fields < 0 {
			return nil, fmt.Errorf("constructor %s: negative field count", c.Name)
		}
		info.Ctors = append(info.Ctors, env.ConstructorInfo{
			Name:       c.Name,
			FieldCount: c.Fields,
			Type:       ty,
		})
	}
	return info, nil
}

func decodeClosedTerm(data json.RawMessage, what string) (kernel.Term, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing %s", what)
	}
	t, err := decodeTerm(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if errs := kernel.ValidateScope(t, 0); len(errs) > 0 {
		return nil, fmt.Errorf("%s is not closed: %s", what, strings.Join(errs, "; "))
	}
	return t, nil
}

type termJSON struct {
	Node        string            `json:"node"`
	Index       int               `json:"index"`
	Name        string            `json:"name"`
	Binder      string            `json:"binder"`
	Univ        json.RawMessage   `json:"univ,omitempty"`
	Univs       []json.RawMessage `json:"univs,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
	Type        json.RawMessage   `json:"type,omitempty"`
	Domain      json.RawMessage   `json:"domain,omitempty"`
	Codomain    json.RawMessage   `json:"codomain,omitempty"`
	Value       json.RawMessage   `json:"value,omitempty"`
	Fn          json.RawMessage   `json:"fn,omitempty"`
	Args        []json.RawMessage `json:"args,omitempty"`
	Ind         string            `json:"ind"`
	Motive      json.RawMessage   `json:"motive,omitempty"`
	Discriminee json.RawMessage   `json:"discriminee,omitempty"`
	Branches    []json.RawMessage `json:"branches,omitempty"`
	RecIndices  []int             `json:"rec_indices,omitempty"`
	Focus       int               `json:"focus"`
	Names       []string          `json:"names,omitempty"`
	Types       []json.RawMessage `json:"types,omitempty"`
	Bodies      []json.RawMessage `json:"bodies,omitempty"`
	Field       string            `json:"field"`
	Arg         json.RawMessage   `json:"arg,omitempty"`
}

func decodeTerm(data json.RawMessage) (kernel.Term, error) {
	var raw termJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Node {
	case "var":
		return &kernel.Var{Index: raw.Index}, nil
	case "named":
		return &kernel.NamedVar{Name: raw.Name}, nil
	case "sort":
		u, err := decodeUniv(raw.Univ)
		if err != nil {
			return nil, err
		}
		return &kernel.Sort{Univ: u}, nil
	case "cast":
		body, err := decodeTerm(raw.Body)
		if err != nil {
			return nil, err
		}
		ty, err := decodeTerm(raw.Type)
		if err != nil {
			return nil, err
		}
		return &kernel.Cast{Body: body, Type: ty}, nil
	case "prod":
		dom, err := decodeTerm(raw.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := decodeTerm(raw.Codomain)
		if err != nil {
			return nil, err
		}
		return &kernel.Prod{Binder: raw.Binder, Domain: dom, Codomain: cod}, nil
	case "lam":
		dom, err := decodeTerm(raw.Domain)
		if err != nil {
			return nil, err
		}
		body, err := decodeTerm(raw.Body)
		if err != nil {
			return nil, err
		}
		return &kernel.Lam{Binder: raw.Binder, Domain: dom, Body: body}, nil
	case "let":
		value, err := decodeTerm(raw.Value)
		if err != nil {
			return nil, err
		}
		ty, err := decodeTerm(raw.Type)
		if err != nil {
			return nil, err
		}
		body, err := decodeTerm(raw.Body)
		if err != nil {
			return nil, err
		}
		return &kernel.Let{Binder: raw.Binder, Value: value, Type: ty, Body: body}, nil
	case "app":
		fn, err := decodeTerm(raw.Fn)
		if err != nil {
			return nil, err
		}
		if len(raw.Args) == 0 {
			return nil, fmt.Errorf("application with no arguments")
		}
		args, err := decodeTerms(raw.Args)
		if err != nil {
			return nil, err
		}
		return kernel.MkApp(fn, args...), nil
	case "const", "ind", "construct":
		univs, err := decodeUnivs(raw.Univs)
		if err != nil {
			return nil, err
		}
		switch raw.Node {
		case "const":
			return &kernel.Const{Name: raw.Name, Univs: univs}, nil
		case "ind":
			return &kernel.Ind{Name: raw.Name, Univs: univs}, nil
		default:
			return &kernel.Construct{Name: raw.Name, Univs: univs}, nil
		}
	case "case":
		motive, err := decodeTerm(raw.Motive)
		if err != nil {
			return nil, err
		}
		disc, err := decodeTerm(raw.Discriminee)
		if err != nil {
			return nil, err
		}
		branches, err := decodeTerms(raw.Branches)
		if err != nil {
			return nil, err
		}
		return &kernel.Case{Ind: raw.Ind, Motive: motive, Discriminee: disc, Branches: branches}, nil
	case "fix":
		types, err := decodeTerms(raw.Types)
		if err != nil {
			return nil, err
		}
		bodies, err := decodeTerms(raw.Bodies)
		if err != nil {
			return nil, err
		}
		if len(types) != len(raw.Names) || len(bodies) != len(raw.Names) || len(raw.RecIndices) != len(raw.Names) {
			return nil, fmt.Errorf("recursive group arity mismatch")
		}
		return &kernel.Fix{
			RecIndices: raw.RecIndices,
			Focus:      raw.Focus,
			Names:      raw.Names,
			Types:      types,
			Bodies:     bodies,
		}, nil
	case "cofix":
		types, err := decodeTerms(raw.Types)
		if err != nil {
			return nil, err
		}
		bodies, err := decodeTerms(raw.Bodies)
		if err != nil {
			return nil, err
		}
		return &kernel.CoFix{Focus: raw.Focus, Names: raw.Names, Types: types, Bodies: bodies}, nil
	case "proj":
		arg, err := decodeTerm(raw.Arg)
		if err != nil {
			return nil, err
		}
		return &kernel.Proj{Field: raw.Field, Arg: arg}, nil
	case "meta":
		return &kernel.Meta{Name: raw.Name}, nil
	default:
		return nil, fmt.Errorf("unknown term node %q", raw.Node)
	}
}

func decodeTerms(raw []json.RawMessage) ([]kernel.Term, error) {
	out := make([]kernel.Term, len(raw))
	for i, r := range raw {
		t, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

type univJSON struct {
	Node  string            `json:"node"`
	Name  string            `json:"name"`
	Index int               `json:"index"`
	K     int               `json:"k"`
	Of    json.RawMessage   `json:"of,omitempty"`
	Ofs   []json.RawMessage `json:"ofs,omitempty"`
	Left  json.RawMessage   `json:"left,omitempty"`
	Right json.RawMessage   `json:"right,omitempty"`
}

func decodeUniv(data json.RawMessage) (kernel.Univ, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing universe")
	}
	var raw univJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Node {
	case "prop":
		return &kernel.Prop{}, nil
	case "set":
		return &kernel.Set{}, nil
	case "global":
		return &kernel.Global{Name: raw.Name}, nil
	case "param":
		return &kernel.Param{Index: raw.Index}, nil
	case "succ":
		of, err := decodeUniv(raw.Of)
		if err != nil {
			return nil, err
		}
		return &kernel.Succ{Of: of, K: raw.K}, nil
	case "max":
		ofs := make([]kernel.Univ, len(raw.Ofs))
		for i, o := range raw.Ofs {
			u, err := decodeUniv(o)
			if err != nil {
				return nil, err
			}
			ofs[i] = u
		}
		return &kernel.Max{Of: ofs}, nil
	case "rule":
		left, err := decodeUniv(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeUniv(raw.Right)
		if err != nil {
			return nil, err
		}
		return &kernel.Rule{Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("unknown universe node %q", raw.Node)
	}
}

func decodeUnivs(raw []json.RawMessage) ([]kernel.Univ, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]kernel.Univ, len(raw))
	for i, r := range raw {
		u, err := decodeUniv(r)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}
