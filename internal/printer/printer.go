// Package printer renders target-calculus statements as concrete rewriting
// syntax. One statement per line group, aux declarations in stream order.
package printer

import (
	"fmt"
	"strings"

	"github.com/modulus-lang/modulus/internal/rewrite"
)

// Print renders a whole statement stream.
func Print(stmts []rewrite.Statement) string {
	p := &printer{}
	for _, s := range stmts {
		p.statement(s)
	}
	return p.sb.String()
}

// PrintTerm renders one term, chiefly for tests and error messages.
func PrintTerm(t rewrite.Term) string {
	p := &printer{}
	p.term(t, false)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) emit(s string) {
	p.sb.WriteString(s)
}

func (p *printer) emitf(format string, args ...any) {
	p.sb.WriteString(fmt.Sprintf(format, args...))
}

func (p *printer) statement(s rewrite.Statement) {
	switch n := s.(type) {
	case *rewrite.Comment:
		p.emitf("(; %s ;)\n", n.Text)
	case *rewrite.Declaration:
		p.emitf("%s : ", n.Name)
		p.term(n.Type, false)
		p.emit(".\n")
	case *rewrite.Definition:
		p.emitf("def %s : ", n.Name)
		p.term(n.Type, false)
		p.emit(" := ")
		p.term(n.Body, false)
		p.emit(".\n")
	case *rewrite.Rule:
		p.emitf("[%s] ", strings.Join(n.Vars, ", "))
		p.term(n.LHS, false)
		p.emit(" --> ")
		p.term(n.RHS, false)
		p.emit(".\n")
	}
}

// term renders t; atomOnly forces parentheses around anything that is not a
// single token.
func (p *printer) term(t rewrite.Term, atomOnly bool) {
	switch n := t.(type) {
	case *rewrite.Var:
		p.emit(n.Name)
	case *rewrite.Const:
		p.emit(n.Name)
	case *rewrite.Kind:
		p.emit("Type")
	case *rewrite.App:
		if atomOnly {
			p.emit("(")
		}
		p.term(n.Fn, true)
		for _, a := range n.Args {
			p.emit(" ")
			p.term(a, true)
		}
		if atomOnly {
			p.emit(")")
		}
	case *rewrite.Lam:
		if atomOnly {
			p.emit("(")
		}
		p.emit(n.Binder)
		if n.Type != nil {
			p.emit(" : ")
			p.annot(n.Type)
		}
		p.emit(" => ")
		p.term(n.Body, false)
		if atomOnly {
			p.emit(")")
		}
	case *rewrite.Pi:
		if atomOnly {
			p.emit("(")
		}
		if n.Binder == "" || n.Binder == "_" {
			p.annot(n.Domain)
		} else {
			p.emitf("%s : ", n.Binder)
			p.annot(n.Domain)
		}
		p.emit(" -> ")
		p.term(n.Codomain, false)
		if atomOnly {
			p.emit(")")
		}
	default:
		p.emitf("(; unknown term %T ;)", t)
	}
}

// annot renders a binder annotation or product domain. Applications bind
// tighter than => and ->, so they stay bare; nested binders and arrows need
// parentheses to keep the domain from swallowing the rest of the line.
func (p *printer) annot(t rewrite.Term) {
	switch t.(type) {
	case *rewrite.Lam, *rewrite.Pi:
		p.emit("(")
		p.term(t, false)
		p.emit(")")
	default:
		p.term(t, false)
	}
}
