// Package compiler wires the translation pipeline together: interchange
// decoding, universe graph handling per mode, per-declaration translation
// with error isolation, and concrete-syntax output.
package compiler

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/modulus-lang/modulus/internal/diagnostic"
	"github.com/modulus-lang/modulus/internal/env"
	"github.com/modulus-lang/modulus/internal/oracle"
	"github.com/modulus-lang/modulus/internal/printer"
	"github.com/modulus-lang/modulus/internal/rewrite"
	"github.com/modulus-lang/modulus/internal/translator"
	"github.com/modulus-lang/modulus/internal/universe"
)

// Options configures one translation run.
type Options struct {
	Mode   universe.Mode
	Logger *zap.Logger
}

// Result holds the output of a translation run.
type Result struct {
	Statements  []rewrite.Statement
	Output      string
	Diagnostics *diagnostic.Diagnostics
	Table       *universe.Table
}

// Compile translates one module. A declaration that fails to translate is
// reported and skipped; the surviving declarations' output remains valid.
// Only whole-library failures (an inconsistent universe graph) return an
// error.
func Compile(mod *Module, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	diag := diagnostic.New()
	stmts := rewrite.Signature()

	var table *universe.Table
	switch opts.Mode {
	case universe.Concrete:
		if len(mod.Constraints) > 0 {
			var err error
			table, err = universe.Solve(mod.Constraints)
			if err != nil {
				return nil, fmt.Errorf("module %s: %w", mod.Name, err)
			}
		}
	case universe.Constraints:
		stmts = append(stmts, universe.EmitConstraints(mod.Constraints)...)
	case universe.Named:
		stmts = append(stmts, universe.DeclareNamed(mod.Constraints)...)
		if len(mod.Constraints) > 0 {
			diag.Warningf(mod.Name,
				"%d universe constraints rendered as uninterpreted symbols; their ordering is not enforced",
				len(mod.Constraints))
		}
	}

	globals := env.NewGlobals()
	tr := translator.New(
		universe.New(opts.Mode, table),
		oracle.NewEngine(globals),
		globals,
	)

	// Top-level names are claimed up front so that generated auxiliary
	// symbols can never shadow a later declaration.
	for _, d := range mod.Decls {
		globals.Names().Claim(d.Name)
		if d.Inductive != nil {
			globals.Names().Claim("match__" + d.Name)
			for i := range d.Inductive.Ctors {
				globals.Names().Claim(d.Inductive.Ctors[i].Name)
			}
		}
	}

	for _, d := range mod.Decls {
		var declStmts []rewrite.Statement
		var err error
		switch d.Kind {
		case DefinitionDecl:
			declStmts, err = tr.Definition(d.Name, d.UnivParams, d.Type, d.Body)
		case AxiomDecl:
			declStmts, err = tr.Axiom(d.Name, d.UnivParams, d.Type)
		case InductiveDecl:
			declStmts, err = tr.Inductive(d.Inductive)
		default:
			err = fmt.Errorf("unknown declaration kind %q", d.Kind)
		}
		if err != nil {
			var notSupported *translator.NotSupportedError
			if errors.As(err, &notSupported) {
				diag.ErrorWithHint(d.Name, err.Error(),
					notSupported.Construct+" is outside the translated fragment")
			} else {
				diag.Errorf(d.Name, "%s", err)
			}
			logger.Warn("declaration failed",
				zap.String("module", mod.Name),
				zap.String("decl", d.Name),
				zap.Error(err))
			continue
		}
		stmts = append(stmts, declStmts...)
		logger.Debug("declaration translated",
			zap.String("decl", d.Name),
			zap.Int("statements", len(declStmts)))
	}

	logger.Info("module translated",
		zap.String("module", mod.Name),
		zap.String("mode", opts.Mode.String()),
		zap.Int("statements", len(stmts)),
		zap.Int("errors", diag.ErrorCount()))

	return &Result{
		Statements:  stmts,
		Output:      printer.Print(stmts),
		Diagnostics: diag,
		Table:       table,
	}, nil
}

// Check translates a module and reports diagnostics without keeping the
// output.
func Check(mod *Module, opts Options) (*diagnostic.Diagnostics, error) {
	res, err := Compile(mod, opts)
	if err != nil {
		return nil, err
	}
	return res.Diagnostics, nil
}

// SolveLevels solves a module's universe constraint graph into concrete
// levels, independent of term translation.
func SolveLevels(mod *Module) (*universe.Table, error) {
	table, err := universe.Solve(mod.Constraints)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", mod.Name, err)
	}
	return table, nil
}
