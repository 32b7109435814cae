// Command modc translates compiled source libraries into the rewriting
// target. Inputs are interchange files produced by the source kernel; output
// is a single ordered statement stream in concrete syntax.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/modulus-lang/modulus/internal/compiler"
	"github.com/modulus-lang/modulus/internal/config"
	"github.com/modulus-lang/modulus/internal/universe"
)

var (
	// Global flags
	configPath string
	modeFlag   string
	outputPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "modc",
	Short: "modc - type-preserving translator to the rewriting calculus",
	Long: `modc encodes dependently-typed libraries as rewriting-calculus programs.

Input modules are interchange files emitted by the source kernel; every
declaration becomes a target declaration, definition or rewrite-rule group
over the encoding signature. Universe handling is selected by mode:
concrete (solved ordinals), constraints (free symbols plus ordering rules)
or named (uninterpreted symbols).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if modeFlag != "" {
			cfg.Mode = modeFlag
		}
		if outputPath != "" {
			cfg.Output.Path = outputPath
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level))
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate <module.json>...",
	Short: "Translate interchange modules into the target calculus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cfg.UniverseMode()
		if err != nil {
			return err
		}
		mods, err := compiler.LoadModules(context.Background(), args, cfg.Loader.Jobs)
		if err != nil {
			return err
		}

		var out strings.Builder
		failed := false
		for _, mod := range mods {
			res, err := compiler.Compile(mod, compiler.Options{Mode: mode, Logger: logger})
			if err != nil {
				return err
			}
			if res.Diagnostics.HasErrors() {
				failed = true
				fmt.Fprintln(os.Stderr, res.Diagnostics.Format(mod.Name))
			}
			out.WriteString(res.Output)
		}

		if err := writeOutput(cfg.Output.Path, out.String()); err != nil {
			return err
		}
		if failed {
			return fmt.Errorf("translation finished with errors")
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <module.json>...",
	Short: "Translate modules and report diagnostics without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cfg.UniverseMode()
		if err != nil {
			return err
		}
		mods, err := compiler.LoadModules(context.Background(), args, cfg.Loader.Jobs)
		if err != nil {
			return err
		}

		failed := false
		for _, mod := range mods {
			diag, err := compiler.Check(mod, compiler.Options{Mode: mode, Logger: logger})
			if err != nil {
				return err
			}
			if diag.HasErrors() {
				failed = true
				fmt.Fprintln(os.Stderr, diag.Format(mod.Name))
			} else {
				fmt.Printf("%s: ok (%d declarations)\n", mod.Name, len(mod.Decls))
			}
		}
		if failed {
			return fmt.Errorf("check finished with errors")
		}
		return nil
	},
}

var solveLevelsCmd = &cobra.Command{
	Use:   "solve-levels <module.json>...",
	Short: "Solve universe constraint graphs and print the level tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mods, err := compiler.LoadModules(context.Background(), args, cfg.Loader.Jobs)
		if err != nil {
			return err
		}
		for _, mod := range mods {
			table, err := compiler.SolveLevels(mod)
			if err != nil {
				return err
			}
			names := table.Names()
			sort.Strings(names)
			fmt.Printf("%s:\n", mod.Name)
			for _, name := range names {
				lvl, _ := table.Lookup(name)
				fmt.Printf("  %s = %d\n", name, lvl)
			}
		}
		return nil
	},
}

func writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "modc.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "universe mode: "+
		strings.Join([]string{universe.Concrete.String(), universe.Constraints.String(), universe.Named.String()}, ", "))
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output path (- for stdout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(solveLevelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
