// Package main provides the vibe-chromatin command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is replaced in PersistentPreRunE once flags are parsed.
var logger = zap.NewNop()

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		switch {
		case errors.Is(err, chromatin.ErrInvalidConfig):
			fmt.Fprintf(os.Stderr, "Hint: check the model flags or ~/.vibe-chromatin.yaml (vibe-chromatin config)\n")
			return ExitUsage
		case errors.Is(err, chromatin.ErrRetryBudgetExceeded):
			fmt.Fprintf(os.Stderr, "Hint: raise --retry-budget or relax the linker variance / cut density\n")
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vibe-chromatin",
		Short: "Stochastic chromatin model with restriction-enzyme cut sites",
		Long: `vibe-chromatin builds a model of DNA wrapped around nucleosomes, separated by
linker DNA, with randomly placed restriction-enzyme cut sites that never fall
inside DNA wrapped around an attached nucleosome.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log build diagnostics to stderr")
	addModelFlags(cmd)

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-chromatin version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// newLogger returns a development logger when verbose, otherwise a console
// logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}
