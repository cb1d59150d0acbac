// Package cli wires the zeta evaluator into a cobra command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riemann-research/zeta/internal/config"
	"github.com/riemann-research/zeta/internal/zeta"
)

// Version information (set at build time).
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "zeta [values...]",
		Short: "Evaluate the Riemann zeta function for real or complex arguments",
		Long: `Evaluate zeta(s) for each value given on the command line.

Values are real ("2", "-1.5") or complex in either notation ("0.5+14j",
"2-3i"). Non-positive integers are answered exactly from Bernoulli numbers;
everything else uses the Dirichlet eta series with analytic continuation.
With no values, a line is read from stdin; an empty line prints a demo set.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args, configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Configuration file path")

	flags := rootCmd.Flags()
	flags.Int("max-terms", zeta.DefaultMaxTerms, "Maximum series terms to sum")
	flags.Float64("tol", zeta.DefaultTolerance, "Early-stop tolerance for series term magnitude")
	flags.Int("workers", 0, "Parallel evaluations (0 = one per CPU)")
	flags.Int("precision", 15, "Significant digits printed")
	flags.String("output-dir", "", "Directory for saved results and stats")
	flags.Bool("save", false, "Append results to <prefix>_results.csv")
	flags.Bool("no-cache", false, "Disable the result cache")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newInitCmd(), newVersionCmd())

	return rootCmd
}

// Execute runs the command line against os.Args, cancelling on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(NormalizeArgs(rootCmd, os.Args[1:]))
	return rootCmd.ExecuteContext(ctx)
}
