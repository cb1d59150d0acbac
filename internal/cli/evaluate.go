package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/riemann-research/zeta/internal/batch"
	"github.com/riemann-research/zeta/internal/cache"
	"github.com/riemann-research/zeta/internal/config"
	"github.com/riemann-research/zeta/internal/logging"
	"github.com/riemann-research/zeta/internal/numparse"
	"github.com/riemann-research/zeta/internal/storage"
	"github.com/riemann-research/zeta/internal/zeta"
)

const promptText = "Enter s values separated by space (real or complex like 0.5+14j). " +
	"Leave empty for demo set: "

// demoValues is printed when no values are given.
var demoValues = []complex128{
	2,                // pi^2 / 6
	4,                // pi^4 / 90
	0,                // -1/2
	-1,               // -1/12
	0.5,              // -1.4603545...
	complex(2, 3),    // 0.7980083... - 0.1137443...i
	complex(0.5, 14), // near the first nontrivial zero
}

func runEvaluate(cmd *cobra.Command, args []string, configPath string) error {
	cfg, err := config.Load(viper.New(), configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(cfg.Output, cmd.ErrOrStderr())
	if from := cfg.LoadedFrom(); from != "" {
		logger.Debugf("Using config file: %s", from)
	}

	out := cmd.OutOrStdout()

	var values []complex128
	demo := false
	if len(args) > 0 {
		values, err = numparse.ParseAll(args)
		if err != nil {
			return err
		}
	} else {
		line, err := prompt(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if tokens := strings.Fields(line); len(tokens) > 0 {
			values, err = numparse.ParseAll(tokens)
			if err != nil {
				return err
			}
		} else {
			values = demoValues
			demo = true
			fmt.Fprintln(out, "Riemann zeta values (Dirichlet eta approximation):")
		}
	}

	opts := batch.Options{MaxWorkers: cfg.Performance.MaxWorkers}
	if cfg.Performance.UseCache {
		opts.Cache = cache.New(cfg.Performance.CacheSize)
	}
	runner := batch.NewRunner(cfg.Params(), opts, logger)

	outcomes, stats, err := runner.Run(cmd.Context(), values)
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		fmt.Fprintf(out, "zeta(%s) ~ %s\n", numparse.Format(o.S, -1), FormatResult(o.Result, cfg.Output.Precision))
	}

	if demo {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Reference checks:")
		fmt.Fprintf(out, "pi^2 / 6 ~ %s\n", numparse.Format(complex(math.Pi*math.Pi/6, 0), cfg.Output.Precision))
		fmt.Fprintf(out, "pi^4 / 90 ~ %s\n", numparse.Format(complex(math.Pow(math.Pi, 4)/90, 0), cfg.Output.Precision))
	}

	fields := logrus.Fields{
		"points":     stats.Points,
		"exact":      stats.Exact,
		"series":     stats.Series,
		"poles":      stats.Poles,
		"undefined":  stats.Undefined,
		"workers":    runner.Workers(),
		"points_sec": fmt.Sprintf("%.1f", stats.PointsPerSecond()),
	}
	if opts.Cache != nil {
		fields["cache_hits"] = opts.Cache.Hits()
		fields["cache_misses"] = opts.Cache.Misses()
		fields["cache_hit_rate"] = fmt.Sprintf("%.1f%%", stats.CacheHitRate*100)
	}
	logger.WithFields(fields).Debugf("Evaluated %d values in %v", stats.Points, stats.Elapsed)

	return persist(cfg, logger, outcomes, stats)
}

// prompt asks for values on in. A closed input counts as an empty line.
func prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, promptText)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read values: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func persist(cfg *config.Config, logger *logrus.Logger, outcomes []batch.Outcome, stats batch.Stats) error {
	if !cfg.Output.SaveResults && !cfg.Output.SaveStats {
		return nil
	}

	store, err := storage.New(cfg.Output, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.SaveOutcomes(outcomes); err != nil {
		store.Close()
		return err
	}
	if err := store.SaveStats(stats); err != nil {
		store.Close()
		return err
	}

	saved := store.Saved()
	if err := store.Close(); err != nil {
		return err
	}
	if cfg.Output.SaveResults {
		logger.Infof("Appended %d results to %s", saved, store.ResultsPath())
	}
	return nil
}

// FormatResult renders a result for display: the value for finite results,
// otherwise the sentinel name.
func FormatResult(r zeta.Result, digits int) string {
	if v, ok := r.Value(); ok {
		return numparse.Format(v, digits)
	}
	switch r.Kind() {
	case zeta.Pole:
		return "pole (unbounded)"
	default:
		return "undefined (series overflow)"
	}
}
