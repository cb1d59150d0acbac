// Package batch evaluates many zeta arguments in parallel.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/riemann-research/zeta/internal/cache"
	"github.com/riemann-research/zeta/internal/zeta"
)

// Outcome pairs an input with its result.
type Outcome struct {
	Index  int
	S      complex128
	Result zeta.Result
	// Cached is set when the result came from the memo cache.
	Cached bool
	// Elapsed is the evaluation time; zero for cache hits.
	Elapsed time.Duration
}

// Options tune a Runner.
type Options struct {
	// MaxWorkers bounds concurrent evaluations; <= 0 means one.
	MaxWorkers int
	// Cache, if non-nil, memoizes results across Run calls.
	Cache *cache.ResultCache
}

// Runner fans a slice of arguments out over a bounded set of goroutines.
type Runner struct {
	params  zeta.Params
	workers int
	cache   *cache.ResultCache
	logger  logrus.FieldLogger
}

// NewRunner builds a runner evaluating with params.
func NewRunner(params zeta.Params, opts Options, logger logrus.FieldLogger) *Runner {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Runner{
		params:  params,
		workers: workers,
		cache:   opts.Cache,
		logger:  logger,
	}
}

// Workers reports the concurrency limit.
func (r *Runner) Workers() int { return r.workers }

// Run evaluates every value and returns outcomes in input order. It stops
// early, returning ctx.Err(), if ctx is cancelled; outcomes already computed
// are still counted in the returned stats.
func (r *Runner) Run(ctx context.Context, values []complex128) ([]Outcome, Stats, error) {
	start := time.Now()
	outcomes := make([]Outcome, len(values))
	done := make([]bool, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, s := range values {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.evaluate(i, s)
			done[i] = true
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	stats := collectStats(outcomes, done, time.Since(start))
	if r.cache != nil {
		stats.CacheHitRate = r.cache.HitRate()
	}

	if err != nil {
		r.logger.Warnf("batch interrupted after %d of %d values", stats.Points, len(values))
		return outcomes, stats, fmt.Errorf("batch interrupted: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"points":  stats.Points,
		"exact":   stats.Exact,
		"series":  stats.Series,
		"poles":   stats.Poles,
		"elapsed": stats.Elapsed,
	}).Debug("batch complete")

	return outcomes, stats, nil
}

func (r *Runner) evaluate(i int, s complex128) Outcome {
	key := cache.Key{S: s, Params: r.params}
	if r.cache != nil {
		if res, ok := r.cache.Get(key); ok {
			return Outcome{Index: i, S: s, Result: res, Cached: true}
		}
	}

	start := time.Now()
	res := zeta.Evaluate(s, r.params)
	elapsed := time.Since(start)

	if r.cache != nil {
		r.cache.Set(key, res)
	}

	r.logger.WithFields(logrus.Fields{
		"s":       s,
		"kind":    res.Kind(),
		"method":  res.Method(),
		"terms":   res.Terms(),
		"elapsed": elapsed,
	}).Debug("evaluated")

	if elapsed > 100*time.Millisecond {
		r.logger.Debugf("zeta(%v) took %v", s, elapsed)
	}

	return Outcome{Index: i, S: s, Result: res, Elapsed: elapsed}
}
