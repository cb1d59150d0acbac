package batch

import (
	"time"

	"github.com/riemann-research/zeta/internal/zeta"
)

// Stats summarizes one Run.
type Stats struct {
	Points       int           `json:"points"`
	Exact        int           `json:"exact"`
	Series       int           `json:"series"`
	Poles        int           `json:"poles"`
	Undefined    int           `json:"undefined"`
	CacheHits    int           `json:"cache_hits"`
	SeriesTerms  int64         `json:"series_terms"`
	CacheHitRate float64       `json:"cache_hit_rate"`
	Elapsed      time.Duration `json:"elapsed"`
	StartedAt    time.Time     `json:"started_at"`
}

func collectStats(outcomes []Outcome, done []bool, elapsed time.Duration) Stats {
	stats := Stats{
		Elapsed:   elapsed,
		StartedAt: time.Now().Add(-elapsed),
	}

	for i, o := range outcomes {
		if !done[i] {
			continue
		}
		stats.Points++
		if o.Cached {
			stats.CacheHits++
		}

		switch o.Result.Method() {
		case zeta.MethodExact:
			stats.Exact++
		case zeta.MethodSeries:
			stats.Series++
			stats.SeriesTerms += int64(o.Result.Terms())
		}

		switch o.Result.Kind() {
		case zeta.Pole:
			stats.Poles++
		case zeta.Undefined:
			stats.Undefined++
		}
	}

	return stats
}

// PointsPerSecond is the evaluation throughput of the run.
func (s Stats) PointsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Points) / s.Elapsed.Seconds()
}
