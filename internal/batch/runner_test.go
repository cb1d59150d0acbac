package batch

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riemann-research/zeta/internal/cache"
	"github.com/riemann-research/zeta/internal/zeta"
)

var fastParams = zeta.Params{MaxTerms: 2000, Tolerance: 1e-12}

func TestRunner_PreservesOrder(t *testing.T) {
	values := []complex128{2, 0, -1, 1, complex(2, 3), -2, 4, -400.5}
	r := NewRunner(fastParams, Options{MaxWorkers: 4}, nil)

	outcomes, stats, err := r.Run(context.Background(), values)
	require.NoError(t, err)
	require.Len(t, outcomes, len(values))

	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, values[i], o.S)
		want := zeta.Evaluate(values[i], fastParams)
		assert.Equal(t, want.Kind(), o.Result.Kind(), "value %v", values[i])
		assert.Equal(t, want.Method(), o.Result.Method(), "value %v", values[i])
		wv, _ := want.Value()
		gv, _ := o.Result.Value()
		assert.Equal(t, wv, gv, "value %v", values[i])
	}

	assert.Equal(t, len(values), stats.Points)
	assert.Equal(t, 3, stats.Exact)
	assert.Equal(t, 5, stats.Series)
	assert.Equal(t, 1, stats.Poles)
	assert.Equal(t, 1, stats.Undefined)
	assert.Positive(t, stats.SeriesTerms)
}

func TestRunner_MatchesSequentialEvaluation(t *testing.T) {
	values := make([]complex128, 64)
	for i := range values {
		values[i] = complex(0.5+float64(i)/8, float64(i%7)-3)
	}

	parallel := NewRunner(fastParams, Options{MaxWorkers: 8}, nil)
	serial := NewRunner(fastParams, Options{MaxWorkers: 1}, nil)

	a, _, err := parallel.Run(context.Background(), values)
	require.NoError(t, err)
	b, _, err := serial.Run(context.Background(), values)
	require.NoError(t, err)

	for i := range values {
		va, _ := a[i].Result.Value()
		vb, _ := b[i].Result.Value()
		assert.Equal(t, math.Float64bits(real(va)), math.Float64bits(real(vb)))
		assert.Equal(t, math.Float64bits(imag(va)), math.Float64bits(imag(vb)))
	}
}

func TestRunner_UsesCache(t *testing.T) {
	c := cache.New(100)
	r := NewRunner(fastParams, Options{MaxWorkers: 1, Cache: c}, nil)

	_, stats, err := r.Run(context.Background(), []complex128{2, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CacheHits)

	outcomes, stats, err := r.Run(context.Background(), []complex128{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CacheHits)
	assert.True(t, outcomes[0].Cached)
	assert.Zero(t, outcomes[0].Elapsed)
	assert.Greater(t, stats.CacheHitRate, 0.5)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(fastParams, Options{MaxWorkers: 2}, nil)
	_, stats, err := r.Run(ctx, []complex128{2, 3, 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Points)
}

func TestRunner_Empty(t *testing.T) {
	r := NewRunner(fastParams, Options{}, nil)
	assert.Equal(t, 1, r.Workers())

	outcomes, stats, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Zero(t, stats.Points)
	assert.Zero(t, stats.PointsPerSecond())
}
