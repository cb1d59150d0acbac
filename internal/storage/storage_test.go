package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riemann-research/zeta/internal/batch"
	"github.com/riemann-research/zeta/internal/config"
	"github.com/riemann-research/zeta/internal/zeta"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func runBatch(t *testing.T, values ...complex128) ([]batch.Outcome, batch.Stats) {
	t.Helper()
	r := batch.NewRunner(zeta.Params{MaxTerms: 1000}, batch.Options{MaxWorkers: 2}, nil)
	outcomes, stats, err := r.Run(context.Background(), values)
	require.NoError(t, err)
	return outcomes, stats
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestManager_SaveOutcomes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	m, err := New(config.OutputConfig{OutputDirectory: dir, FilenamePrefix: "run", SaveResults: true}, quietLogger())
	require.NoError(t, err)

	outcomes, _ := runBatch(t, -1, 1, complex(2, 3))
	require.NoError(t, m.SaveOutcomes(outcomes))
	require.NoError(t, m.Close())

	rows := readCSV(t, filepath.Join(dir, "run_results.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, resultsHeader, rows[0])

	assert.Equal(t, []string{"-1", "0", "finite", "exact", "-0.08333333333333333", "0", "0"}, rows[1][:7])
	assert.Equal(t, "pole", rows[2][2])
	assert.Equal(t, "series", rows[3][3])
	assert.Equal(t, "1000", rows[3][6])
	assert.Equal(t, int64(3), m.Saved())
}

func TestManager_AppendsWithoutRepeatingHeader(t *testing.T) {
	cfg := config.OutputConfig{OutputDirectory: t.TempDir(), SaveResults: true}
	outcomes, _ := runBatch(t, 0)

	for i := 0; i < 2; i++ {
		m, err := New(cfg, quietLogger())
		require.NoError(t, err)
		require.NoError(t, m.SaveOutcomes(outcomes))
		require.NoError(t, m.Close())
	}

	rows := readCSV(t, filepath.Join(cfg.OutputDirectory, "zeta_results.csv"))
	assert.Len(t, rows, 3)
}

func TestManager_SaveStats(t *testing.T) {
	cfg := config.OutputConfig{OutputDirectory: t.TempDir(), SaveStats: true}
	m, err := New(cfg, quietLogger())
	require.NoError(t, err)

	_, stats := runBatch(t, 0, -1, 2)
	require.NoError(t, m.SaveStats(stats))
	require.NoError(t, m.Close())

	data, err := os.ReadFile(m.StatsPath())
	require.NoError(t, err)

	var got batch.Stats
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Points)
	assert.Equal(t, 2, got.Exact)
	assert.Equal(t, 1, got.Series)
}

func TestManager_SaveAfterClose(t *testing.T) {
	cfg := config.OutputConfig{OutputDirectory: t.TempDir(), SaveResults: true, SaveStats: true}
	m, err := New(cfg, quietLogger())
	require.NoError(t, err)

	outcomes, stats := runBatch(t, 0, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.SaveOutcomes(outcomes))
			assert.NoError(t, m.SaveStats(stats))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, m.Close())
	}()
	wg.Wait()

	require.NoError(t, m.SaveOutcomes(outcomes))
	rows := readCSV(t, m.ResultsPath())
	assert.Equal(t, int64(len(rows)-1), m.Saved(), "rows written match rows counted")
	assert.Zero(t, (len(rows)-1)%len(outcomes))
}

func TestManager_DisabledSinksAreNoOps(t *testing.T) {
	dir := t.TempDir()
	m, err := New(config.OutputConfig{OutputDirectory: dir}, quietLogger())
	require.NoError(t, err)

	outcomes, stats := runBatch(t, 2)
	require.NoError(t, m.SaveOutcomes(outcomes))
	require.NoError(t, m.SaveStats(stats))
	require.NoError(t, m.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
