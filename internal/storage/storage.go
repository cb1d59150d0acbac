// Package storage persists batch outcomes as CSV and run statistics as JSON.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/riemann-research/zeta/internal/batch"
	"github.com/riemann-research/zeta/internal/config"
)

var resultsHeader = []string{
	"s_real", "s_imag", "kind", "method",
	"value_real", "value_imag", "terms", "last_term", "cached", "evaluated_at",
}

// Manager owns the output files for one run.
type Manager struct {
	config  config.OutputConfig
	baseDir string
	logger  logrus.FieldLogger
	mu      sync.Mutex

	resultsFile   *os.File
	resultsWriter *csv.Writer
	statsPath     string

	resultsSaved int64
}

// New opens the configured sinks under cfg.OutputDirectory, creating it if needed.
func New(cfg config.OutputConfig, logger logrus.FieldLogger) (*Manager, error) {
	baseDir := cfg.OutputDirectory
	if baseDir == "" {
		baseDir = "."
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	m := &Manager{
		config:  cfg,
		baseDir: baseDir,
		logger:  logger,
	}

	if err := m.initializeFiles(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) prefix() string {
	if m.config.FilenamePrefix == "" {
		return "zeta"
	}
	return m.config.FilenamePrefix
}

// ResultsPath is the CSV file outcomes are appended to.
func (m *Manager) ResultsPath() string {
	return filepath.Join(m.baseDir, m.prefix()+"_results.csv")
}

// StatsPath is the JSON file run statistics are written to.
func (m *Manager) StatsPath() string {
	return filepath.Join(m.baseDir, m.prefix()+"_stats.json")
}

func (m *Manager) initializeFiles() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.SaveResults {
		file, err := os.OpenFile(m.ResultsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open results file: %w", err)
		}

		m.resultsFile = file
		m.resultsWriter = csv.NewWriter(file)

		// Header only for a new file
		stat, err := file.Stat()
		if err != nil {
			return fmt.Errorf("failed to stat results file: %w", err)
		}
		if stat.Size() == 0 {
			if err := m.resultsWriter.Write(resultsHeader); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
			m.resultsWriter.Flush()
		}
	}

	if m.config.SaveStats {
		m.statsPath = m.StatsPath()
	}

	return nil
}

// SaveOutcomes appends one CSV row per outcome. It is a no-op unless
// save_results is enabled.
func (m *Manager) SaveOutcomes(outcomes []batch.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resultsWriter == nil {
		return nil
	}

	now := time.Now().Format(time.RFC3339Nano)
	for _, o := range outcomes {
		if err := m.resultsWriter.Write(record(o, now)); err != nil {
			return fmt.Errorf("failed to write result record: %w", err)
		}
		m.resultsSaved++
	}

	m.resultsWriter.Flush()
	if err := m.resultsWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush results file: %w", err)
	}

	m.logger.Debugf("Saved %d results to %s", len(outcomes), m.ResultsPath())
	return nil
}

func record(o batch.Outcome, at string) []string {
	v, _ := o.Result.Value()
	return []string{
		strconv.FormatFloat(real(o.S), 'g', -1, 64),
		strconv.FormatFloat(imag(o.S), 'g', -1, 64),
		o.Result.Kind().String(),
		string(o.Result.Method()),
		strconv.FormatFloat(real(v), 'g', -1, 64),
		strconv.FormatFloat(imag(v), 'g', -1, 64),
		strconv.Itoa(o.Result.Terms()),
		strconv.FormatFloat(o.Result.LastTermMagnitude(), 'e', 6, 64),
		strconv.FormatBool(o.Cached),
		at,
	}
}

// SaveStats overwrites the stats file with stats. It is a no-op unless
// save_stats is enabled.
func (m *Manager) SaveStats(stats batch.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.statsPath == "" {
		return nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}

	// Write beside the target then rename so readers never see a partial file.
	tmp := m.statsPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	if err := os.Rename(tmp, m.statsPath); err != nil {
		return fmt.Errorf("failed to replace statistics: %w", err)
	}

	return nil
}

// Saved reports how many outcome rows have been written.
func (m *Manager) Saved() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsSaved
}

// Close flushes and closes open files.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errors []string

	if m.resultsWriter != nil {
		m.resultsWriter.Flush()
		if err := m.resultsWriter.Error(); err != nil {
			errors = append(errors, fmt.Sprintf("results writer: %v", err))
		}
		m.resultsWriter = nil
	}

	if m.resultsFile != nil {
		if err := m.resultsFile.Close(); err != nil {
			errors = append(errors, fmt.Sprintf("results file: %v", err))
		}
		m.resultsFile = nil
	}

	if len(errors) > 0 {
		return fmt.Errorf("storage close errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
