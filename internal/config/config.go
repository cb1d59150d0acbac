// Package config loads evaluator settings from defaults, a YAML file,
// ZETA_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/riemann-research/zeta/internal/zeta"
)

// DefaultPath is the config file consulted when none is given.
const DefaultPath = "zeta.yaml"

// EnvPrefix is prepended to environment overrides, e.g. ZETA_CALCULATION_MAX_TERMS.
const EnvPrefix = "ZETA"

const maxWorkersCap = 32

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ==================== CONFIGURATION STRUCTURES ====================

type CalculationConfig struct {
	MaxTerms    int     `json:"max_terms" yaml:"max_terms" mapstructure:"max_terms"`
	Tolerance   float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"`
	RealEpsilon float64 `json:"real_epsilon" yaml:"real_epsilon" mapstructure:"real_epsilon"`
	PoleEpsilon float64 `json:"pole_epsilon" yaml:"pole_epsilon" mapstructure:"pole_epsilon"`
}

type OutputConfig struct {
	OutputDirectory string `json:"output_directory" yaml:"output_directory" mapstructure:"output_directory"`
	FilenamePrefix  string `json:"filename_prefix" yaml:"filename_prefix" mapstructure:"filename_prefix"`
	SaveResults     bool   `json:"save_results" yaml:"save_results" mapstructure:"save_results"`
	SaveStats       bool   `json:"save_stats" yaml:"save_stats" mapstructure:"save_stats"`
	Precision       int    `json:"precision" yaml:"precision" mapstructure:"precision"`
	Verbose         bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	LogLevel        string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

type PerformanceConfig struct {
	MaxWorkers int  `json:"max_workers" yaml:"max_workers" mapstructure:"max_workers"`
	UseCache   bool `json:"use_cache" yaml:"use_cache" mapstructure:"use_cache"`
	CacheSize  int  `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`
}

type Config struct {
	Calculation CalculationConfig `json:"calculation" yaml:"calculation" mapstructure:"calculation"`
	Output      OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
	Performance PerformanceConfig `json:"performance" yaml:"performance" mapstructure:"performance"`

	loadedFrom string
}

// LoadedFrom is the config file that was read, or "" when only defaults applied.
func (c *Config) LoadedFrom() string {
	return c.loadedFrom
}

// Params converts the calculation section into evaluator parameters.
func (c *Config) Params() zeta.Params {
	return zeta.Params{
		MaxTerms:    c.Calculation.MaxTerms,
		Tolerance:   c.Calculation.Tolerance,
		RealEpsilon: c.Calculation.RealEpsilon,
		PoleEpsilon: c.Calculation.PoleEpsilon,
	}
}

// ==================== CONFIGURATION MANAGEMENT ====================

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	// Calculation defaults
	v.SetDefault("calculation.max_terms", zeta.DefaultMaxTerms)
	v.SetDefault("calculation.tolerance", zeta.DefaultTolerance)
	v.SetDefault("calculation.real_epsilon", zeta.DefaultRealEpsilon)
	v.SetDefault("calculation.pole_epsilon", zeta.DefaultPoleEpsilon)

	// Output defaults
	v.SetDefault("output.output_directory", ".")
	v.SetDefault("output.filename_prefix", "zeta")
	v.SetDefault("output.save_results", false)
	v.SetDefault("output.save_stats", false)
	v.SetDefault("output.precision", 15)
	v.SetDefault("output.verbose", false)
	v.SetDefault("output.log_level", "info")

	// Performance defaults
	v.SetDefault("performance.max_workers", 0) // 0 = auto
	v.SetDefault("performance.use_cache", true)
	v.SetDefault("performance.cache_size", 10000)
}

// Load reads configuration into a fresh Config.
//
// path may be empty or point to a file that does not exist when it is the
// default path; any other unreadable file is an error. flags, if non-nil, is
// bound so explicitly set flags win over file and environment.
func Load(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var loadedFrom string
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !(errors.Is(err, os.ErrNotExist) && path == DefaultPath) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else {
			loadedFrom = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	CalculateDynamicValues(&cfg)
	cfg.loadedFrom = loadedFrom

	return &cfg, nil
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"max-terms":  "calculation.max_terms",
	"tol":        "calculation.tolerance",
	"workers":    "performance.max_workers",
	"output-dir": "output.output_directory",
	"save":       "output.save_results",
	"verbose":    "output.verbose",
	"log-level":  "output.log_level",
	"precision":  "output.precision",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}

	// --no-cache inverts performance.use_cache, so it is applied by hand.
	if f := flags.Lookup("no-cache"); f != nil && f.Changed && f.Value.String() == "true" {
		v.Set("performance.use_cache", false)
	}
	return nil
}

// Validate checks ranges and wraps ErrInvalid on failure.
func Validate(cfg *Config) error {
	if cfg.Calculation.MaxTerms < 1 {
		return fmt.Errorf("%w: max_terms must be at least 1 (got %d)", ErrInvalid, cfg.Calculation.MaxTerms)
	}
	if !(cfg.Calculation.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive (got %g)", ErrInvalid, cfg.Calculation.Tolerance)
	}
	if !(cfg.Calculation.RealEpsilon > 0) {
		return fmt.Errorf("%w: real_epsilon must be positive", ErrInvalid)
	}
	if !(cfg.Calculation.PoleEpsilon > 0) {
		return fmt.Errorf("%w: pole_epsilon must be positive", ErrInvalid)
	}

	if cfg.Output.Precision < 1 || cfg.Output.Precision > 17 {
		return fmt.Errorf("%w: precision must be between 1 and 17", ErrInvalid)
	}
	switch strings.ToLower(cfg.Output.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, cfg.Output.LogLevel)
	}

	if cfg.Performance.MaxWorkers < 0 {
		return fmt.Errorf("%w: max_workers cannot be negative", ErrInvalid)
	}
	if cfg.Performance.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size cannot be negative", ErrInvalid)
	}

	return nil
}

// CalculateDynamicValues fills the settings left on auto.
func CalculateDynamicValues(cfg *Config) {
	if cfg.Performance.MaxWorkers <= 0 {
		cfg.Performance.MaxWorkers = runtime.NumCPU()
	}
	if cfg.Performance.MaxWorkers > maxWorkersCap {
		cfg.Performance.MaxWorkers = maxWorkersCap
	}
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return &cfg
}

// WriteDefault writes the default configuration as commented YAML.
func WriteDefault(path string, version string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# Zeta Evaluator Configuration v` + version + `
# Generated on ` + time.Now().Format("2006-01-02 15:04:05") + `
# Every key can be overridden with ` + EnvPrefix + `_<SECTION>_<KEY>, e.g. ` + EnvPrefix + `_CALCULATION_MAX_TERMS.

`

	return os.WriteFile(path, []byte(header+string(data)), 0644)
}
