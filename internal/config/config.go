// Package config loads sstlower.toml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"sstlower/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "sstlower.toml"

// Lower configures the lowering pass.
type Lower struct {
	// ViewAsSpec lowers every body as spec code (no overflow checks).
	ViewAsSpec bool `toml:"view_as_spec"`
	// MaxTriggers caps single-term triggers per quantifier (0: no cap).
	MaxTriggers int `toml:"max_triggers"`
}

// Driver configures the krate driver.
type Driver struct {
	Jobs           int    `toml:"jobs"`
	Cache          bool   `toml:"cache"`
	CacheDir       string `toml:"cache_dir"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// Trace configures tracing.
type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type Config struct {
	Lower  Lower  `toml:"lower"`
	Driver Driver `toml:"driver"`
	Trace  Trace  `toml:"trace"`
	// Path is the file the configuration was read from ("" for defaults).
	Path string `toml:"-"`
}

var (
	// ErrBadJobs indicates a negative [driver].jobs.
	ErrBadJobs = errors.New("[driver].jobs must not be negative")
	// ErrBadMaxDiagnostics indicates a negative [driver].max_diagnostics.
	ErrBadMaxDiagnostics = errors.New("[driver].max_diagnostics must not be negative")
)

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Driver: Driver{
			Cache:          true,
			CacheDir:       ".sstlower-cache",
			MaxDiagnostics: 100,
		},
		Trace: Trace{
			Level:  "off",
			Mode:   "stream",
			Format: "auto",
			Output: "stderr",
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Driver.Jobs < 0 {
		return ErrBadJobs
	}
	if c.Driver.MaxDiagnostics < 0 {
		return ErrBadMaxDiagnostics
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	return nil
}
