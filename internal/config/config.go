// Package config defines service configuration and its loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/okian/rankvote/internal/domain/tally"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StrictRankings rejects ballots that rank a candidate more than once.
	StrictRankings bool `koanf:"strict_rankings"`

	// Methods are run, in order, when a request names none.
	Methods []string `koanf:"methods"`

	// TallyWorkers bounds how many methods are tallied concurrently.
	TallyWorkers int `koanf:"tally_workers"`

	// MaxCandidates and MaxBallots cap the size of a single election. Zero
	// means unlimited.
	MaxCandidates int `koanf:"max_candidates"`
	MaxBallots    int `koanf:"max_ballots"`
}

// New creates a Config with defaults.
func New() *Config {
	seq := tally.Sequence()
	methods := make([]string, len(seq))
	for i, m := range seq {
		methods[i] = string(m)
	}
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		StrictRankings: true,
		Methods:        methods,
		TallyWorkers:   runtime.NumCPU(),
		MaxCandidates:  64,
		MaxBallots:     100_000,
	}
}
