package app

import "errors"

// Config holds everything an App instance needs to run one build.
type Config struct {
	ConfigPath string // HCL config file; optional when SourceRoot is given
	SourceRoot string // overrides the config file's source root
	OutputRoot string // overrides the config file's output root
	Exclude    []string
	Clean      bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates CLI-level configuration before the app starts.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" && cfg.SourceRoot == "" {
		return nil, errors.New("either a config file or a source root is required")
	}
	return &cfg, nil
}
