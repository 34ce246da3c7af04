package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // hcl files

	// Check makes the run fail with a StaleError when any job is stale.
	Check bool

	LogFormat string
	LogLevel  string

	// Run-settings defaults; pipeline-file settings fill whatever these
	// leave blank.
	NamePrefix    string
	Queue         string
	Project       string
	MemoryGB      int
	RunRegardless bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.MemoryGB < 0 {
		return nil, errors.New("MemoryGB must not be negative")
	}

	return &cfg, nil
}
