// Package config holds the process configuration: an explicit immutable
// struct populated once from the environment at startup and passed into the
// components that need it. There is no ambient global.
package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	summaryFileName   = "business_summary.txt"
	referenceFileName = "about_business.pdf"
)

// Config is the process configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Model        string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Provider     string `env:"LLM_PROVIDER" envDefault:"gemini"`
	LogDir       string `env:"LOG_DIR" envDefault:"logs"`
	MeDir        string `env:"ME_DIR" envDefault:"me"`
}

// FromEnv builds a Config from the environment.
func FromEnv() (Config, error) {
	return env.ParseAs[Config]()
}

// SummaryPath returns the grounding summary file path under MeDir.
func (c Config) SummaryPath() string {
	return filepath.Join(c.MeDir, summaryFileName)
}

// ReferencePath returns the grounding reference document path under MeDir.
func (c Config) ReferencePath() string {
	return filepath.Join(c.MeDir, referenceFileName)
}
