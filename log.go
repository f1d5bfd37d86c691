package main

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// envConfig holds process settings read from the environment.
type envConfig struct {
	LogFile     string        `env:"EMORAND_LOGFILE"`
	Debug       bool          `env:"EMORAND_DEBUG"`
	HTTPTimeout time.Duration `env:"EMORAND_HTTP_TIMEOUT" envDefault:"0s"`
}

func loadEnv() (envConfig, error) {
	return env.ParseAs[envConfig]()
}

// setupLog routes log output to stderr, or to EMORAND_LOGFILE when set.
// Stdout is reserved for the emoji.
func setupLog(cfg envConfig) (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	log.SetPrefix("emorand")
	log.SetLevel(log.InfoLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.LogFile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetTimeFormat(time.RFC3339)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}
