package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type config struct {
	Addr           string             `yaml:"addr"`
	Source         dataset.SourceSpec `yaml:"source"`
	ReloadInterval time.Duration      `yaml:"reload_interval"`
	ScanWorkers    int                `yaml:"scan_workers"`
	TLS            tlsConfig          `yaml:"tls"`
	SourcesDB      string             `yaml:"sources_db"`
	CheckInterval  time.Duration      `yaml:"check_interval"`
}

func defaultConfig() config {
	return config{
		Addr: ":5000",
		Source: dataset.SourceSpec{
			Path:      "Relatorio_cadop.csv",
			Delimiter: dataset.DefaultDelimiter,
			Encoding:  dataset.DefaultEncoding,
		},
		SourcesDB: "sources.db",
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string, logger *slog.Logger) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = cfg.Source.WithDefaults()
	if cfg.ScanWorkers < 0 {
		return cfg, fmt.Errorf("scan_workers must be >= 0, got %d", cfg.ScanWorkers)
	}
	return cfg, nil
}

// configFromContext loads the config named by --config and applies the
// global --data override.
func configFromContext(c *cli.Context) (config, error) {
	cfg, err := loadConfig(c.String("config"), slog.Default())
	if err != nil {
		return cfg, err
	}
	if p := c.String("data"); p != "" {
		cfg.Source.Path = p
	}
	return cfg, nil
}
