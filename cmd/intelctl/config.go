package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	Addr         string        `env:"INTEL_ADDR"           envDefault:":9876"`
	MetricsAddr  string        `env:"INTEL_METRICS_ADDR"   envDefault:":9877"`
	Dataset      string        `env:"INTEL_DATASET"`
	EChartsCDN   string        `env:"INTEL_ECHARTS_CDN"`
	ChatMinDelay time.Duration `env:"INTEL_CHAT_MIN_DELAY" envDefault:"1200ms"`
	ChatMaxDelay time.Duration `env:"INTEL_CHAT_MAX_DELAY" envDefault:"2s"`
	LogLevel     string        `env:"INTEL_LOG_LEVEL"      envDefault:"info"`
	CollabURL    string        `env:"INTEL_COLLAB_URL"`
	CollabKey    string        `env:"INTEL_COLLAB_KEY"`
	ArcadeID     string        `env:"INTEL_ARCADE_ID"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("intelctl: parse env: %w", err)
	}
	if cfg.ChatMaxDelay < cfg.ChatMinDelay {
		return config{}, fmt.Errorf("intelctl: INTEL_CHAT_MAX_DELAY %s is below INTEL_CHAT_MIN_DELAY %s", cfg.ChatMaxDelay, cfg.ChatMinDelay)
	}
	return cfg, nil
}
