package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Roster struct {
		TTL string `yaml:"ttl"`
	} `yaml:"roster"`
	Game struct {
		Rule     string `yaml:"rule"`
		Win      int    `yaml:"win"`
		Lose     int    `yaml:"lose"`
		KeepRedo bool   `yaml:"keepRedo"`
	} `yaml:"game"`
}

// Load reads YAML config from path. Game defaults to a 7-right 3-miss buzzer game.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Game.Rule == "" {
		cfg.Game.Rule = "nomx"
	}
	if cfg.Game.Rule == "nomx" {
		if cfg.Game.Win == 0 {
			cfg.Game.Win = 7
		}
		if cfg.Game.Lose == 0 {
			cfg.Game.Lose = 3
		}
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
