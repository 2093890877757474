package main

import (
	"flag"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nikmy/agenda/internal/api"
	"github.com/nikmy/agenda/internal/checker"
	"github.com/nikmy/agenda/internal/telegram"
	"github.com/nikmy/agenda/pkg/environment"
	"github.com/nikmy/agenda/pkg/errors"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`
	Checker     checker.Config  `yaml:"Checker"`
	API         api.Config      `yaml:"API"`
	Telegram    telegram.Config `yaml:"Telegram"`
}

func loadConfig() (*Config, error) {
	configPath := flag.String("config", "config.yaml", "path to config file")
	rawEnv := flag.String("env", "", "environment (dev, prod)")
	flag.Parse()

	path, err := filepath.Abs(*configPath)
	if err != nil {
		return nil, errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFailf(err, "read %q", path)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	if *rawEnv != "" {
		cfg.Environment = environment.FromString(*rawEnv)
	}

	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.WrapFail(err, "parse yaml")
	}

	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		return nil, errors.Fail("enable telegram bot without token")
	}

	return &cfg, nil
}
