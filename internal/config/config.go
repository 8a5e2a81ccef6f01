package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

type Config struct {
	Home            string `yaml:"home"`
	Prompt          string `yaml:"prompt"`
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file"`
	CreateIfMissing bool   `yaml:"create_if_missing"`
	Sync            bool   `yaml:"sync"`
}

const DefaultPrompt = "db> "

func Default(paths *Paths) *Config {
	return &Config{
		Home:            paths.Home,
		Prompt:          DefaultPrompt,
		LogLevel:        "info",
		LogFile:         filepath.Join(paths.LogDir, "rowstore.log"),
		CreateIfMissing: true,
	}
}

// LoadConfig starts from the defaults and overlays the yaml file if one exists.
// A missing file is not an error
func LoadConfig(homeOverride, configOverride string) (*Config, error) {
	paths, err := ResolvePaths(homeOverride, configOverride)
	if err != nil {
		return nil, err
	}

	cfg := Default(paths)

	f, err := os.Open(paths.Config)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// an empty file decodes to io.EOF
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return cfg, nil
}
