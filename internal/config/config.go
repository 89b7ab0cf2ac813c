// Package config loads kura's client configuration: where the server is,
// which dataset the console manages, and how chatty the log is. Values come
// from a JSON config file, overridden by KURA_* environment variables. The
// API token is a secret and handled separately (see token.go).
package config

import "path/filepath"

type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	Log     LogConfig
}

type ServerConfig struct {
	BaseURL string
}

type DatasetConfig struct {
	Name string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		Dataset: DatasetConfig{
			Name: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file at
// $XDG_CONFIG_HOME/kura/config.json (flat JSON object keyed by config key),
// then applies KURA_* environment overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func configFilePath() string {
	return filepath.Join(configDir(), "config.json")
}
