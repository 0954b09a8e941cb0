package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the ecsdemo serve subcommand's configuration file shape.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	TickPeriod  string `yaml:"tick_period"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		MetricsAddr: ":9090",
		TickPeriod:  "50ms",
	}
}

// loadConfig reads a YAML config file, falling back to defaultConfig
// for any field the file does not set. An empty path returns the
// defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
