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
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Session struct {
		// IdleTTL is how long a session may sit without activity before
		// the background sweep evicts it.
		IdleTTL       string `yaml:"idle_ttl"`
		SweepInterval string `yaml:"sweep_interval"`
		// AllowLateJoin permits joining after the quiz has started.
		// Defaults to true when unset.
		AllowLateJoin *bool `yaml:"allow_late_join"`
		// HostName is the display name of the synthesized host entry.
		HostName string `yaml:"host_name"`
		// MonitorInterval paces the websocket status feed.
		MonitorInterval string `yaml:"monitor_interval"`
	} `yaml:"session"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// AllowLateJoin resolves the late-join policy with its default.
func (c Config) AllowLateJoin() bool {
	if c.Session.AllowLateJoin == nil {
		return true
	}
	return *c.Session.AllowLateJoin
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
