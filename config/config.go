// Package config loads simulation configurations and provides typed access
// to implementation parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImplConfig selects an implementation by name and carries its parameters.
type ImplConfig struct {
	Impl   string `yaml:"impl"`
	Params Params `yaml:"params"`
}

// ControllerConfig configures the memory controller.
type ControllerConfig struct {
	ChannelID       int `yaml:"channel_id"`
	QueueSize       int `yaml:"queue_size"`
	RefreshInterval int `yaml:"refresh_interval"`
	RFMThreshold    int `yaml:"rfm_threshold"`
}

// CoreConfig configures the traffic of one core of the front end.
type CoreConfig struct {
	Pattern   string  `yaml:"pattern"`
	Rows      []int   `yaml:"rows"`
	Bank      int     `yaml:"bank"`
	WriteRate float64 `yaml:"write_rate"`
	Requests  int     `yaml:"requests"`

	// InstsPerRequest overrides the front end setting when positive.
	InstsPerRequest int `yaml:"insts_per_request"`
}

// FrontendConfig configures the synthetic front end.
type FrontendConfig struct {
	Seed            uint64       `yaml:"seed"`
	MSHRs           int          `yaml:"mshrs"`
	InstsPerRequest int          `yaml:"insts_per_request"`
	Cores           []CoreConfig `yaml:"cores"`
}

// RecordingConfig configures where traces are recorded.
type RecordingConfig struct {
	Path           string `yaml:"path"`
	ThrottleEvents bool   `yaml:"throttle_events"`
}

// MonitoringConfig configures the monitoring server.
type MonitoringConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// Config is the top-level configuration of a simulation.
type Config struct {
	Device     ImplConfig       `yaml:"device"`
	Controller ControllerConfig `yaml:"controller"`
	Scheduler  ImplConfig       `yaml:"scheduler"`
	Plugins    []ImplConfig     `yaml:"plugins"`
	Frontend   FrontendConfig   `yaml:"frontend"`
	Recording  RecordingConfig  `yaml:"recording"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// Default returns a configuration that runs without any mitigation.
func Default() *Config {
	return &Config{
		Device:    ImplConfig{Impl: "DDR5"},
		Scheduler: ImplConfig{Impl: "BHScheduler"},
		Controller: ControllerConfig{
			QueueSize:       32,
			RefreshInterval: 6240,
		},
		Frontend: FrontendConfig{
			Seed:            1,
			MSHRs:           16,
			InstsPerRequest: 100,
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep the
// values of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, NewConfigurationError("Config", "invalid yaml: %v", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields that cannot be checked by the components
// themselves.
func (c *Config) Validate() error {
	if c.Device.Impl == "" {
		return NewConfigurationError("Config", "device.impl is required")
	}

	if c.Scheduler.Impl == "" {
		return NewConfigurationError("Config", "scheduler.impl is required")
	}

	for i, p := range c.Plugins {
		if p.Impl == "" {
			return NewConfigurationError("Config",
				"plugins[%d].impl is required", i)
		}
	}

	if c.Controller.QueueSize <= 0 {
		return NewConfigurationError("Config",
			"controller.queue_size must be positive, got %d",
			c.Controller.QueueSize)
	}

	return nil
}
