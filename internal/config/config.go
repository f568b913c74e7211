package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/input"
)

const (
	DefaultDelayMs   = 500
	DefaultTheme     = "cyberpunk"
	DefaultChartSize = 10
	DefaultDataDir   = ".sortlab"
	DefaultLogLevel  = "info"
)

var ErrUnknownPreset = errors.New("unknown preset")

type Config struct {
	Input    []int       `yaml:"input"`
	DelayMs  int         `yaml:"delay_ms"`
	Theme    string      `yaml:"theme"`
	Seed     int64       `yaml:"seed"`
	DataDir  string      `yaml:"data_dir"`
	LogLevel string      `yaml:"log_level"`
	Charts   ChartConfig `yaml:"charts"`
}

type ChartConfig struct {
	WorstSize int `yaml:"worst_size"`
	BestSize  int `yaml:"best_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Input:    []int{5, 2, 4, 6, 1, 3},
		DelayMs:  DefaultDelayMs,
		Theme:    DefaultTheme,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Charts: ChartConfig{
			WorstSize: DefaultChartSize,
			BestSize:  DefaultChartSize,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Delay converts DelayMs, falling back to the default for negative values.
func (c *Config) Delay() time.Duration {
	if c.DelayMs < 0 {
		return input.DefaultDelay
	}
	return time.Duration(c.DelayMs) * time.Millisecond
}

func (c *Config) normalize() {
	if c.DelayMs < 0 {
		c.DelayMs = DefaultDelayMs
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Charts.WorstSize = complexity.ClampSize(c.Charts.WorstSize)
	c.Charts.BestSize = complexity.ClampSize(c.Charts.BestSize)
}
