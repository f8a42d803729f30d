// SPDX-License-Identifier: EPL-2.0

package audhost

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/driver"
	"github.com/ik5/audhost/node"
	"github.com/ik5/audhost/scheduler"
)

// Config holds engine configuration.
type Config struct {
	// SampleRate is the device sample rate in Hz.
	// Default: 44100
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`

	// Channels is the device channel count.
	// Default: 2
	Channels int `yaml:"channels" json:"channels"`

	// FramesPerPeriod is the number of frames rendered per driver period.
	// Default: 512
	FramesPerPeriod int `yaml:"frames_per_period" json:"frames_per_period"`

	// MaximumFramesToRender is given to the nodes the engine creates.
	// Default: 4096
	MaximumFramesToRender int `yaml:"maximum_frames_to_render" json:"maximum_frames_to_render"`

	// Driver selects what runs the render periods: ticker, manual,
	// portaudio or oto.
	// Default: "ticker"
	Driver string `yaml:"driver" json:"driver"`

	// StatusQueueSize bounds the render status events waiting to be
	// logged. Must be a power of two.
	// Default: 64
	StatusQueueSize int `yaml:"status_queue_size" json:"status_queue_size"`

	// ReportInterval is how often render status events are logged.
	// Default: 100ms
	ReportInterval time.Duration `yaml:"report_interval" json:"report_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate:            44100,
		Channels:              2,
		FramesPerPeriod:       512,
		MaximumFramesToRender: node.DefaultMaximumFramesToRender,
		Driver:                driver.KindTicker,
		StatusQueueSize:       scheduler.DefaultStatusQueueSize,
		ReportInterval:        scheduler.DefaultReportInterval,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Format().Validate(); err != nil {
		return fmt.Errorf("sample_rate/channels: %w", err)
	}
	if c.FramesPerPeriod <= 0 {
		return fmt.Errorf("frames_per_period must be positive, got %d", c.FramesPerPeriod)
	}
	if c.MaximumFramesToRender < c.FramesPerPeriod {
		return fmt.Errorf("maximum_frames_to_render (%d) must be at least frames_per_period (%d)",
			c.MaximumFramesToRender, c.FramesPerPeriod)
	}
	if !slices.Contains(driver.Kinds(), c.Driver) {
		return fmt.Errorf("driver %q: %w", c.Driver, driver.ErrUnsupportedDriver)
	}
	if n := c.StatusQueueSize; n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("status_queue_size %d: %w", n, scheduler.ErrQueueSize)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be positive, got %v", c.ReportInterval)
	}
	return nil
}

// Format is the device format described by the configuration.
func (c *Config) Format() audio.StreamFormat {
	return audio.StandardFormat(c.SampleRate, c.Channels)
}

// PeriodDuration is the wall-clock length of one period.
func (c *Config) PeriodDuration() time.Duration {
	return c.Format().PeriodDuration(c.FramesPerPeriod)
}

// ParseConfig reads YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}
