package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// SPIConfig selects the SPI port by periph spireg name. An empty Port picks
// the first registered one.
type SPIConfig struct {
	Port string `yaml:"port"`
	// Hz is the clock frequency. Zero means the driver default.
	Hz int64 `yaml:"hz"`
}

// PinsConfig holds periph gpioreg names for the panel control lines.
type PinsConfig struct {
	DC   string `yaml:"dc"`
	CS   string `yaml:"cs"`
	RST  string `yaml:"rst"`
	Busy string `yaml:"busy"`
}

// PanelConfig describes how the panel is mounted and driven.
type PanelConfig struct {
	// Orientation in degrees: 0, 90, 180 or 270.
	Orientation     int           `yaml:"orientation"`
	SleepAfterFlush bool          `yaml:"sleep_after_flush"`
	BusyPoll        time.Duration `yaml:"busy_poll"`
	// BusyTimeout bounds each busy wait. Zero waits forever.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ImageConfig describes what to show.
type ImageConfig struct {
	Path string `yaml:"path"`
	// Fit is one of "stretch", "contain" or "none".
	Fit string `yaml:"fit"`
	// Mode is "dither" or "classify".
	Mode    string `yaml:"mode"`
	SnapRed bool   `yaml:"snap_red"`
	// Caption is printed in a banner along the bottom edge when set.
	Caption string `yaml:"caption"`
}

// Config is the top-level application configuration.
type Config struct {
	LogLevel string      `yaml:"log_level"`
	SPI      SPIConfig   `yaml:"spi"`
	Pins     PinsConfig  `yaml:"pins"`
	Panel    PanelConfig `yaml:"panel"`
	Image    ImageConfig `yaml:"image"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *"). Empty
	// means a single refresh.
	RefreshCron string `yaml:"refresh"`
}

// Values accepted for ImageConfig.Fit and ImageConfig.Mode.
const (
	FitStretch = "stretch"
	FitContain = "contain"
	FitNone    = "none"

	ModeDither   = "dither"
	ModeClassify = "classify"
)

// Pin names of the Waveshare e-Paper HAT on a Raspberry Pi.
const (
	defaultDC   = "GPIO25"
	defaultCS   = "GPIO8"
	defaultRST  = "GPIO17"
	defaultBusy = "GPIO24"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Pins: PinsConfig{
			DC:   defaultDC,
			CS:   defaultCS,
			RST:  defaultRST,
			Busy: defaultBusy,
		},
		Panel: PanelConfig{
			SleepAfterFlush: true,
			BusyPoll:        100 * time.Millisecond,
		},
		Image: ImageConfig{
			Fit:  FitContain,
			Mode: ModeDither,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SPI.Hz < 0 {
		c.SPI.Hz = 0
	}
	if c.Pins.DC == "" {
		c.Pins.DC = defaultDC
	}
	if c.Pins.RST == "" {
		c.Pins.RST = defaultRST
	}
	if c.Pins.Busy == "" {
		c.Pins.Busy = defaultBusy
	}
	// CS stays empty when the SPI driver owns chip select.

	if c.Panel.BusyPoll <= 0 {
		c.Panel.BusyPoll = 100 * time.Millisecond
	}
	if c.Panel.BusyTimeout < 0 {
		c.Panel.BusyTimeout = 0
	}

	switch c.Image.Fit {
	case FitStretch, FitContain, FitNone:
	default:
		c.Image.Fit = FitContain
	}
	switch c.Image.Mode {
	case ModeDither, ModeClassify:
	default:
		c.Image.Mode = ModeDither
	}
}

// Validate reports settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Panel.Orientation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("config: orientation %d is not one of 0, 90, 180, 270", c.Panel.Orientation)
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			return fmt.Errorf("config: refresh %q: %w", c.RefreshCron, err)
		}
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read, unmarshalled, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename. The parent
// directory is created with 0700 and the file ends up 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".epdframe-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
