// Package config loads agent configuration from a JSON file. Fields are
// pointer-optional so a partial config is safe: the Get* accessors fall
// back to defaults for anything the file omits.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/road.report/internal/uart"
)

// Defaults applied by the Get* accessors.
const (
	DefaultSerialPort       = "/dev/ttyUSB0"
	DefaultAccelerometerCSV = "data/accelerometer.csv"
	DefaultGPSCSV           = "data/gps.csv"
)

// Config is the root agent configuration. The JSON schema is shared
// between the agent and the capture tool.
type Config struct {
	// Serial link
	SerialPort *string `json:"serial_port,omitempty"`
	SerialBaud *int    `json:"serial_baud,omitempty"`

	// Replay files
	AccelerometerCSV *string `json:"accelerometer_csv,omitempty"`
	GPSCSV           *string `json:"gps_csv,omitempty"`
	ParkingCSV       *string `json:"parking_csv,omitempty"`

	// Replay pacing, a duration string like "100ms". Empty or absent
	// disables pacing.
	ReplayDelay *string `json:"replay_delay,omitempty"`

	// UserID tags every reading produced by the replay source.
	UserID *int `json:"user_id,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The path must have a .json
// extension and the file must be under the size cap. Fields omitted from
// the file keep their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every set field for a usable value.
func (c *Config) Validate() error {
	if c.SerialBaud != nil && *c.SerialBaud <= 0 {
		return fmt.Errorf("serial_baud must be positive, got %d", *c.SerialBaud)
	}
	if c.ReplayDelay != nil && *c.ReplayDelay != "" {
		d, err := time.ParseDuration(*c.ReplayDelay)
		if err != nil {
			return fmt.Errorf("replay_delay %q is not a duration: %w", *c.ReplayDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("replay_delay must be non-negative, got %s", d)
		}
	}
	return nil
}

// GetSerialPort returns the serial device path.
func (c *Config) GetSerialPort() string {
	if c.SerialPort != nil {
		return *c.SerialPort
	}
	return DefaultSerialPort
}

// GetSerialBaud returns the serial transfer rate.
func (c *Config) GetSerialBaud() int {
	if c.SerialBaud != nil {
		return *c.SerialBaud
	}
	return uart.DefaultBaudRate
}

// GetAccelerometerCSV returns the accelerometer replay file path.
func (c *Config) GetAccelerometerCSV() string {
	if c.AccelerometerCSV != nil {
		return *c.AccelerometerCSV
	}
	return DefaultAccelerometerCSV
}

// GetGPSCSV returns the GPS replay file path.
func (c *Config) GetGPSCSV() string {
	if c.GPSCSV != nil {
		return *c.GPSCSV
	}
	return DefaultGPSCSV
}

// GetParkingCSV returns the parking replay file path, or "" when the
// parking stream is disabled.
func (c *Config) GetParkingCSV() string {
	if c.ParkingCSV != nil {
		return *c.ParkingCSV
	}
	return ""
}

// GetReplayDelay returns the pacing interval. Validate has already
// checked the duration string, so parse failures collapse to zero.
func (c *Config) GetReplayDelay() time.Duration {
	if c.ReplayDelay == nil || *c.ReplayDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.ReplayDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetUserID returns the user tag for replay readings.
func (c *Config) GetUserID() int {
	if c.UserID != nil {
		return *c.UserID
	}
	return 0
}
