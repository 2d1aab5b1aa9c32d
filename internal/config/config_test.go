package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/road.report/internal/uart"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{
		"serial_port": "/dev/ttyACM0",
		"serial_baud": 57600,
		"accelerometer_csv": "acc.csv",
		"gps_csv": "gps.csv",
		"parking_csv": "parking.csv",
		"replay_delay": "250ms",
		"user_id": 42
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.GetSerialPort())
	assert.Equal(t, 57600, cfg.GetSerialBaud())
	assert.Equal(t, "acc.csv", cfg.GetAccelerometerCSV())
	assert.Equal(t, "gps.csv", cfg.GetGPSCSV())
	assert.Equal(t, "parking.csv", cfg.GetParkingCSV())
	assert.Equal(t, 250*time.Millisecond, cfg.GetReplayDelay())
	assert.Equal(t, 42, cfg.GetUserID())
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{"user_id": 9}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.GetUserID())
	assert.Equal(t, DefaultSerialPort, cfg.GetSerialPort())
	assert.Equal(t, uart.DefaultBaudRate, cfg.GetSerialBaud())
	assert.Equal(t, DefaultAccelerometerCSV, cfg.GetAccelerometerCSV())
	assert.Equal(t, DefaultGPSCSV, cfg.GetGPSCSV())
	assert.Empty(t, cfg.GetParkingCSV(), "parking stream is off by default")
	assert.Zero(t, cfg.GetReplayDelay(), "pacing is off by default")
}

func TestEmpty_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Empty()
	assert.Equal(t, DefaultSerialPort, cfg.GetSerialPort())
	assert.Equal(t, uart.DefaultBaudRate, cfg.GetSerialBaud())
	assert.Zero(t, cfg.GetReplayDelay())
	assert.Zero(t, cfg.GetUserID())
}

func TestLoad_RejectsNonJSONExtension(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.yaml", `{}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, ".json extension")
}

func TestLoad_RejectsBadDelay(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{"replay_delay": "soon"}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "replay_delay")
}

func TestLoad_RejectsNegativeDelay(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{"replay_delay": "-1s"}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "non-negative")
}

func TestLoad_RejectsNonPositiveBaud(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{"serial_baud": -9600}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "serial_baud")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "agent.json", `{"user_id": `)
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config JSON")
}
