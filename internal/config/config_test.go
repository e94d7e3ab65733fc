package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing URL.
	cfg := Default()
	cfg.APIURL = ""
	require.ErrorIs(t, Validate(cfg), errAPIURLRequired)

	// Bad URL.
	cfg = Default()
	cfg.APIURL = "not a url"
	require.Error(t, Validate(cfg))

	// Missing port.
	cfg = Default()
	cfg.PortName = ""
	require.ErrorIs(t, Validate(cfg), errPortRequired)

	// Negative baud rate.
	cfg = Default()
	cfg.BaudRate = -1
	require.ErrorIs(t, Validate(cfg), errInvalidBaudRate)

	// Negative interval.
	cfg = Default()
	cfg.PollInterval = -time.Second
	require.ErrorIs(t, Validate(cfg), errInvalidDuration)

	// Zero values are replaced by defaults.
	cfg = &Config{
		APIURL:   "http://127.0.0.1:8080/api/buzzer-status",
		PortName: "/dev/ttyUSB0",
		MQTT: MQTT{
			Broker: "tcp://127.0.0.1:1883",
		},
	}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultBaudRate, cfg.BaudRate)
	require.Equal(t, DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, DefaultFailureThreshold, cfg.FailureThreshold)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, DefaultMQTTTopic, cfg.MQTT.Topic)
	require.Equal(t, DefaultMQTTClientID, cfg.MQTT.ClientID)

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := Default()
	cfg.PortName = "COM7"
	cfg.BaudRate = 115200
	cfg.PollInterval = 10 * time.Second

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_PartialFileKeepsDefaults verifies that keys absent from the file keep their defaults.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := "port_name: /dev/ttyUSB1\npoll_interval: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB1", cfg.PortName)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
	require.Equal(t, DefaultAPIURL, cfg.APIURL)
	require.Equal(t, DefaultBaudRate, cfg.BaudRate)
	require.Equal(t, DefaultSettleDelay, cfg.SettleDelay)
}

// TestLoadOrDefault_MissingFile returns defaults when the file is absent but fails on bad YAML.
func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("baud_rate: [1"), DefaultFilePermissions))

	_, err = LoadOrDefault(broken)
	require.Error(t, err)
}
