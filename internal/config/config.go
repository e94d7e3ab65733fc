package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of the buzzer relay.
type Config struct {
	// APIURL is the endpoint returning the buzzer status JSON.
	APIURL string `yaml:"api_url"`
	// PollInterval is the pause between two ticks of the relay loop.
	PollInterval time.Duration `yaml:"poll_interval"`
	// RequestTimeout bounds a single status request. Zero keeps the HTTP client default.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// PortName is the serial port the microcontroller is attached to.
	PortName string `yaml:"port_name"`
	// BaudRate is the serial line speed.
	BaudRate int `yaml:"baud_rate"`
	// SettleDelay is how long to wait after opening the port before the first write.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// ReadTimeout is applied to the serial port after it is opened.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// FailureThreshold is the number of consecutive poll failures that produce a warning.
	FailureThreshold int `yaml:"failure_threshold"`
	// LogFile is the append-only log file. Empty disables file logging.
	LogFile string `yaml:"log_file"`
	// LogLevel is the minimum level written to the log sinks.
	LogLevel string `yaml:"log_level"`
	// MQTT configures the optional transition mirror.
	MQTT MQTT `yaml:"mqtt"`
}

// MQTT holds the broker settings used to publish alert transitions.
type MQTT struct {
	// Broker is the broker URL, e.g. tcp://192.168.1.200:1883. Empty disables publishing.
	Broker string `yaml:"broker"`
	// Topic receives one message per transition.
	Topic string `yaml:"topic"`
	// ClientID identifies the relay to the broker.
	ClientID string `yaml:"client_id"`
}

const (
	// DefaultConfigFilename is the default filename for relay settings.
	DefaultConfigFilename = "buzzer-relay.yaml"

	// DefaultAPIURL is the buzzer status endpoint of the Wild Warden server.
	DefaultAPIURL = "https://wildwardenserver.onrender.com/api/buzzer-status"

	// DefaultPollInterval is the fixed time between two status checks.
	DefaultPollInterval = 5 * time.Second

	// DefaultBaudRate matches the Serial.begin call of the buzzer sketch.
	DefaultBaudRate = 9600

	// DefaultSettleDelay lets the board finish its reset after the port is opened.
	DefaultSettleDelay = 2 * time.Second

	// DefaultReadTimeout is applied to the opened serial port.
	DefaultReadTimeout = time.Second

	// DefaultFailureThreshold is the number of failed polls that trigger a warning.
	DefaultFailureThreshold = 5

	// DefaultLogFile is the append-only log file name.
	DefaultLogFile = "buzzer_alert.log"

	// DefaultLogLevel is the minimum level of written log lines.
	DefaultLogLevel = "info"

	// DefaultMQTTTopic is the topic used for transition messages.
	DefaultMQTTTopic = "buzzer-relay/transitions"

	// DefaultMQTTClientID is the client id presented to the broker.
	DefaultMQTTClientID = "buzzer-relay"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAPIURLRequired is returned when the status endpoint is missing.
	errAPIURLRequired = errors.New("api url must be provided")
	// errPortRequired is returned when the serial port name is missing.
	errPortRequired = errors.New("serial port must be provided")
	// errInvalidBaudRate is returned for non-positive baud rates.
	errInvalidBaudRate = errors.New("baud rate must be positive")
	// errInvalidDuration is returned for negative durations.
	errInvalidDuration = errors.New("duration must not be negative")
)

// DefaultPortName returns the usual port of an Arduino on the current OS.
func DefaultPortName() string {
	if runtime.GOOS == "windows" {
		return "COM4"
	}

	return "/dev/ttyACM0"
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		APIURL:           DefaultAPIURL,
		PollInterval:     DefaultPollInterval,
		PortName:         DefaultPortName(),
		BaudRate:         DefaultBaudRate,
		SettleDelay:      DefaultSettleDelay,
		ReadTimeout:      DefaultReadTimeout,
		FailureThreshold: DefaultFailureThreshold,
		LogFile:          DefaultLogFile,
		LogLevel:         DefaultLogLevel,
		MQTT: MQTT{
			Topic:    DefaultMQTTTopic,
			ClientID: DefaultMQTTClientID,
		},
	}
}

// Load reads configuration from the provided path and validates it.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills zero values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.APIURL == "" {
		return errAPIURLRequired
	}

	if _, err := url.ParseRequestURI(cfg.APIURL); err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}

	if cfg.PortName == "" {
		return errPortRequired
	}

	if cfg.BaudRate < 0 {
		return errInvalidBaudRate
	}

	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	for name, d := range map[string]time.Duration{
		"poll_interval":   cfg.PollInterval,
		"request_timeout": cfg.RequestTimeout,
		"settle_delay":    cfg.SettleDelay,
		"read_timeout":    cfg.ReadTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s: %w", name, errInvalidDuration)
		}
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.MQTT.Broker == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(cfg.MQTT.Broker); err != nil {
		return fmt.Errorf("invalid mqtt broker: %w", err)
	}

	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = DefaultMQTTTopic
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultMQTTClientID
	}

	return nil
}
