package config

import "time"

// Overrides holds command line values that take precedence over the file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	APIURL       string
	PortName     string
	BaudRate     int
	PollInterval time.Duration
	// LogFile is nil when not given; a pointer to "" disables the file log.
	LogFile  *string
	LogLevel string
}

// Apply copies the non-zero overrides into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o == nil || cfg == nil {
		return
	}

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}

	if o.PortName != "" {
		cfg.PortName = o.PortName
	}

	if o.BaudRate != 0 {
		cfg.BaudRate = o.BaudRate
	}

	if o.PollInterval != 0 {
		cfg.PollInterval = o.PollInterval
	}

	if o.LogFile != nil {
		cfg.LogFile = *o.LogFile
	}

	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
}

// Resolve loads the file at path (defaults when it is missing), applies the
// overrides and validates the result.
func Resolve(path string, o *Overrides) (*Config, error) {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	o.Apply(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
