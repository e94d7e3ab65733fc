// Package config defines the relay settings used by the binaries and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the status endpoint, the serial port parameters,
// logging sinks and the optional MQTT transition mirror.
package config
