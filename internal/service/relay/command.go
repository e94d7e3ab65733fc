package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/device"
	"github.com/wildwarden/buzzer-relay/internal/logger"
	"github.com/wildwarden/buzzer-relay/internal/notify"
	"github.com/wildwarden/buzzer-relay/internal/service/common"
	"github.com/wildwarden/buzzer-relay/internal/version"
)

// Options controls the relay process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file. A missing file means defaults.
	ConfigPath string
	// Overrides are command line values that take precedence over the file.
	Overrides config.Overrides
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
}

// Run loads the configuration, opens the log sinks and runs the relay loop
// until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Load settings from configuration file and apply flag overrides.
	cfg, err := config.Resolve(opts.ConfigPath, &opts.Overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Parse the requested log level.
	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	// Open console and file log sinks.
	log, closeLog, err := logger.Open(level, cfg.LogFile)
	if err != nil {
		return err
	}

	// Flush and close the log file on function exit.
	defer closeLog()

	// Set context with logger name for tracking.
	ctx = logger.WithName(logger.ToContext(ctx, log), "buzzer-relay")

	// Print startup banner.
	logger.Infof(ctx, "==== Wild Warden Buzzer Relay %s ====", version.Short())
	logger.Info(ctx, "Starting up...")

	// Refuse to share the serial port with another relay.
	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			logger.Errorf(ctx, "Refusing to start: %v", err)

			return err
		}
	}

	// Create status endpoint client.
	client, err := common.NewClient(cfg.APIURL, common.WithCallTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("create status client: %w", err)
	}

	// Ensure client cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	// Create transition publisher.
	publisher, err := newPublisher(cfg)
	if err != nil {
		return fmt.Errorf("create mqtt publisher: %w", err)
	}

	// Disconnect from the broker on function exit.
	defer func() {
		_ = publisher.Close()
	}()

	// Log effective settings.
	logger.DebugKV(ctx, "Relay configured",
		"api_url", cfg.APIURL,
		"port", cfg.PortName,
		"baud_rate", cfg.BaudRate,
		"interval", cfg.PollInterval.String(),
		"mqtt_broker", cfg.MQTT.Broker,
	)

	// Run the relay loop until interrupted.
	controller := NewController(client, device.NewSerialConnector(cfg), publisher, cfg.FailureThreshold)

	return loop(ctx, controller, cfg.PollInterval)
}

// newPublisher returns the MQTT mirror, or a no-op when no broker is configured.
//
//nolint:ireturn // The caller only needs the Publisher behaviour.
func newPublisher(cfg *config.Config) (notify.Publisher, error) {
	if cfg.MQTT.Broker == "" {
		return notify.Nop{}, nil
	}

	return notify.NewMQTTPublisher(cfg.MQTT)
}

// loop connects once, then ticks every interval until ctx is canceled.
// The cleanup runs exactly once, also when a tick panics.
func loop(ctx context.Context, controller *Controller, interval time.Duration) error {
	// Cleanup must still log and write after the interrupt canceled ctx.
	cleanupCtx := context.WithoutCancel(ctx)

	defer func() {
		controller.Shutdown(cleanupCtx)
		logger.Info(cleanupCtx, "Program terminated.")
	}()

	// Try the device once before the first poll.
	if !controller.Connect(ctx) {
		logger.Info(ctx, "Continuing without device connection. Will retry connecting...")
	}

	// Create timer for periodic status checks.
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			logger.Info(ctx, "Program stopped by user.")

			return nil
		}

		// Poll the endpoint and drive the buzzer.
		controller.Tick(ctx)

		timer.Reset(interval)

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Program stopped by user.")

			return nil
		case <-timer.C:
		}
	}
}
