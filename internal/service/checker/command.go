package checker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/logger"
	"github.com/wildwarden/buzzer-relay/internal/service/common"
)

// Options controls the one-shot status check.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// APIURL overrides the status endpoint from the configuration.
	APIURL string
	// Out receives the report; defaults to stdout.
	Out io.Writer
}

// Run polls the status endpoint once and writes a human-readable report.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "check")

	cfg, err := config.Resolve(opts.ConfigPath, &config.Overrides{APIURL: opts.APIURL})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	client, err := common.NewClient(cfg.APIURL, common.WithCallTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("create status client: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Checking buzzer status", "api_url", cfg.APIURL)

	status, err := client.GetBuzzerStatus(ctx)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return Report(out, status)
}

// Report writes the status, one case per line.
func Report(out io.Writer, status *alert.Status) error {
	state := "inactive"
	if status.BuzzerActive {
		state = "active"
	}

	if _, err := fmt.Fprintf(out, "Buzzer: %s (%s), pending cases: %d\n",
		state, status.Command(), status.PendingCasesCount); err != nil {
		return err
	}

	for i, pending := range status.Cases {
		if _, err := fmt.Fprintf(out, "Case %d: Device %s at %s\n", i+1, pending.Device(), pending.Time()); err != nil {
			return err
		}
	}

	return nil
}
