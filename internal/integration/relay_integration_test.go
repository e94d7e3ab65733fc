package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/service/checker"
	"github.com/wildwarden/buzzer-relay/internal/service/relay"
)

const (
	alertBody = `{"buzzerActive":true,"pendingCasesCount":1,"cases":[{"deviceId":"A1","timestamp":"12:00"}]}`
	clearBody = `{"buzzerActive":false,"pendingCasesCount":0,"cases":[]}`
)

// startStatusServer serves the alert body until cleared is set, then the all clear body.
func startStatusServer(t *testing.T, cleared *atomic.Bool) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if cleared.Load() {
			_, _ = w.Write([]byte(clearBody))

			return
		}

		_, _ = w.Write([]byte(alertBody))
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

// TestRelay_LogsAlertAndAllClear runs the relay while the server goes from alert to all clear.
func TestRelay_LogsAlertAndAllClear(t *testing.T) {
	t.Parallel()

	var cleared atomic.Bool

	apiURL := startStatusServer(t, &cleared)
	dir := t.TempDir()
	logFile := filepath.Join(dir, "buzzer_alert.log")

	cfgPath := filepath.Join(dir, "buzzer-relay.yaml")
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.PortName = filepath.Join(dir, "missing-port")
	cfg.PollInterval = 20 * time.Millisecond
	cfg.LogFile = logFile
	require.NoError(t, config.Save(cfgPath, cfg))

	// The one-shot check sees the same status the relay will.
	var out bytes.Buffer

	err := checker.Run(context.Background(), &checker.Options{ConfigPath: cfgPath, Out: &out})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Buzzer: active (ON), pending cases: 1")

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- relay.Run(runCtx, &relay.Options{ConfigPath: cfgPath, AllowMultiple: true})
	}()

	time.Sleep(100 * time.Millisecond)
	cleared.Store(true)
	time.Sleep(100 * time.Millisecond)
	cancel()

	err = <-done
	require.NoError(t, err)

	contents, err := os.ReadFile(logFile)
	require.NoError(t, err)

	log := string(contents)
	require.Equal(t, 1, strings.Count(log, "ALERT: 1 pending case(s) detected!"))
	require.Equal(t, 1, strings.Count(log, "Case 1: Device A1 at 12:00"))
	require.Equal(t, 1, strings.Count(log, "All clear. No pending cases."))
	require.Less(t, strings.Index(log, "ALERT:"), strings.Index(log, "All clear."))
	require.True(t, strings.HasSuffix(strings.TrimSpace(log), "Program terminated."))
}
