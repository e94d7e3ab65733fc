//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// testProcess is a minimal ps.Process implementation for tests.
type testProcess struct {
	pid        int
	executable string
}

func (p testProcess) Pid() int           { return p.pid }
func (p testProcess) PPid() int          { return 1 }
func (p testProcess) Executable() string { return p.executable }

// TestFindOtherInstance skips the current process and matches by executable name.
func TestFindOtherInstance(t *testing.T) {
	t.Parallel()

	processList := []ps.Process{
		testProcess{pid: 10, executable: "buzzer-relay"},
		testProcess{pid: 11, executable: "bash"},
	}

	require.Nil(t, findOtherInstance(processList, 10, "buzzer-relay"))

	processList = append(processList, testProcess{pid: 12, executable: "buzzer-relay"})

	other := findOtherInstance(processList, 10, "buzzer-relay")
	require.NotNil(t, other)
	require.Equal(t, 12, other.Pid())
}

// TestEnsureSingleInstance passes when the test binary is the only copy running.
func TestEnsureSingleInstance(t *testing.T) {
	t.Parallel()

	require.NoError(t, EnsureSingleInstance())
}
