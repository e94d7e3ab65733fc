//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another relay process holds the serial port.
var ErrAlreadyRunning = errors.New("another instance is already running")

// EnsureSingleInstance fails with ErrAlreadyRunning when another process runs
// the same executable as the current one.
func EnsureSingleInstance() error {
	thisProcessID := os.Getpid()

	self, err := ps.FindProcess(thisProcessID)
	if err != nil {
		return fmt.Errorf("find current process: %w", err)
	}

	// Process listing is not available everywhere; do not block startup then.
	if self == nil {
		return nil
	}

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if other := findOtherInstance(processList, thisProcessID, self.Executable()); other != nil {
		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, other.Executable(), other.Pid())
	}

	return nil
}

// findOtherInstance returns the first process other than thisProcessID that runs executable.
//
//nolint:ireturn // ps.Process is the library's own interface.
func findOtherInstance(processList []ps.Process, thisProcessID int, executable string) ps.Process {
	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return process
		}
	}

	return nil
}
