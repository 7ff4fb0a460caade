//go:build unix

package process

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// execFunc is swapped out in tests.
var execFunc = unix.Exec

// Exec resolves name in PATH and replaces the current process with it.
func (h *RealHandoff) Exec(name string, args []string) error {
	binary, err := exec.LookPath(name)
	if err != nil {
		return err
	}

	// argv[0] must be the program name by convention.
	argv := append([]string{name}, args...)
	// #nosec G204 -- the command comes from CLI args under the user's control.
	return execFunc(binary, argv, os.Environ())
}
