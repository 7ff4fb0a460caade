//go:build windows

package process

import "errors"

// ErrHandoffNotSupported indicates handoff is not available on Windows.
var ErrHandoffNotSupported = errors.New("handoff not supported on Windows; run the command after precheck instead")

// Exec is not supported on Windows, which has no exec syscall that replaces
// the current process.
func (h *RealHandoff) Exec(name string, args []string) error {
	return ErrHandoffNotSupported
}
