package check

import "time"

// Status represents the outcome of a check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Mode controls when a check runs relative to the others.
type Mode string

const (
	// ModeSequential checks run one at a time, in order, and abort the run on failure.
	ModeSequential Mode = "sequential"
	// ModeConcurrent checks start together after every sequential check has passed.
	ModeConcurrent Mode = "concurrent"
)

// Result holds the outcome of a single check.
type Result struct {
	Name     string        // e.g., "fmt", "tests"
	Mode     Mode          // sequential or concurrent
	Status   Status        // OK or FAIL
	Details  []string      // human-readable details
	Duration time.Duration // wall time of the command
	ExitCode int           // -1 when the process never exited normally
	Err      error         // underlying error for failures
}

// OK returns true if the check passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}
