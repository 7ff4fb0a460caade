package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vertti/precheck/pkg/process"
)

// MockRunner is a test double for process.Runner.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(ctx context.Context, cmd process.Command) process.Outcome
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	return m.LookPathFunc(file)
}

// Run calls the mock function.
func (m *MockRunner) Run(ctx context.Context, cmd process.Command) process.Outcome {
	return m.RunFunc(ctx, cmd)
}

// ScriptRunner returns a fixed exit code per command name and records every
// invocation. Unknown commands exit 0. It is safe for concurrent use.
type ScriptRunner struct {
	ExitCodes map[string]int
	Delays    map[string]time.Duration
	Found     map[string]bool // LookPath results; missing entries are not found

	mu    sync.Mutex
	calls []string
}

// LookPath reports the executable as found when Found[file] is true.
func (s *ScriptRunner) LookPath(file string) (string, error) {
	if s.Found[file] {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}

// Run records the call and returns the scripted outcome.
func (s *ScriptRunner) Run(ctx context.Context, cmd process.Command) process.Outcome {
	s.mu.Lock()
	s.calls = append(s.calls, cmd.Name)
	s.mu.Unlock()

	if d := s.Delays[cmd.Name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return process.Outcome{ExitCode: -1, Duration: d, Err: ctx.Err()}
		}
	}

	code := s.ExitCodes[cmd.Name]
	if code == 0 {
		return process.Outcome{Duration: time.Millisecond}
	}
	return process.Outcome{
		ExitCode: code,
		Duration: time.Millisecond,
		Err:      errors.New("exit status " + fmt.Sprint(code)),
	}
}

// Calls returns the command names run so far, in start order.
func (s *ScriptRunner) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
