// Package process runs check commands as child processes and hands off to a
// follow-up command once checks pass.
package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vertti/precheck/pkg/checklist"
)

// waitDelay bounds how long Wait blocks on output pipes after the child is killed.
const waitDelay = 2 * time.Second

// Command describes one child process.
type Command struct {
	Name    string   // program, or the full command line when Shell is set
	Args    []string // arguments, ignored when Shell is set
	Shell   bool
	Dir     string
	Env     []string // full environment; nil inherits the parent's
	Timeout time.Duration
}

// ErrNoCommand is returned by FromCheck for a check with neither run nor args.
var ErrNoCommand = errors.New("no command to run")

// FromCheck builds the Command for a check. env is the base environment the
// check's own Env entries are appended to; nil inherits the parent's.
func FromCheck(c checklist.Check, env []string) (Command, error) {
	cmd := Command{
		Dir:     c.Dir,
		Timeout: c.Timeout,
	}
	switch {
	case strings.TrimSpace(c.Run) != "":
		cmd.Name = c.Run
		cmd.Shell = true
	case len(c.Args) > 0 && strings.TrimSpace(c.Args[0]) != "":
		cmd.Name = c.Args[0]
		cmd.Args = c.Args[1:]
	default:
		return Command{}, fmt.Errorf("check %q: %w", c.Name, ErrNoCommand)
	}
	if len(c.Env) > 0 {
		cmd.Env = append(inheritEnv(env), c.Env...)
	} else {
		cmd.Env = env
	}
	return cmd, nil
}

func (c Command) argv() (string, []string) {
	if c.Shell {
		return shellArgv(c.Name)
	}
	return c.Name, c.Args
}

// Outcome is what a finished child process reports back.
type Outcome struct {
	ExitCode int           // -1 if the process did not exit normally
	Duration time.Duration
	TimedOut bool
	Tail     []string // last lines of combined output, when retained
	Err      error    // nil only for exit status 0
}

// OK reports whether the command exited with status 0.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner abstracts process execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd Command) Outcome
}

// RealRunner implements Runner using actual OS processes. Output is discarded
// unless TailLines is positive.
type RealRunner struct {
	TailLines int
}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run starts the command and waits for it to exit.
func (r *RealRunner) Run(ctx context.Context, c Command) Outcome {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	name, args := c.argv()
	cmd := exec.CommandContext(runCtx, name, args...) // #nosec G204 -- commands come from the user's own config
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	var tail *tailWriter
	if r.TailLines > 0 {
		tail = newTailWriter(r.TailLines)
		cmd.Stdout = tail
		cmd.Stderr = tail
	}
	configureProcess(cmd)

	start := time.Now()
	err := cmd.Run()
	out := Outcome{
		Duration: time.Since(start),
		ExitCode: exitCode(err),
	}
	if tail != nil {
		out.Tail = tail.Lines()
	}
	if err == nil {
		return out
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		out.TimedOut = true
		out.Err = fmt.Errorf("timed out after %s", c.Timeout)
		return out
	}
	out.Err = err
	return out
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
