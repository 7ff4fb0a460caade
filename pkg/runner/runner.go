// Package runner executes a check list: sequential checks one at a time,
// then every concurrent check at once, joined before the run completes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vertti/precheck/pkg/check"
	"github.com/vertti/precheck/pkg/checklist"
	"github.com/vertti/precheck/pkg/output"
	"github.com/vertti/precheck/pkg/process"
)

// SuccessMessage is printed when a run completes without a gating failure.
const SuccessMessage = "All checks passed! 🎉"

var (
	// ErrSequentialFailed is returned when a sequential check fails. No later
	// check is started.
	ErrSequentialFailed = errors.New("sequential check failed")
	// ErrConcurrentFailed is returned for concurrent failures in strict mode only.
	ErrConcurrentFailed = errors.New("concurrent check failed")
)

// Runner executes check lists.
type Runner struct {
	Exec   process.Runner
	Out    *output.Printer
	Logger *slog.Logger
	Env    []string // base environment for children; nil inherits

	// Strict makes concurrent failures fail the run. By default they are
	// reported but do not affect the result.
	Strict bool
	// Jobs caps how many concurrent checks run at once; 0 means no cap.
	Jobs int
}

// Report collects the results of one run. Sequential results come first in
// list order, concurrent results follow in completion order.
type Report struct {
	Results          []check.Result
	ConcurrentFailed []string
}

// Run executes l. It returns an error wrapping ErrSequentialFailed when a
// sequential check fails, the context error when interrupted, and
// ErrConcurrentFailed when Strict is set and a concurrent check fails.
func (r *Runner) Run(ctx context.Context, l checklist.List) (Report, error) {
	log := r.logger()
	var report Report

	for _, c := range l.Sequential {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.runOne(ctx, c)
		report.Results = append(report.Results, res)
		r.Out.PrintResult(res)

		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !res.OK() {
			log.Debug("stopping after sequential failure", "check", c.Name)
			return report, fmt.Errorf("%w: %s", ErrSequentialFailed, c.Name)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if r.Jobs > 0 {
		g.SetLimit(r.Jobs)
	}
	log.Debug("starting concurrent checks", "count", len(l.Concurrent), "jobs", r.Jobs)
	for _, c := range l.Concurrent {
		g.Go(func() error {
			res := r.runOne(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			r.Out.PrintResult(res)
			report.Results = append(report.Results, res)
			if !res.OK() {
				report.ConcurrentFailed = append(report.ConcurrentFailed, c.Name)
			}
			// Never return an error: one failure must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if n := len(report.ConcurrentFailed); n > 0 {
		if r.Strict {
			return report, fmt.Errorf("%w: %s", ErrConcurrentFailed, strings.Join(report.ConcurrentFailed, ", "))
		}
		log.Warn("concurrent checks failed; exit status unaffected", "failed", report.ConcurrentFailed)
		r.Out.PrintWarning(fmt.Sprintf("\n%d concurrent check(s) failed: %s (run with --strict to fail on these)",
			n, strings.Join(report.ConcurrentFailed, ", ")))
	}

	r.Out.PrintBanner(SuccessMessage)
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, c checklist.Check) check.Result {
	log := r.logger().With("check", c.Name, "mode", string(c.Mode))
	log.Debug("starting check", "command", c.Command(), "dir", c.Dir)

	res := check.Result{Name: c.Name, Mode: c.Mode, ExitCode: -1}
	cmd, err := process.FromCheck(c, r.Env)
	if err != nil {
		log.Debug("check not runnable", "error", err)
		return res.Failf(err, "error: %v", err)
	}

	out := r.Exec.Run(ctx, cmd)
	res.Duration = out.Duration
	res.ExitCode = out.ExitCode
	if out.OK() {
		res.Status = check.StatusOK
		log.Debug("check passed", "duration", out.Duration)
		return res
	}

	switch {
	case out.TimedOut:
		res.Failf(out.Err, "timeout: %s", c.Timeout)
	case out.ExitCode >= 0:
		res.Failf(out.Err, "exit: %d", out.ExitCode)
	default:
		res.Failf(out.Err, "error: %v", out.Err)
	}
	for _, line := range out.Tail {
		res.AddDetailf("│ %s", line)
	}
	log.Debug("check failed", "duration", out.Duration, "exit_code", out.ExitCode, "error", out.Err)
	return res
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
