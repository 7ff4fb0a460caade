package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertti/precheck/pkg/runner"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	var file string
	os.Args, file = transformArgsForHashbang(os.Args, realFileChecker)
	if file != "" {
		configPath = file
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "precheck [-- command [args...]]",
	Short: "Run a project's checks: sequential gates first, then the rest in parallel",
	Long: `Precheck runs the checks listed in .precheck.toml (or a built-in default list).

Sequential checks run one at a time in order; the first failure stops the run
with exit status 1. Concurrent checks then start together and are joined
before the run completes. Arguments after "--" name a command to exec into
once the run passes.`,
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChecks,
}

// reported returns true for errors whose cause was already printed as a
// [FAIL] line.
func reported(err error) bool {
	return errors.Is(err, runner.ErrSequentialFailed) || errors.Is(err, runner.ErrConcurrentFailed)
}

// fileChecker returns true if path is an existing regular file.
type fileChecker func(path string) bool

func realFileChecker(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// transformArgsForHashbang lets a check list be run directly, either as
// `precheck checks.toml` or through a `#!/usr/bin/env precheck` line, which
// TOML treats as a comment.
func transformArgsForHashbang(args []string, isFile fileChecker) ([]string, string) {
	if len(args) < 2 {
		return args, ""
	}
	first := args[1]
	if first == "" || first[0] == '-' {
		return args, ""
	}
	for _, sub := range []string{"list", "init", "version", "help", "completion"} {
		if first == sub {
			return args, ""
		}
	}
	if !isFile(first) {
		return args, ""
	}
	return append([]string{args[0]}, args[2:]...), first
}
