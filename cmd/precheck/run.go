package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/precheck/pkg/checklist"
	"github.com/vertti/precheck/pkg/logging"
	"github.com/vertti/precheck/pkg/output"
	"github.com/vertti/precheck/pkg/process"
	"github.com/vertti/precheck/pkg/runlock"
	"github.com/vertti/precheck/pkg/runner"
)

// verboseTailLines is how much child output a failing check shows with --verbose.
const verboseTailLines = 20

var (
	configPath  string
	strict      bool
	jobs        int
	showSummary bool
	verbose     bool
	logFormat   string
	lockRun     bool
	noColor     bool
)

var (
	newExecRunner = func(tailLines int) process.Runner {
		return &process.RealRunner{TailLines: tailLines}
	}
	handoff process.Handoff = &process.RealHandoff{}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "path to check list (default: search up for "+checklist.FileName+", else built-in list)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging and output tail of failing checks")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().BoolVar(&strict, "strict", false, "fail the run when a concurrent check fails")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent checks at once (0: no limit)")
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "print a summary table after the run")
	rootCmd.Flags().BoolVar(&lockRun, "lock", false, "refuse to start while another run in this directory is active")
}

func runChecks(cmd *cobra.Command, args []string) error {
	handoffArgs, err := splitHandoffArgs(cmd, args)
	if err != nil {
		return err
	}
	if jobs < 0 {
		return fmt.Errorf("invalid --jobs %d: must not be negative", jobs)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	list, err := loadList(logger)
	if err != nil {
		return err
	}

	if lockRun {
		lock, err := acquireLock()
		if err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()
		logger.Debug("acquired run lock", "path", lock.Path())
	}

	env, err := process.LoadEnvFile(list.EnvFile)
	if err != nil {
		return err
	}

	tailLines := 0
	if verbose {
		tailLines = verboseTailLines
	}
	printer := newPrinter(cmd)
	r := &runner.Runner{
		Exec:   newExecRunner(tailLines),
		Out:    printer,
		Logger: logger,
		Env:    env,
		Strict: strict,
		Jobs:   jobs,
	}

	report, err := r.Run(cmd.Context(), list)
	if showSummary {
		printer.PrintSummary(report.Results)
	}
	if err != nil {
		return err
	}

	if len(handoffArgs) > 0 {
		logger.Debug("handing off", "command", handoffArgs[0])
		return handoff.Exec(handoffArgs[0], handoffArgs[1:])
	}
	return nil
}

// splitHandoffArgs returns the arguments after "--". Anything before it is
// rejected: precheck itself takes no positional arguments.
func splitHandoffArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	switch {
	case dash < 0 && len(args) > 0:
		return nil, fmt.Errorf("unexpected arguments %v (use -- to run a command after checks pass)", args)
	case dash > 0:
		return nil, fmt.Errorf("unexpected arguments %v before --", args[:dash])
	case dash == 0:
		return args, nil
	}
	return nil, nil
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: logFormat,
		Writer: cmd.ErrOrStderr(),
	})
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	palette := output.DetectPalette()
	if noColor {
		palette = output.PlainPalette
	}
	return output.NewPrinter(cmd.OutOrStdout(), palette)
}

func loadList(logger *slog.Logger) (checklist.List, error) {
	wd, err := os.Getwd()
	if err != nil {
		return checklist.List{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := checklist.FindFile(wd, configPath)
	if errors.Is(err, checklist.ErrNotFound) {
		logger.Debug("no config file found; using built-in checks")
		return checklist.Default(), nil
	}
	if err != nil {
		return checklist.List{}, err
	}

	logger.Debug("loading checks", "path", path)
	return checklist.Load(path)
}

func acquireLock() (*runlock.Lock, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := runlock.PathFor(wd)
	if err != nil {
		return nil, err
	}
	return runlock.Acquire(path)
}
