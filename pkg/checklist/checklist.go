// Package checklist defines the checks precheck runs and loads them from
// TOML configuration.
package checklist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vertti/precheck/pkg/check"
)

// Check is a single named command.
type Check struct {
	Name    string
	Mode    check.Mode
	Run     string        // shell command line, executed with sh -c
	Args    []string      // argument vector, executed directly
	Dir     string        // working directory (default: current directory)
	Env     []string      // extra KEY=value pairs
	Timeout time.Duration // zero means no timeout
}

// Command returns the check's command as a single display string.
func (c Check) Command() string {
	if c.Run != "" {
		return c.Run
	}
	return strings.Join(c.Args, " ")
}

// Executable returns the program the check starts, best effort for shell
// lines. Leading NAME=value assignments are skipped.
func (c Check) Executable() string {
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	for _, f := range strings.Fields(c.Run) {
		if !isAssignment(f) {
			return f
		}
	}
	return ""
}

func isAssignment(field string) bool {
	name, _, ok := strings.Cut(field, "=")
	if !ok || name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// List is the full set of checks for one run.
type List struct {
	Sequential []Check
	Concurrent []Check
	EnvFile    string // optional dotenv file applied to every check
	Source     string // config path, or "" for the built-in list
}

// All returns every check, sequential checks first.
func (l List) All() []Check {
	all := make([]Check, 0, len(l.Sequential)+len(l.Concurrent))
	all = append(all, l.Sequential...)
	return append(all, l.Concurrent...)
}

// ErrEmpty is returned by Validate when a list has no checks at all.
var ErrEmpty = errors.New("no checks defined")

// Validate reports the first structural problem in the list.
func (l List) Validate() error {
	all := l.All()
	if len(all) == 0 {
		return ErrEmpty
	}

	seen := make(map[string]bool, len(all))
	for i, c := range all {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("check %d: name is required", i+1)
		}
		if seen[name] {
			return fmt.Errorf("check %q: duplicate name", name)
		}
		seen[name] = true

		if _, err := check.ParseMode(string(c.Mode)); err != nil {
			return fmt.Errorf("check %q: %w", name, err)
		}

		hasRun := strings.TrimSpace(c.Run) != ""
		hasArgs := len(c.Args) > 0
		switch {
		case hasRun && hasArgs:
			return fmt.Errorf("check %q: only one of run, args can be specified", name)
		case !hasRun && !hasArgs:
			return fmt.Errorf("check %q: one of run, args is required", name)
		case hasArgs && strings.TrimSpace(c.Args[0]) == "":
			return fmt.Errorf("check %q: args[0] must name a program", name)
		}

		if c.Timeout < 0 {
			return fmt.Errorf("check %q: timeout must not be negative", name)
		}
		for _, kv := range c.Env {
			if !strings.Contains(kv, "=") {
				return fmt.Errorf("check %q: env entry %q is not KEY=value", name, kv)
			}
		}
	}
	return nil
}
