package checklist

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vertti/precheck/pkg/check"
)

//go:embed default.toml
var defaultConfig string

type fileConfig struct {
	EnvFile    string      `toml:"env_file"`
	Sequential []fileCheck `toml:"sequential"`
	Concurrent []fileCheck `toml:"concurrent"`
}

type fileCheck struct {
	Name    string   `toml:"name"`
	Run     string   `toml:"run"`
	Args    []string `toml:"args"`
	Dir     string   `toml:"dir"`
	Env     []string `toml:"env"`
	Timeout string   `toml:"timeout"`
}

// Default returns the built-in check list.
func Default() List {
	l, err := Parse(strings.NewReader(defaultConfig))
	if err != nil {
		panic(fmt.Sprintf("checklist: built-in config is invalid: %v", err))
	}
	return l
}

// Sample returns the annotated built-in config, suitable for writing to disk.
func Sample() string {
	return defaultConfig
}

// Load reads a check list from a TOML file. Relative dir and env_file values
// are resolved against the file's directory.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user config
	if err != nil {
		return List{}, fmt.Errorf("failed to read config: %w", err)
	}

	l, err := Parse(bytes.NewReader(data))
	if err != nil {
		return List{}, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	l.Source = path
	l.EnvFile = resolve(base, l.EnvFile)
	for i := range l.Sequential {
		l.Sequential[i].Dir = resolve(base, l.Sequential[i].Dir)
	}
	for i := range l.Concurrent {
		l.Concurrent[i].Dir = resolve(base, l.Concurrent[i].Dir)
	}
	return l, nil
}

// Parse decodes and validates a TOML check list. Unknown keys are rejected.
func Parse(r io.Reader) (List, error) {
	var raw fileConfig
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return List{}, fmt.Errorf("unknown config keys: %s", strictErr.String())
		}
		return List{}, fmt.Errorf("parse config: %w", err)
	}

	l := List{EnvFile: strings.TrimSpace(raw.EnvFile)}
	var err error
	if l.Sequential, err = convert(raw.Sequential, check.ModeSequential); err != nil {
		return List{}, err
	}
	if l.Concurrent, err = convert(raw.Concurrent, check.ModeConcurrent); err != nil {
		return List{}, err
	}
	if err := l.Validate(); err != nil {
		return List{}, err
	}
	return l, nil
}

func convert(raw []fileCheck, mode check.Mode) ([]Check, error) {
	checks := make([]Check, 0, len(raw))
	for _, fc := range raw {
		c := Check{
			Name: strings.TrimSpace(fc.Name),
			Mode: mode,
			Run:  strings.TrimSpace(fc.Run),
			Args: fc.Args,
			Dir:  strings.TrimSpace(fc.Dir),
			Env:  fc.Env,
		}
		if t := strings.TrimSpace(fc.Timeout); t != "" {
			d, err := time.ParseDuration(t)
			if err != nil {
				return nil, fmt.Errorf("check %q: parse timeout: %w", c.Name, err)
			}
			c.Timeout = d
		}
		checks = append(checks, c)
	}
	return checks, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
