package process

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads KEY=VALUE pairs from a dotenv file and returns them
// layered over the current environment. An empty path returns nil, meaning
// children inherit the environment unchanged.
func LoadEnvFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return MergeEnv(os.Environ(), vars), nil
}

// MergeEnv appends vars to base in key order. os/exec uses the last value
// for duplicate keys.
func MergeEnv(base []string, vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

func inheritEnv(env []string) []string {
	if env == nil {
		return os.Environ()
	}
	out := make([]string, len(env))
	copy(out, env)
	return out
}
