package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileLookup reads a flat TOML document whose keys mirror the environment variable names
// in any case, e.g. `sweep_interval = "5s"` or `retry_count = 3`.
func fileLookup(path string) (envLookup, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case map[string]any, []any, []map[string]any:
			return nil, fmt.Errorf("config file key %q must be a scalar", key)
		default:
			values[strings.ToUpper(key)] = fmt.Sprint(v)
		}
	}

	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}, nil
}
