package tools

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Reads a YAML mapping of flag names to values. Scalars of any type are kept in their textual form.
func LoadConfigFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("config %s: option %q is not a scalar", path, key)
		}
		values[key] = node.Value
	}
	return values, nil
}

// Sets every flag named in values that was not given on the command line, under its name or its
// shorthand
func ApplyConfig(flagCommand *flag.FlagSet, values map[string]string) error {
	explicit := make(map[flag.Value]bool)
	flagCommand.Visit(func(f *flag.Flag) {
		explicit[f.Value] = true
	})

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		f := flagCommand.Lookup(key)
		if f == nil {
			return fmt.Errorf("unknown option %q", key)
		}
		if explicit[f.Value] {
			continue
		}
		if err := flagCommand.Set(key, values[key]); err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
	}
	return nil
}
