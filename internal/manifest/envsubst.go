package manifest

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/fluxcd/pkg/envsubst"
)

// parseOSVariables parses the current OS environment variables.
func parseOSVariables() map[string]string {
	vars := make(map[string]string)
	for _, e := range os.Environ() {
		if key, val, ok := strings.Cut(e, "="); ok {
			vars[key] = val
		}
	}
	return vars
}

// filterVariables returns the variables carrying EnvVarPrefix, with the
// prefix stripped.
func filterVariables(vars map[string]string) map[string]string {
	prefixed := make(map[string]string)
	for key, value := range vars {
		if name, ok := strings.CutPrefix(key, EnvVarPrefix); ok && name != "" {
			prefixed[name] = value
		}
	}
	return prefixed
}

// SubstituteVariables replaces ${NAME} references in data.
// The variables are merged in the following order:
// 1. Variables from the definition's variables block (lowest priority)
// 2. OS environment variables prefixed with CCT_VAR_ (highest priority)
// Unknown names expand to the empty string, as ${NAME:-default} falls back.
func SubstituteVariables(data []byte, definition map[string]string) ([]byte, error) {
	variables := make(map[string]string)

	if err := mergo.Merge(&variables, definition); err != nil {
		return nil, fmt.Errorf("failed to merge definition variables: %w", err)
	}

	if err := mergo.Merge(&variables, filterVariables(parseOSVariables()), mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge OS environment variables: %w", err)
	}

	content, err := envsubst.Eval(string(data), func(s string) (string, bool) {
		v, ok := variables[s]
		return v, ok
	})
	if err != nil {
		return nil, fmt.Errorf("failed to substitute variables: %w", err)
	}

	return []byte(content), nil
}

// definitionVariables reads the variables block of a raw definition.
func definitionVariables(obj map[string]any) map[string]string {
	raw, ok := obj["variables"].(map[string]any)
	if !ok {
		return nil
	}
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		vars[k] = fmt.Sprint(v)
	}
	return vars
}
