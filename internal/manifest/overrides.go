package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Override is one --set assignment: a dotted path into the definition and
// the raw value to store there. Numeric path elements index arrays.
type Override struct {
	Path  string
	Value string
}

// ParseOverride splits "path=value". The value may itself contain '='.
func ParseOverride(s string) (Override, error) {
	path, value, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return Override{}, fmt.Errorf("invalid override %q: expected path=value", s)
	}
	return Override{Path: path, Value: value}, nil
}

// ParseOverrides parses a list of "path=value" assignments.
func ParseOverrides(values []string) ([]Override, error) {
	overrides := make([]Override, 0, len(values))
	for _, v := range values {
		o, err := ParseOverride(v)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

// ApplyOverrides stores every override in obj. Values are converted to the
// type the schema of version declares at that path, so "steps.1.weight=3"
// stores an integer. An array index equal to the array length appends.
func ApplyOverrides(obj map[string]any, overrides []Override, version string) error {
	if len(overrides) == 0 {
		return nil
	}
	doc, err := rawSchema(version)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		tokens := strings.Split(o.Path, ".")
		value, err := convertOverride(o.Value, schemaTypeAt(doc, tokens))
		if err != nil {
			return fmt.Errorf("override %s: %w", o.Path, err)
		}
		if err := setPath(obj, tokens, value); err != nil {
			return fmt.Errorf("override %s: %w", o.Path, err)
		}
	}
	return nil
}

// schemaTypeAt returns the "type" declared for the path, or "" if unknown.
func schemaTypeAt(node map[string]any, tokens []string) string {
	for _, token := range tokens {
		var next any
		if _, err := strconv.Atoi(token); err == nil {
			next = node["items"]
		} else if properties, ok := node["properties"].(map[string]any); ok {
			next = properties[token]
		}
		if next == nil {
			// free-form maps such as variables
			next = node["additionalProperties"]
		}
		m, ok := next.(map[string]any)
		if !ok {
			return ""
		}
		node = m
	}
	t, _ := node["type"].(string)
	return t
}

func convertOverride(raw, schemaType string) (any, error) {
	switch schemaType {
	case "integer":
		return cast.ToIntE(strings.TrimSpace(raw))
	case "number":
		return cast.ToFloat64E(strings.TrimSpace(raw))
	case "boolean":
		return cast.ToBoolE(strings.TrimSpace(raw))
	default:
		return raw, nil
	}
}

// setPath walks obj along tokens, creating objects as needed, and stores value.
func setPath(obj map[string]any, tokens []string, value any) error {
	var current any = obj
	for i, token := range tokens {
		last := i == len(tokens)-1
		switch node := current.(type) {
		case map[string]any:
			if token == "" {
				return fmt.Errorf("empty path element")
			}
			if last {
				node[token] = value
				return nil
			}
			child, ok := node[token]
			if !ok || child == nil {
				child = newContainer(tokens[i+1])
				node[token] = child
			}
			if arr, ok := child.([]any); ok {
				// arrays may grow, so the parent keeps the returned slice
				grown, err := growArray(arr, tokens[i+1])
				if err != nil {
					return err
				}
				node[token] = grown
				child = grown
			}
			current = child
		case []any:
			index, _ := strconv.Atoi(token)
			if last {
				node[index] = value
				return nil
			}
			if node[index] == nil {
				node[index] = newContainer(tokens[i+1])
			}
			if _, ok := node[index].([]any); ok {
				return fmt.Errorf("nested arrays are not supported")
			}
			current = node[index]
		default:
			return fmt.Errorf("%s is not an object or array", strings.Join(tokens[:i], "."))
		}
	}
	return nil
}

func newContainer(nextToken string) any {
	if _, err := strconv.Atoi(nextToken); err == nil {
		return []any{}
	}
	return make(map[string]any)
}

// growArray checks that token indexes arr, appending an element when it
// equals the length.
func growArray(arr []any, token string) ([]any, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return nil, fmt.Errorf("%q is not an array index", token)
	}
	switch {
	case index < 0 || index > len(arr):
		return nil, fmt.Errorf("index %d out of range [0, %d]", index, len(arr))
	case index == len(arr):
		return append(arr, nil), nil
	default:
		return arr, nil
	}
}
