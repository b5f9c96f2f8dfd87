package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/concatenator-dev/concatenator/internal/manifest/schema"
)

// fieldValidators holds compiled regex patterns extracted from the JSON schema
type fieldValidators struct {
	stepKeyPattern      *regexp.Regexp
	variableNamePattern *regexp.Regexp
	colorPattern        *regexp.Regexp
	durationPattern     *regexp.Regexp
}

var (
	validators    *fieldValidators
	validatorsErr error
	once          sync.Once
)

// initValidators extracts regex patterns from the JSON schema and compiles them
func initValidators() error {
	schemaBytes, err := schema.GetLatestManifestSchema()
	if err != nil {
		return fmt.Errorf("failed to get latest manifest schema: %w", err)
	}

	var schemaData map[string]any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return fmt.Errorf("failed to parse manifest schema: %w", err)
	}

	patterns := map[string][]string{
		"step key":      {"properties", "steps", "items", "properties", "key", "pattern"},
		"variable name": {"properties", "variables", "propertyNames", "pattern"},
		"colour":        {"properties", "theme", "properties", "bold", "pattern"},
		"duration":      {"properties", "layout", "properties", "timerInterval", "pattern"},
	}
	compiled := make(map[string]*regexp.Regexp, len(patterns))
	for name, path := range patterns {
		pattern, err := extractPattern(schemaData, path)
		if err != nil {
			return fmt.Errorf("failed to extract %s pattern: %w", name, err)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", name, pattern, err)
		}
		compiled[name] = re
	}

	validators = &fieldValidators{
		stepKeyPattern:      compiled["step key"],
		variableNamePattern: compiled["variable name"],
		colorPattern:        compiled["colour"],
		durationPattern:     compiled["duration"],
	}
	return nil
}

// extractPattern navigates through nested map structure to extract a pattern string
func extractPattern(data map[string]any, path []string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("empty path provided")
	}

	current := data
	for i, key := range path {
		value, exists := current[key]
		if !exists {
			return "", fmt.Errorf("key '%s' not found at path %v", key, path[:i+1])
		}

		if i == len(path)-1 {
			pattern, ok := value.(string)
			if !ok {
				return "", fmt.Errorf("pattern at path %v is not a string", path)
			}
			return pattern, nil
		}

		next, ok := value.(map[string]any)
		if !ok {
			return "", fmt.Errorf("value at path %v is not a map", path[:i+1])
		}
		current = next
	}
	return "", fmt.Errorf("empty path provided")
}

// getValidators ensures validators are initialized and returns them
func getValidators() (*fieldValidators, error) {
	once.Do(func() {
		validatorsErr = initValidators()
	})
	if validatorsErr != nil {
		return nil, fmt.Errorf("failed to initialize validators: %w", validatorsErr)
	}
	return validators, nil
}

// ValidateStepKey validates a step key against the JSON schema pattern
func ValidateStepKey(key string) error {
	if key == "" {
		return fmt.Errorf("step key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("step key '%s' is too long: at most %d characters", key, MaxKeyLength)
	}

	v, err := getValidators()
	if err != nil {
		return err
	}
	if !v.stepKeyPattern.MatchString(key) {
		return fmt.Errorf("step key '%s' is invalid: must be lowercase alphanumeric characters or dashes (-) separated and cannot start or end with a dash (-)", key)
	}
	return nil
}

// ValidateLabel validates the text shown above a step.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("step label cannot be empty")
	}
	if n := utf8.RuneCountInString(label); n > MaxLabelLength {
		return fmt.Errorf("step label '%s' is too long: %d characters, at most %d", label, n, MaxLabelLength)
	}
	return nil
}

// ValidateVariableName validates a variable name against the JSON schema pattern
func ValidateVariableName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}

	v, err := getValidators()
	if err != nil {
		return err
	}
	if !v.variableNamePattern.MatchString(name) {
		return fmt.Errorf("variable name '%s' is invalid: must be uppercase letters, numbers, and underscores only", name)
	}
	return nil
}

// ValidateColor validates a #rrggbb colour.
func ValidateColor(value string) error {
	if value == "" {
		return fmt.Errorf("colour cannot be empty")
	}

	v, err := getValidators()
	if err != nil {
		return err
	}
	if !v.colorPattern.MatchString(value) {
		return fmt.Errorf("colour '%s' is invalid: must be of the form #rrggbb", value)
	}
	return nil
}

// ValidateDuration validates a duration such as "10ms" or "1.5s".
func ValidateDuration(value string) error {
	v, err := getValidators()
	if err != nil {
		return err
	}
	if !v.durationPattern.MatchString(value) {
		return fmt.Errorf("duration '%s' is invalid: must be a number followed by ns, us, ms, s or m", value)
	}
	if _, err := cast.ToDurationE(value); err != nil {
		return fmt.Errorf("duration '%s' is invalid: %w", value, err)
	}
	return nil
}

// ValidateWeight validates a weight typed as text, as entered in a form.
func ValidateWeight(weightStr string) error {
	if weightStr == "" {
		return fmt.Errorf("weight cannot be empty")
	}
	weight, err := strconv.Atoi(weightStr)
	if err != nil {
		return fmt.Errorf("weight '%s' is invalid: must be a whole number", weightStr)
	}
	if weight < 0 {
		return fmt.Errorf("weight %d is invalid: must not be negative", weight)
	}
	return nil
}
