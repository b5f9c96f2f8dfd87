package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/concatenator-dev/concatenator/internal/manifest"
)

// ValidatePositiveInteger ensures a string is a positive integer
func ValidatePositiveInteger(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	val, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s '%s' is invalid: must be a positive integer", fieldName, value)
	}
	if val < 1 {
		return fmt.Errorf("%s %d is invalid: must be a positive integer", fieldName, val)
	}
	return nil
}

// ValidateNonEmpty ensures a string is not empty or whitespace-only
func ValidateNonEmpty(value string, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty or contain only whitespace", fieldName)
	}
	return nil
}

// ValidateOptionalColor accepts an empty value or a #rrggbb colour.
func ValidateOptionalColor(value string) error {
	if value == "" {
		return nil
	}
	return manifest.ValidateColor(value)
}

// ParseStepLines parses one step per line in the form "Label" or
// "Label:weight". Blank lines are skipped. Keys are derived from the labels
// and made unique with a numeric suffix.
func ParseStepLines(text string) ([]manifest.Step, error) {
	var (
		steps []manifest.Step
		errs  []error
	)
	used := make(map[string]bool)

	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		label, weight, err := splitWeight(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n+1, err))
			continue
		}
		if err := manifest.ValidateLabel(label); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n+1, err))
			continue
		}

		step := manifest.Step{Key: uniqueKey(Slugify(label), used), Label: label}
		if weight != nil {
			step.Weight = weight
		}
		steps = append(steps, step)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("at least one step is required")
	}
	return steps, nil
}

// ValidateStepLines is ParseStepLines shaped as a form validator.
func ValidateStepLines(text string) error {
	_, err := ParseStepLines(text)
	return err
}

// splitWeight separates a trailing ":weight" from a line. A suffix that is
// not a number is part of the label.
func splitWeight(line string) (string, *int, error) {
	i := strings.LastIndex(line, ":")
	if i < 0 {
		return line, nil, nil
	}
	suffix := strings.TrimSpace(line[i+1:])
	if _, err := strconv.Atoi(suffix); err != nil {
		return line, nil, nil
	}
	if err := manifest.ValidateWeight(suffix); err != nil {
		return "", nil, err
	}
	weight, _ := strconv.Atoi(suffix)
	return strings.TrimSpace(line[:i]), &weight, nil
}

// Slugify turns a label into a step key: lowercase ASCII letters and digits
// separated by single dashes.
func Slugify(label string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	key := sb.String()
	if len(key) > manifest.MaxKeyLength {
		key = strings.TrimRight(key[:manifest.MaxKeyLength], "-")
	}
	if key == "" {
		key = "step"
	}
	return key
}

func uniqueKey(key string, used map[string]bool) string {
	candidate := key
	for n := 2; used[candidate]; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate = strings.TrimRight(key[:min(len(key), manifest.MaxKeyLength-len(suffix))], "-") + suffix
	}
	used[candidate] = true
	return candidate
}
