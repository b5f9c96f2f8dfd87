package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/concatenator-dev/concatenator/internal/manifest/schema"
)

var (
	compiledSchemas   = make(map[string]*jsonschema.Schema)
	compiledSchemasMu sync.Mutex
)

// compileSchema compiles the schema of the given version once and caches it.
func compileSchema(version string, schemaType schema.SchemaType) (*jsonschema.Schema, error) {
	compiledSchemasMu.Lock()
	defer compiledSchemasMu.Unlock()

	cacheKey := version + "-" + schemaType.String()
	if compiled, ok := compiledSchemas[cacheKey]; ok {
		return compiled, nil
	}

	schemaBytes, err := schema.GetManifestSchema(version)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s schema version %q: %w", schemaType, version, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()

	schemaID := filepath.ToSlash(filepath.Join(version, schemaType.String()+".json"))
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("invalid %s schema JSON for version %q: %w", schemaType, version, err)
	}
	if err := compiler.AddResource(schemaID, doc); err != nil {
		return nil, fmt.Errorf("failed to load %s schema version %q: %w", schemaType, version, err)
	}

	compiled, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema version %q: %w", schemaType, version, err)
	}
	compiledSchemas[cacheKey] = compiled
	return compiled, nil
}

// ValidateManifest validates a decoded definition against the schema of the
// given version. Unknown fields are rejected.
func ValidateManifest(manifestObj map[string]any, version string) error {
	compiled, err := compileSchema(version, schema.SchemaTypeManifest)
	if err != nil {
		return err
	}
	if err := compiled.Validate(manifestObj); err != nil {
		return fmt.Errorf("%s validation failed for schema version %q: %w", schema.SchemaTypeManifest, version, err)
	}
	return nil
}

// ValidateAPIVersion checks the definition's apiVersion field for presence, type, and validity.
// Returns the apiVersion string if valid, or an error otherwise.
func ValidateAPIVersion(manifestObj map[string]any) (string, error) {
	validVersions, err := schema.GetValidManifestVersions()
	if err != nil {
		return "", fmt.Errorf("failed to get valid manifest versions: %w", err)
	}

	apiVersionVal, ok := manifestObj["apiVersion"]
	if !ok {
		return "", fmt.Errorf("manifest is missing 'apiVersion' field")
	}

	apiVersionStr, ok := apiVersionVal.(string)
	if !ok || apiVersionStr == "" {
		return "", fmt.Errorf("'apiVersion' field must be a non-empty string")
	}

	if !slices.Contains(validVersions, apiVersionStr) {
		return "", fmt.Errorf("unsupported manifest schema version: %s (valid: %v)", apiVersionStr, validVersions)
	}

	return apiVersionStr, nil
}

// ValidateSteps runs the checks the schema cannot express: keys must be
// unique, and every step key and label must pass the field validators.
func ValidateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	var errs []error
	seen := make(map[string]int, len(steps))
	for i, step := range steps {
		if err := ValidateLabel(step.Label); err != nil {
			errs = append(errs, fmt.Errorf("steps[%d]: %w", i, err))
		}
		if step.Weight != nil && *step.Weight < 0 {
			errs = append(errs, fmt.Errorf("steps[%d]: weight %d is negative", i, *step.Weight))
		}
		if step.Key == "" {
			continue
		}
		if err := ValidateStepKey(step.Key); err != nil {
			errs = append(errs, fmt.Errorf("steps[%d]: %w", i, err))
			continue
		}
		if first, dup := seen[step.Key]; dup {
			errs = append(errs, fmt.Errorf("steps[%d]: key %q already used by steps[%d]", i, step.Key, first))
			continue
		}
		seen[step.Key] = i
	}
	return errors.Join(errs...)
}

// ValidateTheme checks that every colour of the theme parses.
func ValidateTheme(theme Theme) error {
	var errs []error
	for name, value := range map[string]string{
		"bold":       theme.Bold,
		"base":       theme.Base,
		"alert":      theme.Alert,
		"background": theme.Background,
	} {
		if value == "" {
			continue
		}
		if err := ValidateColor(value); err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %w", name, err))
		}
	}
	if theme.Weak != "" {
		if err := ValidateColor(theme.Weak); err != nil {
			errs = append(errs, fmt.Errorf("theme.weak: %w", err))
		}
	}
	return errors.Join(errs...)
}
