package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"sigs.k8s.io/yaml"
)

type loadOptions struct {
	overrides []Override
	logger    *log.Logger
}

// LoadOption configures Load and Parse.
type LoadOption func(*loadOptions)

// WithOverrides applies --set assignments after variable substitution.
func WithOverrides(overrides ...Override) LoadOption {
	return func(o *loadOptions) { o.overrides = append(o.overrides, overrides...) }
}

// WithLogger reports each pipeline stage at debug level.
func WithLogger(logger *log.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Save writes the manifest to a YAML file at the specified path.
func Save(manifest *Manifest, path string) error {
	if path == "" {
		path = DefaultManifestPath
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest to YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, ManifestFileMode); err != nil {
		return fmt.Errorf("failed to write manifest to %s: %w", path, err)
	}
	return nil
}

// Load reads the definition at path and runs it through Parse.
func Load(path string, options ...LoadOption) (*Manifest, error) {
	if path == "" {
		path = DefaultManifestPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data, append(slices.Clone(options), withFile(path))...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Exists reports whether a definition file is present at path.
func Exists(path string) bool {
	if path == "" {
		path = DefaultManifestPath
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func withFile(path string) LoadOption {
	return func(o *loadOptions) {
		if o.logger != nil {
			o.logger = o.logger.With("file", path)
		}
	}
}

// Parse turns YAML into a validated Manifest:
//  1. check apiVersion against the embedded schemas
//  2. substitute ${NAME} from the variables block and CCT_VAR_ variables
//  3. apply overrides, then schema defaults
//  4. validate against the schema, decode, and check steps and theme
func Parse(data []byte, options ...LoadOption) (*Manifest, error) {
	opts := &loadOptions{logger: log.New(io.Discard)}
	for _, option := range options {
		option(opts)
	}
	logger := opts.logger

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if raw == nil {
		return nil, errors.New("manifest is empty")
	}

	version, err := ValidateAPIVersion(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved schema version", "version", version)

	variables := definitionVariables(raw)
	for name := range variables {
		if err := ValidateVariableName(name); err != nil {
			return nil, err
		}
	}

	substituted, err := SubstituteVariables(data, variables)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := yaml.Unmarshal(substituted, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse substituted manifest YAML: %w", err)
	}

	if err := ApplyOverrides(obj, opts.overrides, version); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}
	if len(opts.overrides) > 0 {
		logger.Debug("Applied overrides", "count", len(opts.overrides))
	}

	if err := ApplyDefaults(obj, version); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := ValidateManifest(obj, version); err != nil {
		return nil, err
	}

	m, err := decodeManifest(obj)
	if err != nil {
		return nil, err
	}

	if err := ValidateSteps(m.Steps); err != nil {
		return nil, fmt.Errorf("invalid steps: %w", err)
	}
	if err := ValidateTheme(m.Theme); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	logger.Debug("Loaded manifest", "steps", len(m.Steps))
	return m, nil
}
