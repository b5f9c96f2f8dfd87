package manifest

// Default value application.
//
// Defaults live in the JSON schema. Loaded definitions get them at the map
// level with ApplyDefaults, before decoding, so that an explicit zero is kept.
// Definitions built in code get them with FillManifestWithDefaults, which
// merges a Manifest of defaults with mergo and treats zero fields as unset.
//
//	defaults, err := GetDefaultValues("v1-alpha.1")
//	// defaults["theme.bold"] = "#1e1e1e"
//	// defaults["steps.[0].weight"] = 1

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"
	"k8s.io/utils/ptr"

	"github.com/concatenator-dev/concatenator/internal/manifest/schema"
)

// DefaultValues maps dot-notation paths to the defaults declared in the
// schema. Array items are addressed with arrayItemIndexTemplate.
type DefaultValues map[string]any

// arrayItemIndexTemplate stands for any item of an array in a DefaultValues path.
const arrayItemIndexTemplate = "[0]"

var (
	// rawSchemaCache stores parsed schema documents by version
	rawSchemaCache = make(map[string]map[string]any)
	rawSchemaMu    sync.RWMutex
)

// rawSchema returns the parsed schema document of a version.
func rawSchema(version string) (map[string]any, error) {
	rawSchemaMu.RLock()
	cached, ok := rawSchemaCache[version]
	rawSchemaMu.RUnlock()
	if ok {
		return cached, nil
	}

	schemaBytes, err := schema.GetManifestSchema(version)
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest schema version %q: %w", version, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(schemaBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest schema JSON for version %q: %w", version, err)
	}

	rawSchemaMu.Lock()
	rawSchemaCache[version] = doc
	rawSchemaMu.Unlock()
	return doc, nil
}

// ClearSchemaCache drops every cached schema document.
func ClearSchemaCache() {
	rawSchemaMu.Lock()
	rawSchemaCache = make(map[string]map[string]any)
	rawSchemaMu.Unlock()

	compiledSchemasMu.Lock()
	compiledSchemas = make(map[string]*jsonschema.Schema)
	compiledSchemasMu.Unlock()
}

// extractDefaults walks "properties" and "items" and records every "default".
func extractDefaults(node any, path string, defaults DefaultValues) {
	schemaMap, ok := node.(map[string]any)
	if !ok {
		return
	}

	if defaultVal, exists := schemaMap["default"]; exists {
		defaults[path] = defaultVal
	}

	if properties, ok := schemaMap["properties"].(map[string]any); ok {
		for name, propSchema := range properties {
			extractDefaults(propSchema, joinPath(path, name), defaults)
		}
	}

	if items, ok := schemaMap["items"]; ok {
		extractDefaults(items, joinPath(path, arrayItemIndexTemplate), defaults)
	}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// GetDefaultValues extracts all default values from the schema of a version.
func GetDefaultValues(version string) (DefaultValues, error) {
	doc, err := rawSchema(version)
	if err != nil {
		return nil, err
	}
	defaults := make(DefaultValues)
	extractDefaults(doc, "", defaults)
	return defaults, nil
}

// defaultsObject expands the object defaults into a nested map. Shallow
// paths are set first so that "theme" = {} never hides "theme.bold".
func defaultsObject(defaults DefaultValues) map[string]any {
	paths := slices.SortedFunc(maps.Keys(defaults), func(a, b string) int {
		if c := cmp.Compare(strings.Count(a, "."), strings.Count(b, ".")); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	obj := make(map[string]any)
	for _, path := range paths {
		if path == "" || strings.Contains(path, arrayItemIndexTemplate) {
			continue
		}
		setDefault(obj, strings.Split(path, "."), defaults[path])
	}
	return obj
}

func setDefault(obj map[string]any, tokens []string, value any) {
	for _, token := range tokens[:len(tokens)-1] {
		next, ok := obj[token].(map[string]any)
		if !ok {
			next = make(map[string]any)
			obj[token] = next
		}
		obj = next
	}
	leaf := tokens[len(tokens)-1]
	if _, isMap := obj[leaf].(map[string]any); isMap {
		return
	}
	if m, ok := value.(map[string]any); ok {
		value = maps.Clone(m)
	}
	obj[leaf] = value
}

// ApplyDefaults adds the schema defaults of version to every object of obj
// that lacks them, descending into nested objects and array items.
func ApplyDefaults(obj map[string]any, version string) error {
	doc, err := rawSchema(version)
	if err != nil {
		return err
	}
	applySchemaDefaults(doc, obj)
	return nil
}

func applySchemaDefaults(node map[string]any, value map[string]any) {
	properties, _ := node["properties"].(map[string]any)
	for name, raw := range properties {
		propSchema, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		current, exists := value[name]
		if !exists {
			if d, ok := propSchema["default"]; ok {
				current = copyJSONValue(d)
				value[name] = current
			}
		}
		switch c := current.(type) {
		case map[string]any:
			applySchemaDefaults(propSchema, c)
		case []any:
			items, ok := propSchema["items"].(map[string]any)
			if !ok {
				continue
			}
			for _, item := range c {
				if m, ok := item.(map[string]any); ok {
					applySchemaDefaults(items, m)
				}
			}
		}
	}
}

func copyJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyJSONValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyJSONValue(e)
		}
		return out
	default:
		return v
	}
}

// decodeManifest converts a generic map into a Manifest. Field names follow
// the json tags and scalars are converted weakly, so "3" decodes into an int.
func decodeManifest(obj map[string]any) (*Manifest, error) {
	var m Manifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(obj); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// defaultManifest builds a Manifest holding only the schema defaults.
func defaultManifest(version string) (*Manifest, DefaultValues, error) {
	defaults, err := GetDefaultValues(version)
	if err != nil {
		return nil, nil, err
	}
	m, err := decodeManifest(defaultsObject(defaults))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid defaults in schema version %q: %w", version, err)
	}
	return m, defaults, nil
}

// FillManifestWithDefaults fills every zero field of manifest with the
// schema default of the given version. Steps without a weight get the
// default item weight.
func FillManifestWithDefaults(manifest *Manifest, version string) error {
	if manifest == nil {
		return fmt.Errorf("manifest cannot be nil")
	}

	defaults, values, err := defaultManifest(version)
	if err != nil {
		return err
	}
	// steps are never defaulted as a whole
	defaults.Steps = nil

	if err := mergo.Merge(manifest, *defaults); err != nil {
		return fmt.Errorf("failed to merge defaults: %w", err)
	}

	weight := DefaultWeight
	if raw, ok := values[joinPath(joinPath("steps", arrayItemIndexTemplate), "weight")]; ok {
		if weight, err = cast.ToIntE(raw); err != nil {
			return fmt.Errorf("invalid default step weight %v: %w", raw, err)
		}
	}
	for i := range manifest.Steps {
		if manifest.Steps[i].Weight == nil {
			manifest.Steps[i].Weight = ptr.To(weight)
		}
	}
	return nil
}

// DefaultSteps returns the steps of the built-in sequence concatenation wizard.
func DefaultSteps() []Step {
	return []Step{
		{Key: "input", Label: "Input Files", Weight: ptr.To(1)},
		{Key: "alignment", Label: "Sequence Alignment", Weight: ptr.To(3)},
		{Key: "codons", Label: "Codon Positions", Weight: ptr.To(2)},
		{Key: "filters", Label: "Filters"},
		{Key: "export", Label: "Export"},
	}
}

// CreateManifestWithDefaults returns a definition with the built-in steps
// and every schema default filled in.
func CreateManifestWithDefaults(title, version string) (*Manifest, error) {
	if version == "" {
		return nil, fmt.Errorf("version cannot be empty")
	}

	manifest := &Manifest{
		APIVersion: version,
		Title:      title,
		Steps:      DefaultSteps(),
	}
	if err := FillManifestWithDefaults(manifest, version); err != nil {
		return nil, fmt.Errorf("failed to fill manifest with defaults: %w", err)
	}
	return manifest, nil
}

// DefaultManifest returns the built-in wizard at the latest schema version.
func DefaultManifest() (*Manifest, error) {
	version, err := schema.GetLatestManifestVersion()
	if err != nil {
		return nil, err
	}
	return CreateManifestWithDefaults("", version)
}
