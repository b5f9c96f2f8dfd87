// Package schema embeds the JSON schemas of the wizard definition, one
// directory per apiVersion.
package schema

import (
	"cmp"
	"embed"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

//go:embed */*.json
var fs embed.FS

// SchemaType is the type of schema.
type SchemaType string

// String returns the string representation of the schema type.
func (s SchemaType) String() string {
	return string(s)
}

// SchemaTypeManifest is the schema of a whole wizard definition.
const SchemaTypeManifest SchemaType = "manifest"

var (
	// versionRegex matches "v1", "v1-alpha.1", "v2-rc.3" and so on.
	versionRegex = regexp.MustCompile(`^v(\d+)(?:-(alpha|beta|rc)\.(\d+))?$`)
	// preReleaseOrder ranks pre-release kinds; a final release ranks last.
	preReleaseOrder = map[string]int{"alpha": 0, "beta": 1, "rc": 2, "": 3}
)

// GetManifestSchema retrieves the JSON schema for validating definitions at a specific version.
func GetManifestSchema(version string) ([]byte, error) {
	data, err := fs.ReadFile(version + "/" + SchemaTypeManifest.String() + ".json")
	if err != nil {
		return nil, fmt.Errorf("manifest schema not found for version %s", version)
	}
	return data, nil
}

// GetManifestSchemas returns a map of version string to manifest schema.
func GetManifestSchemas() (map[string][]byte, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	schemas := make(map[string][]byte)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version := entry.Name()
		data, err := GetManifestSchema(version)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema for version %s: %w", version, err)
		}
		schemas[version] = data
	}
	return schemas, nil
}

// GetValidManifestVersions returns every embedded version, oldest first.
func GetValidManifestVersions() ([]string, error) {
	schemas, err := GetManifestSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest schemas: %w", err)
	}

	versions := make([]string, 0, len(schemas))
	for v := range schemas {
		versions = append(versions, v)
	}
	slices.SortFunc(versions, compareSchemaVersions)
	return versions, nil
}

// GetLatestManifestVersion returns the newest embedded version.
func GetLatestManifestVersion() (string, error) {
	versions, err := GetValidManifestVersions()
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("no manifest schemas found")
	}
	return versions[len(versions)-1], nil
}

// GetLatestManifestSchema returns the schema of the newest embedded version.
func GetLatestManifestSchema() ([]byte, error) {
	version, err := GetLatestManifestVersion()
	if err != nil {
		return nil, err
	}
	return GetManifestSchema(version)
}

// compareSchemaVersions returns -1 if a < b, 0 if a == b, 1 if a > b.
// Strings that are not versions sort after every version.
func compareSchemaVersions(a, b string) int {
	parse := func(v string) (major int, pre string, preNum int, valid bool) {
		m := versionRegex.FindStringSubmatch(v)
		if m == nil {
			return 0, "", 0, false
		}
		major, _ = strconv.Atoi(m[1])
		pre = m[2]
		if m[3] != "" {
			preNum, _ = strconv.Atoi(m[3])
		}
		return major, pre, preNum, true
	}

	majA, preA, numA, validA := parse(a)
	majB, preB, numB, validB := parse(b)

	switch {
	case !validA && !validB:
		return strings.Compare(a, b)
	case !validA:
		return 1
	case !validB:
		return -1
	}

	if c := cmp.Compare(majA, majB); c != 0 {
		return c
	}
	if c := cmp.Compare(preReleaseOrder[preA], preReleaseOrder[preB]); c != 0 {
		return c
	}
	return cmp.Compare(numA, numB)
}
