package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

const sampleManifest = `apiVersion: v1-alpha.1
title: Sequences
variables:
  ACCENT: "#202020"
steps:
  - key: input
    label: Input Files
  - key: align
    label: Sequence Alignment
    weight: 3
  - label: Export
theme:
  bold: "${ACCENT}"
layout:
  textPadding: 0
  animationPeriod: 2s
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "concatenator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeManifest(t, sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "v1-alpha.1", m.APIVersion)
	assert.Equal(t, "Sequences", m.Title)
	require.Len(t, m.Steps, 3)
	assert.Equal(t, Step{Key: "input", Label: "Input Files", Weight: ptr.To(1)}, m.Steps[0])
	assert.Equal(t, 3, StepWeight(m.Steps[1]))
	assert.Empty(t, m.Steps[2].Key)

	assert.Equal(t, "#202020", m.Theme.Bold, "variables are substituted")
	assert.Equal(t, "#7a7a7a", m.Theme.Base, "schema default")
	assert.Empty(t, m.Theme.Weak)

	assert.Zero(t, m.Layout.TextPadding, "explicit zero is kept")
	assert.Equal(t, 4.0, m.Layout.VerticalPadding)
	assert.Equal(t, "2s", m.Layout.AnimationPeriod)
	assert.Equal(t, "10ms", m.Layout.TimerInterval)
	assert.Equal(t, 13.0, m.Font.Size)
}

func TestLoadEnvironmentOverridesVariables(t *testing.T) {
	t.Setenv(EnvVarPrefix+"ACCENT", "#abcdef")

	m, err := Load(writeManifest(t, sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", m.Theme.Bold)
}

func TestLoadWithOverrides(t *testing.T) {
	overrides, err := ParseOverrides([]string{
		"steps.1.weight=5",
		"steps.3.label=Review",
		"layout.indicatorRadius=8",
		"title=Override",
	})
	require.NoError(t, err)

	m, err := Load(writeManifest(t, sampleManifest), WithOverrides(overrides...))
	require.NoError(t, err)

	assert.Equal(t, "Override", m.Title)
	assert.Equal(t, 5, StepWeight(m.Steps[1]))
	require.Len(t, m.Steps, 4)
	assert.Equal(t, "Review", m.Steps[3].Label)
	assert.Equal(t, 1, StepWeight(m.Steps[3]), "appended steps get defaults")
	assert.Equal(t, 8.0, m.Layout.IndicatorRadius)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing apiVersion",
			content: "steps:\n  - label: A\n",
			errMsg:  "missing 'apiVersion'",
		},
		{
			name:    "unsupported apiVersion",
			content: "apiVersion: v9\nsteps:\n  - label: A\n",
			errMsg:  "unsupported manifest schema version",
		},
		{
			name:    "no steps",
			content: "apiVersion: v1-alpha.1\nsteps: []\n",
			errMsg:  "validation failed",
		},
		{
			name:    "unknown field",
			content: "apiVersion: v1-alpha.1\nsteps:\n  - label: A\n    colour: red\n",
			errMsg:  "validation failed",
		},
		{
			name:    "bad key",
			content: "apiVersion: v1-alpha.1\nsteps:\n  - key: Not_A_Key\n    label: A\n",
			errMsg:  "validation failed",
		},
		{
			name:    "negative weight",
			content: "apiVersion: v1-alpha.1\nsteps:\n  - label: A\n    weight: -1\n",
			errMsg:  "validation failed",
		},
		{
			name:    "duplicate keys",
			content: "apiVersion: v1-alpha.1\nsteps:\n  - key: a\n    label: A\n  - key: a\n    label: B\n",
			errMsg:  `key "a" already used by steps[0]`,
		},
		{
			name:    "bad colour",
			content: "apiVersion: v1-alpha.1\nsteps:\n  - label: A\ntheme:\n  alert: red\n",
			errMsg:  "validation failed",
		},
		{
			name:    "bad variable name",
			content: "apiVersion: v1-alpha.1\nvariables:\n  lower: x\nsteps:\n  - label: A\n",
			errMsg:  "variable name 'lower' is invalid",
		},
		{
			name:    "empty document",
			content: "",
			errMsg:  "manifest is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read manifest")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m, err := CreateManifestWithDefaults("Round Trip", "v1-alpha.1")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "concatenator.yaml")
	require.NoError(t, Save(m, path))
	assert.True(t, Exists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(ManifestFileMode), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Steps, loaded.Steps)
	assert.Equal(t, m.Theme, loaded.Theme)
	assert.Equal(t, "Round Trip", loaded.Title)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, "none.yaml")))
	assert.False(t, Exists(dir), "directories are not definitions")
}
