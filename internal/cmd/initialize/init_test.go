package initialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concatenator-dev/concatenator/internal/manifest"
)

func TestThemePresetsAreValid(t *testing.T) {
	for _, p := range ThemePresets {
		t.Run(p.Name, func(t *testing.T) {
			assert.NoError(t, manifest.ValidateTheme(manifest.Theme{Bold: p.Bold, Base: p.Base, Alert: p.Alert}))
		})
	}
}

func TestResolveSteps(t *testing.T) {
	t.Run("builtin subset keeps order", func(t *testing.T) {
		steps, err := resolveSteps(&WizardConfig{StepsSource: StepsBuiltin, BuiltinKeys: []string{"export", "input"}})
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, "input", steps[0].Key)
		assert.Equal(t, "export", steps[1].Key)
	})

	t.Run("builtin needs a step", func(t *testing.T) {
		_, err := resolveSteps(&WizardConfig{StepsSource: StepsBuiltin})
		assert.ErrorContains(t, err, "at least one step")
	})

	t.Run("custom lines", func(t *testing.T) {
		steps, err := resolveSteps(&WizardConfig{StepsSource: StepsCustom, StepsText: "Load\nAlign:4\nSave"})
		require.NoError(t, err)
		require.Len(t, steps, 3)
		assert.Equal(t, "align", steps[1].Key)
		assert.Equal(t, 4, manifest.StepWeight(steps[1]))
	})
}

func TestResolveTheme(t *testing.T) {
	theme, err := resolveTheme(&WizardConfig{Theme: "ocean"})
	require.NoError(t, err)
	assert.Equal(t, "#0b3d91", theme.Bold)

	theme, err = resolveTheme(&WizardConfig{Theme: ThemeCustom, Bold: "#111111", Base: "#222222", Alert: "#333333"})
	require.NoError(t, err)
	assert.Equal(t, manifest.Theme{Bold: "#111111", Base: "#222222", Alert: "#333333"}, theme)

	_, err = resolveTheme(&WizardConfig{Theme: "neon"})
	assert.ErrorContains(t, err, "unknown theme")
}

func TestBuildManifest(t *testing.T) {
	config := &WizardConfig{
		Title:       "  Alignment  ",
		StepsSource: StepsCustom,
		StepsText:   "Load\nAlign:3\nSave",
		Theme:       "forest",
		OutputPath:  "wizard.yaml",
	}

	m, err := buildManifest(config)
	require.NoError(t, err)

	assert.Equal(t, "Alignment", m.Title)
	assert.NotEmpty(t, m.APIVersion)
	require.Len(t, m.Steps, 3)
	for _, s := range m.Steps {
		assert.NotNil(t, s.Weight, s.Key)
	}
	assert.Equal(t, 3, *m.Steps[1].Weight)
	assert.Equal(t, "#1b4d3e", m.Theme.Bold)
	assert.NotEmpty(t, m.Layout.AnimationPeriod)
	assert.NotZero(t, m.Font.Size)
}

func TestBuildManifest_InvalidCustomColour(t *testing.T) {
	_, err := buildManifest(&WizardConfig{
		StepsSource: StepsBuiltin,
		BuiltinKeys: []string{"input"},
		Theme:       ThemeCustom,
		Bold:        "black",
		Base:        "#222222",
		Alert:       "#333333",
	})
	assert.ErrorContains(t, err, "validation failed")
}

func TestRenderSummary(t *testing.T) {
	config := &WizardConfig{
		Title:       "Alignment",
		StepsSource: StepsBuiltin,
		BuiltinKeys: []string{"input", "alignment"},
		Theme:       "default",
		OutputPath:  "wizard.yaml",
		DryRun:      true,
	}
	m, err := buildManifest(config)
	require.NoError(t, err)

	summary := renderSummary(config, m)
	assert.Contains(t, summary, "Title: Alignment")
	assert.Contains(t, summary, "DRY RUN")
	assert.Contains(t, summary, "1. Input Files (input, weight 1)")
	assert.Contains(t, summary, "2. Sequence Alignment (alignment, weight 3)")
	assert.Contains(t, summary, "Run without --dry-run")

	config.DryRun = false
	assert.Contains(t, renderSummary(config, m), "concatenator validate -f wizard.yaml")
}

func TestRenderBar(t *testing.T) {
	m, err := buildManifest(&WizardConfig{
		StepsSource: StepsBuiltin,
		BuiltinKeys: []string{"input", "export"},
		Theme:       "mono",
	})
	require.NoError(t, err)

	out, err := renderBar(m, 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Input Files")
	assert.Contains(t, out, "Export")
	assert.NotContains(t, out, "\x1b[")
}
