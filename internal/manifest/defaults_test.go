package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"k8s.io/utils/ptr"
)

type DefaultsTestSuite struct {
	suite.Suite
	version string
}

func (s *DefaultsTestSuite) SetupTest() {
	ClearSchemaCache()
	s.version = "v1-alpha.1"
}

func (s *DefaultsTestSuite) TestGetDefaultValues() {
	defaults, err := GetDefaultValues(s.version)
	s.Require().NoError(err)

	s.Equal("Concatenator", defaults["title"])
	s.Equal("#1e1e1e", defaults["theme.bold"])
	s.Equal("", defaults["theme.weak"])
	s.Equal(float64(1), defaults["steps.[0].weight"])
	s.Equal("10ms", defaults["layout.timerInterval"])
	s.Equal(map[string]any{}, defaults["font"])
}

func (s *DefaultsTestSuite) TestGetDefaultValues_UnknownVersion() {
	_, err := GetDefaultValues("v0")
	s.Error(err)
}

func (s *DefaultsTestSuite) TestDefaultsObject() {
	defaults, err := GetDefaultValues(s.version)
	s.Require().NoError(err)

	obj := defaultsObject(defaults)

	s.NotContains(obj, "steps")
	theme, ok := obj["theme"].(map[string]any)
	s.Require().True(ok)
	s.Equal("#d43c3c", theme["alert"])
	s.Equal(float64(13), obj["font"].(map[string]any)["size"])
}

func (s *DefaultsTestSuite) TestApplyDefaults() {
	obj := map[string]any{
		"apiVersion": s.version,
		"steps": []any{
			map[string]any{"label": "A"},
			map[string]any{"label": "B", "weight": float64(0)},
		},
		"layout": map[string]any{"verticalPadding": float64(0)},
	}

	s.Require().NoError(ApplyDefaults(obj, s.version))

	steps := obj["steps"].([]any)
	s.Equal(float64(1), steps[0].(map[string]any)["weight"])
	s.Equal(float64(0), steps[1].(map[string]any)["weight"], "explicit zero is kept")

	layout := obj["layout"].(map[string]any)
	s.Equal(float64(0), layout["verticalPadding"])
	s.Equal(float64(6), layout["indicatorRadius"])
	s.Equal("Concatenator", obj["title"])
	s.NotContains(obj, "variables")
}

func (s *DefaultsTestSuite) TestApplyDefaults_DoesNotShareDefaults() {
	a := map[string]any{"steps": []any{}}
	b := map[string]any{"steps": []any{}}
	s.Require().NoError(ApplyDefaults(a, s.version))
	s.Require().NoError(ApplyDefaults(b, s.version))

	a["theme"].(map[string]any)["bold"] = "#000000"
	s.Equal("#1e1e1e", b["theme"].(map[string]any)["bold"])
}

func (s *DefaultsTestSuite) TestFillManifestWithDefaults() {
	m := &Manifest{
		APIVersion: s.version,
		Steps: []Step{
			{Label: "A"},
			{Label: "B", Weight: ptr.To(0)},
		},
		Theme: Theme{Bold: "#111111"},
	}

	s.Require().NoError(FillManifestWithDefaults(m, s.version))

	s.Equal("Concatenator", m.Title)
	s.Equal(1, *m.Steps[0].Weight)
	s.Equal(0, *m.Steps[1].Weight)
	s.Equal("#111111", m.Theme.Bold)
	s.Equal("#7a7a7a", m.Theme.Base)
	s.Equal("#ffffff", m.Theme.Background)
	s.Equal(20.0, m.Layout.TextPadding)
	s.Equal("1s", m.Layout.AnimationPeriod)
	s.Equal(13.0, m.Font.Size)
}

func (s *DefaultsTestSuite) TestFillManifestWithDefaults_Nil() {
	s.Error(FillManifestWithDefaults(nil, s.version))
}

func TestDefaultsTestSuite(t *testing.T) {
	suite.Run(t, new(DefaultsTestSuite))
}

func TestCreateManifestWithDefaults(t *testing.T) {
	m, err := CreateManifestWithDefaults("", "v1-alpha.1")
	require.NoError(t, err)

	assert.Equal(t, "Concatenator", m.Title)
	require.Len(t, m.Steps, 5)
	assert.Equal(t, "Sequence Alignment", m.Steps[1].Label)
	assert.Equal(t, 3, StepWeight(m.Steps[1]))
	assert.Equal(t, 1, StepWeight(m.Steps[4]))
	assert.NoError(t, ValidateSteps(m.Steps))

	_, err = CreateManifestWithDefaults("x", "")
	assert.Error(t, err)
}

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	require.NoError(t, err)
	assert.Equal(t, "v1-alpha.1", m.APIVersion)
	assert.Len(t, m.Steps, len(DefaultSteps()))
}

func TestDefaultStepsAreIndependent(t *testing.T) {
	a := DefaultSteps()
	b := DefaultSteps()
	*a[0].Weight = 9
	assert.Equal(t, 1, *b[0].Weight)
}
