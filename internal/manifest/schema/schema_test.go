package schema

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// SchemaTestSuite is a test suite for the schema package
type SchemaTestSuite struct {
	suite.Suite
}

func (s *SchemaTestSuite) TestGetManifestSchema() {
	schema, err := GetManifestSchema("v1-alpha.1")
	s.Require().NoError(err)
	s.Require().NotNil(schema)
	s.Contains(string(schema), `"steps"`)
}

func (s *SchemaTestSuite) TestGetManifestSchema_InvalidVersion() {
	schema, err := GetManifestSchema("invalid")
	s.Require().Error(err)
	s.Require().Nil(schema)
}

// TestCompareSchemaVersions tests the compareSchemaVersions function with table-driven subtests
func (s *SchemaTestSuite) TestCompareSchemaVersions() {
	cases := []struct {
		a, b   string
		expect int // -1 if a < b, 0 if a == b, 1 if a > b
	}{
		{"v1-alpha.1", "v1-beta.2", -1},
		{"v1-beta.2", "v1-beta.11", -1},
		{"v1-beta.11", "v1-rc.1", -1},
		{"v1-rc.1", "v1", -1},
		{"v1", "v1", 0},
		{"v2", "v1", 1},
		{"v1-beta.2", "v1-alpha.1", 1},
		{"v1-beta.2", "v1-beta.2", 0},
		{"v1-beta.2", "v1-beta.11", -1},
		{"v1-beta.11", "v1-beta.2", 1},
		{"v1-alpha.1", "v1-alpha.1", 0},
		{"v1-alpha.1", "v1-alpha.2", -1},
		{"v1-alpha.2", "v1-alpha.1", 1},
		{"v1", "v1-alpha.1", 1},
		{"v1", "v2", -1},
		{"v1-rc.1", "v1-beta.11", 1},
		{"v1-rc.1", "v1-rc.1", 0},
		{"v1-rc.2", "v1-rc.1", 1},
		{"v1-rc.1", "v1-rc.2", -1},
		{"v1", "invalid", -1},
		{"invalid", "v1", 1},
		{"invalid", "invalid2", -1},
	}
	for _, c := range cases {
		name := fmt.Sprintf("%s_vs_%s", c.a, c.b)
		s.T().Run(name, func(t *testing.T) {
			res := compareSchemaVersions(c.a, c.b)
			if c.expect < 0 {
				assert.Less(t, res, 0, "expected %s < %s", c.a, c.b)
			} else if c.expect > 0 {
				assert.Greater(t, res, 0, "expected %s > %s", c.a, c.b)
			} else {
				assert.Equal(t, 0, res, "expected %s == %s", c.a, c.b)
			}
		})
	}
}

func (s *SchemaTestSuite) TestSortSchemaVersions() {
	versions := []string{"v1-beta.2", "v1", "v1-alpha.1", "v1-beta.11", "v1-rc.1"}

	slices.SortFunc(versions, compareSchemaVersions)

	s.Equal([]string{"v1-alpha.1", "v1-beta.2", "v1-beta.11", "v1-rc.1", "v1"}, versions)
}

func (s *SchemaTestSuite) TestValidVersionsAreSorted() {
	versions, err := GetValidManifestVersions()
	s.Require().NoError(err)
	s.Require().NotEmpty(versions)
	s.Contains(versions, "v1-alpha.1")
	s.True(slices.IsSortedFunc(versions, compareSchemaVersions))
}

func (s *SchemaTestSuite) TestGetLatestManifestSchema() {
	versions, err := GetValidManifestVersions()
	s.Require().NoError(err)

	latest, err := GetLatestManifestSchema()
	s.Require().NoError(err)

	expected, err := GetManifestSchema(versions[len(versions)-1])
	s.Require().NoError(err)
	s.Equal(expected, latest)

	version, err := GetLatestManifestVersion()
	s.Require().NoError(err)
	s.Equal(versions[len(versions)-1], version)
}

// TestSchemaTestSuite runs the schema test suite
func TestSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}
