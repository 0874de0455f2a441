// internal/category/category_test.go
package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrogen/internal/common/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Categories: map[string]config.CategoryConfig{
			"zodiacs": {
				Enabled:        true,
				TemplatePath:   "configs/zodiac_prompt.txt",
				DataPath:       "configs/zodiac.json",
				OutputBasename: "zodiacs.json",
			},
			"planets": {
				Enabled:        true,
				TemplatePath:   "configs/planets_prompt.txt",
				DataPath:       "configs/planets_luminaries.json",
				OutputBasename: "planets_luminaries.json",
			},
			"houses": {
				Enabled:        false,
				TemplatePath:   "configs/houses_prompt.txt",
				DataPath:       "configs/houses.json",
				OutputBasename: "houses.json",
			},
		},
	}
}

func TestFromConfig_SortedByName(t *testing.T) {
	categories := FromConfig(testConfig())
	require.Len(t, categories, 3)
	assert.Equal(t, "houses", categories[0].Name)
	assert.Equal(t, "planets", categories[1].Name)
	assert.Equal(t, "zodiacs", categories[2].Name)
}

func TestEnabled(t *testing.T) {
	categories := Enabled(testConfig())
	require.Len(t, categories, 2)
	assert.Equal(t, "planets", categories[0].Name)
	assert.Equal(t, "zodiacs", categories[1].Name)
}

func TestRunSpec(t *testing.T) {
	c := Category{
		Name:           "zodiacs",
		TemplatePath:   "configs/zodiac_prompt.txt",
		DataPath:       "configs/zodiac.json",
		OutputBasename: "zodiacs.json",
	}

	spec := c.RunSpec()
	assert.Equal(t, "zodiacs", spec.Category)
	assert.Equal(t, "configs/zodiac_prompt.txt", spec.TemplatePath)
	assert.Equal(t, "configs/zodiac.json", spec.DataPath)
	assert.Equal(t, "zodiacs.json", spec.BaseFilename)
}
