// internal/catalog/catalog_test.go
package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "astrogen/internal/common/errors"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadItems_BareArray(t *testing.T) {
	path := writeTempFile(t, `[
		{"key": "aries", "element": "fire", "quality": "cardinal"},
		{"key": "taurus", "element": "earth", "quality": "fixed"}
	]`)

	items, err := LoadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "aries", items[0].Key)
	assert.Equal(t, "fire", items[0].Fields["element"])
	assert.Equal(t, "aries", items[0].Fields["key"])
	assert.Equal(t, "taurus", items[1].Key)
}

func TestLoadItems_PreservesOrder(t *testing.T) {
	path := writeTempFile(t, `[
		{"key": "c"}, {"key": "a"}, {"key": "b"}
	]`)

	items, err := LoadItems(path)
	require.NoError(t, err)

	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestLoadItems_WrapperObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"planets wrapper", `{"planets": [{"key": "sun"}]}`},
		{"houses wrapper", `{"houses": [{"key": "first"}]}`},
		{"data wrapper", `{"data": [{"key": "sun"}]}`},
		{"unknown single array key", `{"bodies": [{"key": "sun"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := LoadItems(writeTempFile(t, tt.content))
			require.NoError(t, err)
			require.Len(t, items, 1)
		})
	}
}

func TestLoadItems_FlattensNestedFields(t *testing.T) {
	path := writeTempFile(t, `[
		{"key": "sun", "names": {"eng": "Sun", "rus": "Солнце"}, "keywords": ["identity", "vitality"], "order": 1, "visible": true, "retro": null}
	]`)

	items, err := LoadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	fields := items[0].Fields
	assert.Equal(t, "Sun", fields["names_eng"])
	assert.Equal(t, "Солнце", fields["names_rus"])
	assert.Equal(t, `["identity","vitality"]`, fields["keywords"])
	assert.Equal(t, "1", fields["order"])
	assert.Equal(t, "true", fields["visible"])
	assert.Equal(t, "null", fields["retro"])
}

func TestLoadItems_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `not json at all`},
		{"not a list", `"just a string"`},
		{"empty array", `[]`},
		{"entry not an object", `[42]`},
		{"missing key", `[{"element": "fire"}]`},
		{"empty key", `[{"key": ""}]`},
		{"duplicate key", `[{"key": "aries"}, {"key": "aries"}]`},
		{"wrapper with two arrays", `{"planets2": [{"key": "a"}], "moons": [{"key": "b"}]}`},
		{"wrapper without array", `{"version": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadItems(writeTempFile(t, tt.content))
			require.Error(t, err)

			var stdErr *stderrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, stderrors.ErrCodeCatalogFormatInvalid, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestLoadItems_FileNotFound(t *testing.T) {
	_, err := LoadItems(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, stderrors.ErrCodeCatalogNotFound, stdErr.Code)
}

func TestLoadLanguages(t *testing.T) {
	path := writeTempFile(t, `["eng", "rus", "spa"]`)

	langs, err := LoadLanguages(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"eng", "rus", "spa"}, langs)
}

func TestLoadLanguages_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a list", `{"eng": "English"}`},
		{"empty list", `[]`},
		{"non-string entry", `["eng", 42]`},
		{"empty identifier", `["eng", ""]`},
		{"duplicate", `["eng", "eng"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLanguages(writeTempFile(t, tt.content))
			require.Error(t, err)

			var stdErr *stderrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, stderrors.ErrCodeCatalogFormatInvalid, stdErr.Code)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "English", DisplayName("eng"))
	assert.Equal(t, "Russian", DisplayName("rus"))
	assert.Equal(t, "Spanish", DisplayName("spa"))

	// Unparseable identifiers come back unchanged.
	assert.Equal(t, "not-a-language-tag!", DisplayName("not-a-language-tag!"))
}
