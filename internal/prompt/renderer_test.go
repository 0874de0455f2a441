// internal/prompt/renderer_test.go
package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Success(t *testing.T) {
	tests := []struct {
		name     string
		template string
		fields   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "Describe {key}.",
			fields:   map[string]string{"key": "aries"},
			expected: "Describe aries.",
		},
		{
			name:     "multiple placeholders",
			template: "Describe {key}, element {element}.",
			fields:   map[string]string{"key": "aries", "element": "fire"},
			expected: "Describe aries, element fire.",
		},
		{
			name:     "repeated placeholder",
			template: "{key} and {key} again",
			fields:   map[string]string{"key": "leo"},
			expected: "leo and leo again",
		},
		{
			name:     "extra fields are ignored",
			template: "Only {key}",
			fields:   map[string]string{"key": "virgo", "unused": "x"},
			expected: "Only virgo",
		},
		{
			name:     "no placeholders",
			template: "static text",
			fields:   map[string]string{},
			expected: "static text",
		},
		{
			name:     "literal json braces survive",
			template: `Respond with {"title": "..."} about {key}`,
			fields:   map[string]string{"key": "libra"},
			expected: `Respond with {"title": "..."} about libra`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := Render(tt.template, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rendered)
		})
	}
}

func TestRender_NoPlaceholderSyntaxRemains(t *testing.T) {
	template := "Describe {key}, element {element}, quality {quality}."
	fields := map[string]string{"key": "aries", "element": "fire", "quality": "cardinal"}

	rendered, err := Render(template, fields)
	require.NoError(t, err)

	for _, field := range Placeholders(template) {
		assert.NotContains(t, rendered, "{"+field+"}")
	}
	assert.False(t, placeholderPattern.MatchString(rendered))
}

func TestRender_MissingField(t *testing.T) {
	_, err := Render("Describe {key}, element {element}.", map[string]string{"key": "aries"})
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "element", missing.Field)
}

func TestRender_Pure(t *testing.T) {
	template := "Describe {key}, ruled by {ruler}."
	fields := map[string]string{"key": "leo", "ruler": "Sun"}

	first, err := Render(template, fields)
	require.NoError(t, err)
	second, err := Render(template, fields)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlaceholders(t *testing.T) {
	template := "{key} {element} {key} {quality}"
	assert.Equal(t, []string{"key", "element", "quality"}, Placeholders(template))

	assert.Empty(t, Placeholders("no placeholders here"))
	assert.Empty(t, Placeholders(`{"json": "object"}`))
}

func BenchmarkRender(b *testing.B) {
	template := strings.Repeat("Describe {key}, element {element}. ", 20)
	fields := map[string]string{"key": "aries", "element": "fire"}
	for i := 0; i < b.N; i++ {
		_, _ = Render(template, fields)
	}
}
