// internal/prompt/renderer.go

// Package prompt fills {field} placeholders in prompt templates with item
// field values.
package prompt

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// MissingFieldError reports a placeholder that has no value in the item's
// field mapping. Rendering fails rather than leaving the placeholder
// verbatim: a half-filled prompt would silently produce wrong content.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template references undefined field %q", e.Field)
}

// Render substitutes every {field} occurrence in template with its value
// from fields. Pure function: no I/O, identical inputs yield identical
// output.
func Render(template string, fields map[string]string) (string, error) {
	for _, field := range Placeholders(template) {
		if _, ok := fields[field]; !ok {
			return "", &MissingFieldError{Field: field}
		}
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		return fields[name]
	})
	return rendered, nil
}

// Placeholders returns the distinct field names referenced by template, in
// first-occurrence order.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		if _, dup := seen[match[1]]; dup {
			continue
		}
		seen[match[1]] = struct{}{}
		names = append(names, match[1])
	}
	return names
}
