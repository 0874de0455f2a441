// internal/catalog/languages.go
package catalog

import (
	"encoding/json"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	stderrors "astrogen/internal/common/errors"
)

// LoadLanguages parses the language catalog: a JSON array of identifiers,
// e.g. ["eng","rus","spa"]. Order is preserved.
func LoadLanguages(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, stderrors.NewCatalogNotFoundError(path, err)
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, stderrors.NewCatalogFormatError(path, "invalid JSON: "+err.Error())
	}

	if err := validateAgainstSchema(languageListSchema, decoded); err != nil {
		return nil, stderrors.NewCatalogFormatError(path, err.Error())
	}

	list := decoded.([]interface{})
	langs := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, entry := range list {
		code := entry.(string)
		if _, dup := seen[code]; dup {
			return nil, stderrors.NewCatalogFormatError(path, "duplicate language "+code)
		}
		seen[code] = struct{}{}
		langs = append(langs, code)
	}

	return langs, nil
}

// DisplayName resolves a language identifier to an English display name for
// logs. Identifiers BCP 47 cannot parse are returned unchanged.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
