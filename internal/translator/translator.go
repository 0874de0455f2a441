// internal/translator/translator.go

// Package translator re-renders finished output documents into the other
// supported locales, one target file per locale.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"astrogen/internal/common/config"
	stderrors "astrogen/internal/common/errors"
	"astrogen/internal/common/logger"
	"astrogen/internal/output"
	"astrogen/internal/prompt"
)

// TextGenerator is the contract the translation backend fulfills.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generated content is structured JSON; both the source document and every
// translation must carry these fields.
const contentSchema = `{
	"type": "object",
	"required": ["title", "one_liner", "body_md"],
	"properties": {
		"title":     {"type": "string", "minLength": 1},
		"one_liner": {"type": "string", "minLength": 1},
		"body_md":   {"type": "string", "minLength": 1}
	}
}`

type supportLanguage struct {
	Name string `json:"name"`
}

type Translator struct {
	cfg    *config.Config
	client TextGenerator
	logger logger.Logger
}

func New(cfg *config.Config, client TextGenerator, log logger.Logger) *Translator {
	return &Translator{
		cfg:    cfg,
		client: client,
		logger: log.With(map[string]interface{}{"component": "translator"}),
	}
}

// TranslateFile translates the named source document (relative to the output
// directory) into every configured support locale. The source is validated
// up front so a broken document fails before any request is sent. Existing
// target files are left untouched; entries whose translation comes back
// invalid fall back to the source content.
func (t *Translator) TranslateFile(ctx context.Context, sourceFilename string) error {
	locales, names, err := t.loadSupportLanguages()
	if err != nil {
		return err
	}

	srcPath := filepath.Join(t.cfg.Generator.OutputDir, sourceFilename)
	doc, err := output.Read(srcPath)
	if err != nil {
		return stderrors.NewCatalogNotFoundError(srcPath, err)
	}

	if err := validateSourceDocument(sourceFilename, doc); err != nil {
		return err
	}

	raw, err := os.ReadFile(t.cfg.Translation.PromptPath)
	if err != nil {
		return stderrors.NewTemplateNotFoundError(t.cfg.Translation.PromptPath, err)
	}
	template := strings.TrimSpace(string(raw))

	for _, locale := range locales {
		targetFilename := TargetFilename(sourceFilename, locale)
		targetPath := filepath.Join(t.cfg.Generator.OutputDir, targetFilename)

		if _, err := os.Stat(targetPath); err == nil {
			t.logger.Info("target file exists, skipping", map[string]interface{}{
				"locale": locale,
				"path":   targetPath,
			})
			continue
		}

		t.logger.Info("translating document", map[string]interface{}{
			"locale":   locale,
			"language": names[locale],
			"source":   sourceFilename,
		})

		data := make([]output.Result, 0, len(doc.Data))
		for _, entry := range doc.Data {
			if err := ctx.Err(); err != nil {
				return err
			}
			data = append(data, t.translateEntry(ctx, template, entry, locale, names[locale]))
		}

		translated := output.Document{
			GeneratedAt: doc.GeneratedAt,
			Language:    locale,
			TotalItems:  len(data),
			Data:        data,
		}
		if err := output.Write(translated, targetPath); err != nil {
			return err
		}

		t.logger.Info("translated document written", map[string]interface{}{
			"locale": locale,
			"path":   targetPath,
		})
	}

	return nil
}

// translateEntry translates one item's content, falling back to the source
// content when the backend fails or returns JSON that does not validate.
func (t *Translator) translateEntry(ctx context.Context, template string, entry output.Result, locale, langName string) output.Result {
	rendered, err := prompt.Render(template, map[string]string{
		"content":          *entry.Content,
		"target_lang_name": langName,
	})
	if err != nil {
		t.logger.WithError(err).Warn("translation prompt render failed, keeping source content", map[string]interface{}{
			"itemKey": entry.Key,
			"locale":  locale,
		})
		return entry
	}

	translated, err := t.client.Generate(ctx, rendered)
	if err != nil {
		t.logger.WithError(stderrors.NewTranslationFailedError(entry.Key, locale, err)).
			Warn("translation failed, keeping source content", map[string]interface{}{
				"itemKey": entry.Key,
				"locale":  locale,
			})
		return entry
	}

	normalized, err := normalizeContent(translated)
	if err != nil {
		t.logger.Warn("translated content invalid, keeping source content", map[string]interface{}{
			"itemKey": entry.Key,
			"locale":  locale,
			"reason":  err.Error(),
		})
		return entry
	}

	return output.Result{Key: entry.Key, Content: &normalized}
}

func (t *Translator) loadSupportLanguages() ([]string, map[string]string, error) {
	path := t.cfg.Translation.LanguagesPath
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, stderrors.NewCatalogNotFoundError(path, err)
	}

	var decoded map[string]supportLanguage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, stderrors.NewCatalogFormatError(path, "invalid JSON: "+err.Error())
	}
	if len(decoded) == 0 {
		return nil, nil, stderrors.NewCatalogFormatError(path, "no support languages defined")
	}

	locales := make([]string, 0, len(decoded))
	names := make(map[string]string, len(decoded))
	for locale, lang := range decoded {
		if lang.Name == "" {
			return nil, nil, stderrors.NewCatalogFormatError(path, fmt.Sprintf("locale %q has no name", locale))
		}
		locales = append(locales, locale)
		names[locale] = lang.Name
	}
	sort.Strings(locales)

	return locales, names, nil
}

// validateSourceDocument checks every entry holds structured content before
// any translation request is sent.
func validateSourceDocument(filename string, doc output.Document) error {
	var problems []string
	for _, entry := range doc.Data {
		if entry.Content == nil {
			problems = append(problems, fmt.Sprintf("%s: content is null", entry.Key))
			continue
		}
		if _, err := normalizeContent(*entry.Content); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", entry.Key, err))
		}
	}
	if len(problems) > 0 {
		return stderrors.NewTranslationSourceInvalidError(filename, strings.Join(problems, "; "))
	}
	return nil
}

// normalizeContent validates a content payload against the structured
// schema and returns it re-marshalled in compact form.
func normalizeContent(content string) (string, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", fmt.Errorf("not valid JSON: %s", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(contentSchema),
		gojsonschema.NewGoLoader(parsed),
	)
	if err != nil {
		return "", err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return "", fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}

	compact, err := json.Marshal(parsed)
	if err != nil {
		return "", err
	}
	return string(compact), nil
}

// TargetFilename derives the per-locale filename: an eng_ prefix on the
// source is replaced, any other name just gains the locale prefix.
func TargetFilename(sourceFilename, locale string) string {
	base := strings.TrimPrefix(sourceFilename, "eng_")
	return locale + "_" + base
}
