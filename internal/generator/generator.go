// internal/generator/generator.go

// Package generator orchestrates the pipeline: for every target language and
// catalog item it renders a prompt, requests generated content, and persists
// one output document per language.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"astrogen/internal/catalog"
	"astrogen/internal/common/config"
	stderrors "astrogen/internal/common/errors"
	"astrogen/internal/common/logger"
	"astrogen/internal/common/metrics"
	"astrogen/internal/genai"
	"astrogen/internal/output"
	"astrogen/internal/prompt"
)

// TextGenerator is the contract the generation backend fulfills.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RunSpec identifies one generation run: the prompt template, the output
// basename, and the item catalog.
type RunSpec struct {
	Category     string
	TemplatePath string
	BaseFilename string
	DataPath     string
}

// DocumentRef describes one written (or skipped) output document.
type DocumentRef struct {
	Language string
	Path     string
	Items    int
	Failed   int
	Skipped  bool
}

type Generator struct {
	cfg    config.GeneratorConfig
	client TextGenerator
	logger logger.Logger
}

func New(cfg config.GeneratorConfig, client TextGenerator, log logger.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

// GenerateData runs the full pipeline for one category. Template, catalog
// and language list are loaded once; languages are processed in order, items
// within a language concurrently with bounded fan-out. Output order always
// matches catalog order. An item whose generation irrecoverably fails keeps
// its slot as a sentinel entry; a cancelled run writes no partial document.
// In debug mode prompts are rendered and logged, nothing is sent and nothing
// is written.
func (g *Generator) GenerateData(ctx context.Context, spec RunSpec) ([]DocumentRef, error) {
	category := spec.Category
	if category == "" {
		category = strings.TrimSuffix(spec.BaseFilename, ".json")
	}

	log := g.logger.With(map[string]interface{}{
		"runId":    uuid.NewString(),
		"category": category,
	})

	raw, err := os.ReadFile(spec.TemplatePath)
	if err != nil {
		return nil, stderrors.NewTemplateNotFoundError(spec.TemplatePath, err)
	}
	template := strings.TrimSpace(string(raw))

	items, err := catalog.LoadItems(spec.DataPath)
	if err != nil {
		return nil, err
	}

	languages, err := catalog.LoadLanguages(g.cfg.LanguagesPath)
	if err != nil {
		return nil, err
	}

	log.Info("starting generation run", map[string]interface{}{
		"items":     len(items),
		"languages": len(languages),
	})

	refs := make([]DocumentRef, 0, len(languages))
	var exhausted []string

	for _, lang := range languages {
		outPath := output.PathFor(g.cfg.OutputDir, lang, spec.BaseFilename)
		langLog := log.With(map[string]interface{}{
			"language": lang,
			"name":     catalog.DisplayName(lang),
		})

		if g.cfg.SkipExisting && !g.cfg.Debug {
			if _, err := os.Stat(outPath); err == nil {
				langLog.Info("output file exists, skipping", map[string]interface{}{"path": outPath})
				refs = append(refs, DocumentRef{Language: lang, Path: outPath, Skipped: true})
				continue
			}
		}

		results, err := g.generateLanguage(ctx, langLog, category, template, items, lang)
		if err != nil {
			return refs, err
		}

		data := make([]output.Result, 0, len(results))
		failed := 0
		for _, r := range results {
			if r == nil {
				continue // item skipped during rendering
			}
			if r.Error != "" {
				failed++
			}
			data = append(data, *r)
		}

		if g.cfg.Debug {
			langLog.Info("debug run, document not written", map[string]interface{}{"items": len(data)})
			refs = append(refs, DocumentRef{Language: lang, Items: len(data)})
			continue
		}

		doc := output.NewDocument(lang, data)
		if err := output.Write(doc, outPath); err != nil {
			return refs, err
		}
		metrics.DocumentsWritten.WithLabelValues(category, lang).Inc()

		langLog.Info("document written", map[string]interface{}{
			"path":   outPath,
			"items":  len(data),
			"failed": failed,
		})
		refs = append(refs, DocumentRef{Language: lang, Path: outPath, Items: len(data), Failed: failed})

		if len(data) > 0 && failed == len(data) {
			exhausted = append(exhausted, lang)
		}
	}

	if len(exhausted) > 0 {
		return refs, stderrors.NewGenerationFailedError(strings.Join(exhausted, ","),
			errors.New("no item produced content"))
	}

	return refs, nil
}

// generateLanguage fans item requests out with a bounded worker group; each
// worker owns its catalog-index slot so output order never depends on
// completion order. A nil slot means the item was skipped; an entry with an
// error code means generation failed irrecoverably for that item.
func (g *Generator) generateLanguage(
	ctx context.Context,
	log logger.Logger,
	category string,
	template string,
	items []catalog.Item,
	lang string,
) ([]*output.Result, error) {
	results := make([]*output.Result, len(items))

	// Spaces dispatches request_interval apart; the first slot is immediate.
	// Debug runs send nothing, so they are never paced.
	waitTurn := func(ctx context.Context) error { return nil }
	if g.cfg.RequestInterval > 0 && !g.cfg.Debug {
		interval := config.GetDuration(g.cfg.RequestInterval)
		var mu sync.Mutex
		next := time.Now()
		waitTurn = func(ctx context.Context) error {
			mu.Lock()
			slot := next
			if now := time.Now(); slot.Before(now) {
				slot = now
			}
			next = slot.Add(interval)
			mu.Unlock()

			select {
			case <-time.After(time.Until(slot)):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.MaxConcurrent)

	for i, item := range items {
		eg.Go(func() error {
			rendered, err := prompt.Render(template, item.Fields)
			if err != nil {
				var missing *prompt.MissingFieldError
				if errors.As(err, &missing) {
					renderErr := stderrors.NewTemplateMissingFieldError(missing.Field, item.Key)
					log.WithError(renderErr).Warn("skipping item, template field missing", map[string]interface{}{
						"itemKey": item.Key,
						"field":   missing.Field,
					})
					metrics.GenerationFailures.WithLabelValues(category, string(stderrors.ErrCodeTemplateMissingField)).Inc()
					return nil
				}
				return err
			}

			if g.cfg.Debug {
				log.Info("debug mode, request not sent", map[string]interface{}{
					"itemKey": item.Key,
					"prompt":  rendered,
				})
				stub := fmt.Sprintf(`{"debug": true, "key": %q, "prompt_shown": true}`, item.Key)
				results[i] = &output.Result{Key: item.Key, Content: &stub}
				return nil
			}

			if err := waitTurn(gctx); err != nil {
				return err
			}

			metrics.GenerationRequests.WithLabelValues(category).Inc()
			start := time.Now()
			text, err := g.client.Generate(gctx, rendered)
			metrics.GenerationDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())

			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				code := failureCode(err)
				log.WithError(err).Error("generation failed for item", map[string]interface{}{
					"itemKey":   item.Key,
					"language":  lang,
					"errorCode": code,
				})
				metrics.GenerationFailures.WithLabelValues(category, code).Inc()
				results[i] = &output.Result{Key: item.Key, Content: nil, Error: code}
				return nil
			}

			content := strings.TrimSpace(text)
			results[i] = &output.Result{Key: item.Key, Content: &content}
			metrics.ItemsProcessed.WithLabelValues(category, lang).Inc()
			log.Debug("item processed", map[string]interface{}{"itemKey": item.Key})
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		// Cancellation or an unexpected render error: abandon the whole
		// document rather than persisting a partial one.
		return nil, fmt.Errorf("generation for language %s aborted: %w", lang, err)
	}

	return results, nil
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, genai.ErrGenerationTimeout):
		return string(stderrors.ErrCodeGenerationTimeout)
	case errors.Is(err, genai.ErrRequestRejected):
		return "GENERATION_REJECTED"
	default:
		return string(stderrors.ErrCodeGenerationFailed)
	}
}
