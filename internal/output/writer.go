// internal/output/writer.go

// Package output serializes finished generation results into the versioned
// JSON documents the downstream apps consume.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	stderrors "astrogen/internal/common/errors"
)

// Result is the outcome for one (item, language) pair. A failed item keeps
// its slot with a null content and an error code so it is distinguishable
// from real content and can be re-run later.
type Result struct {
	Key     string  `json:"key"`
	Content *string `json:"content"`
	Error   string  `json:"error,omitempty"`
}

// Document is the persisted result for one (category, language) pair.
type Document struct {
	GeneratedAt string   `json:"generated_at"`
	Language    string   `json:"language"`
	TotalItems  int      `json:"total_items"`
	Data        []Result `json:"data"`
}

// NewDocument stamps a fresh document. total_items always equals len(data).
func NewDocument(language string, data []Result) Document {
	return Document{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Language:    language,
		TotalItems:  len(data),
		Data:        data,
	}
}

// PathFor derives the deterministic output path for a (language, basename)
// pair: {dir}/{language}_{base}.json. A trailing .json on base is tolerated.
func PathFor(dir, language, base string) string {
	base = strings.TrimSuffix(base, ".json")
	return filepath.Join(dir, language+"_"+base+".json")
}

// Write persists the document at path, creating directories and overwriting
// any existing file. Two-space indent, HTML escaping off so generated text
// round-trips byte-identical.
func Write(doc Document, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stderrors.NewOutputWriteFailedError(path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return stderrors.NewOutputWriteFailedError(path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return stderrors.NewOutputWriteFailedError(path, err)
	}

	if err := f.Close(); err != nil {
		return stderrors.NewOutputWriteFailedError(path, err)
	}
	return nil
}

// Read loads a previously written document (used by the translator).
func Read(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
