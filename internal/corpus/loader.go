package corpus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cbeta-search/internal/domain"
)

// LoadDir reads every JSON document file in dir into memory. A file that
// cannot be read or parsed, or that lacks an id, is logged and skipped;
// an unreadable directory is an error because the engine cannot start
// without a corpus.
func LoadDir(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory %s: %w", dir, err)
	}
	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := loadFile(path)
		if err != nil {
			slog.Warn("skipping corpus file", "file", entry.Name(), "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	slog.Info("corpus loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

func loadFile(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("parse: %w", err)
	}
	if strings.TrimSpace(doc.ID) == "" {
		return domain.Document{}, fmt.Errorf("document has no id")
	}
	return doc, nil
}

// FindTitle returns the title of the document with the given ID, or an
// empty string when the document is unknown.
func FindTitle(docs []domain.Document, docID string) string {
	for _, doc := range docs {
		if doc.ID == docID {
			return doc.Title
		}
	}
	return ""
}
