// ABOUTME: Backend-agnostic document store interface and JSON encoding
// ABOUTME: Both the file and local backends satisfy DocumentStore
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/yongu/models"
)

// DocumentStore is what the application controller persists through. It
// never retains the documents it is handed.
type DocumentStore interface {
	// Load returns the stored document, or nil with no error when nothing is stored.
	Load(ctx context.Context) (*models.Document, error)
	// Save replaces the stored document as a whole.
	Save(ctx context.Context, doc *models.Document) error
	// Describe names the store for status lines and logs.
	Describe() string
}

// Encode serializes a document in the persisted format. indent selects the
// pretty 2-space form used for files.
func Encode(doc *models.Document, indent bool) ([]byte, error) {
	out := normalize(doc)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize returns a shallow copy whose sequences are never null on the wire.
func normalize(doc *models.Document) models.Document {
	out := models.Document{LastUpdated: doc.LastUpdated, Profile: doc.Profile}
	out.Clients = make([]models.Contact, len(doc.Clients))
	for i, c := range doc.Clients {
		if c.Tags == nil {
			c.Tags = []string{}
		}
		if c.Logs == nil {
			c.Logs = []models.LogEntry{}
		}
		out.Clients[i] = c
	}
	return out
}

func reportRepairs(logger *log.Logger, source string, v Validated) {
	switch v.Verdict {
	case VerdictRepaired:
		logger.Warn("document repaired", "source", source, "problems", v.Problems)
	case VerdictDefault:
		logger.Warn("document unusable, starting empty", "source", source, "problems", v.Problems)
	}
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}

func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
