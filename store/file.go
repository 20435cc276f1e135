// ABOUTME: File backend over a user-granted file handle
// ABOUTME: Open, create, and save whole documents through a platform picker
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/yongu/models"
)

// FileType restricts what a picker offers.
type FileType struct {
	Description string
	MIMEType    string
	Extensions  []string
}

// DocumentFileType is the native document format.
var DocumentFileType = FileType{
	Description: "Yongu CRM document",
	MIMEType:    "application/json",
	Extensions:  []string{".json", ".yongu"},
}

// Accepts reports whether name carries one of the declared extensions.
func (ft FileType) Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ft.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FileHandle is a file the user granted access to.
type FileHandle interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the whole file. Either the new contents land in full
	// or the call fails.
	Write(ctx context.Context, data []byte) error
}

// Picker is the platform file-picker capability. Dismissal returns ErrUserCancelled.
type Picker interface {
	PickOpen(ctx context.Context, ft FileType) (FileHandle, error)
	PickSave(ctx context.Context, ft FileType, suggestedName string) (FileHandle, error)
}

// DefaultFileName is suggested when creating a new document.
const DefaultFileName = "yongu-crm.yongu"

// FileBackend persists documents through picker-granted file handles.
type FileBackend struct {
	picker Picker
	seed   func(time.Time) []models.Contact
	now    func() time.Time
	logger *log.Logger
}

type FileOption func(*FileBackend)

// WithSeed replaces the demo contacts written by CreateNew.
func WithSeed(seed func(time.Time) []models.Contact) FileOption {
	return func(b *FileBackend) { b.seed = seed }
}

func WithFileClock(now func() time.Time) FileOption {
	return func(b *FileBackend) { b.now = now }
}

func WithFileLogger(logger *log.Logger) FileOption {
	return func(b *FileBackend) { b.logger = logger }
}

// NewFileBackend wraps a picker. A nil picker means the platform has no
// file-picker capability and every prompt fails with ErrUnsupportedPlatform.
func NewFileBackend(picker Picker, opts ...FileOption) *FileBackend {
	b := &FileBackend{picker: picker, seed: models.SeedContacts}
	for _, opt := range opts {
		opt(b)
	}
	b.now = orNow(b.now)
	b.logger = orDefault(b.logger)
	return b
}

// Supported reports whether a picker is available.
func (b *FileBackend) Supported() bool {
	return b.picker != nil
}

// OpenExisting prompts for a document file, reads and validates it.
func (b *FileBackend) OpenExisting(ctx context.Context) (*models.Document, FileHandle, error) {
	if b.picker == nil {
		return nil, nil, ErrUnsupportedPlatform
	}

	handle, err := b.picker.PickOpen(ctx, DocumentFileType)
	if err != nil {
		return nil, nil, err
	}

	doc, err := b.Read(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	return doc, handle, nil
}

// CreateNew prompts for a save location and writes a fresh seeded document
// there immediately, so the file exists before any edits.
func (b *FileBackend) CreateNew(ctx context.Context) (*models.Document, FileHandle, error) {
	if b.picker == nil {
		return nil, nil, ErrUnsupportedPlatform
	}

	handle, err := b.picker.PickSave(ctx, DocumentFileType, DefaultFileName)
	if err != nil {
		return nil, nil, err
	}

	now := b.now()
	doc := models.NewDocument(now)
	if b.seed != nil {
		doc.Clients = append(doc.Clients, b.seed(now)...)
	}

	if err := b.Save(ctx, handle, doc); err != nil {
		return nil, nil, err
	}
	b.logger.Info("created document", "file", handle.Name(), "contacts", len(doc.Clients))
	return doc, handle, nil
}

// Read loads and validates the document behind a handle.
func (b *FileBackend) Read(ctx context.Context, handle FileHandle) (*models.Document, error) {
	data, err := handle.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", handle.Name(), err)
	}

	v, err := Decode(data, b.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, handle.Name(), err)
	}
	reportRepairs(b.logger, handle.Name(), v)
	return v.Document, nil
}

// Save overwrites the file behind handle with the full pretty-printed document.
func (b *FileBackend) Save(ctx context.Context, handle FileHandle, doc *models.Document) error {
	if handle == nil {
		return fmt.Errorf("%w: no file handle", ErrWriteFailed)
	}
	data, err := Encode(doc, true)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := handle.Write(ctx, data); err != nil {
		if errors.Is(err, ErrWriteFailed) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, handle.Name(), err)
	}
	return nil
}

// Session binds a handle so the file can be used as a DocumentStore.
func (b *FileBackend) Session(handle FileHandle) *FileSession {
	return &FileSession{backend: b, handle: handle}
}

// FileSession is a FileBackend bound to one handle.
type FileSession struct {
	backend *FileBackend
	handle  FileHandle
}

func (s *FileSession) Load(ctx context.Context) (*models.Document, error) {
	return s.backend.Read(ctx, s.handle)
}

func (s *FileSession) Save(ctx context.Context, doc *models.Document) error {
	return s.backend.Save(ctx, s.handle, doc)
}

func (s *FileSession) Describe() string {
	return "file " + s.handle.Name()
}

// Handle returns the bound file handle.
func (s *FileSession) Handle() FileHandle {
	return s.handle
}
