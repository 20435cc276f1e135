// ABOUTME: Backend selection for the CLI: file document or local slot
// ABOUTME: Opens the configured store and hands back a ready Controller
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/charm"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/db"
	"github.com/harperreed/yongu/interchange"
	"github.com/harperreed/yongu/store"
)

// now is the CLI clock.
var now = time.Now

// Env is what the process hands to commands that talk to a backend.
type Env struct {
	Config      *config.Config
	Logger      *log.Logger
	In          io.Reader
	Out         io.Writer
	Interactive bool

	// Overwrite lets a path given with --document replace an existing file.
	Overwrite bool
}

// Picker returns the file picker for this process, or nil when neither a
// document path nor a terminal is available.
func (e *Env) Picker() store.Picker {
	picker := store.DetectPicker(e.Config.DocumentPath, e.Interactive, e.In, e.Out)
	if p, ok := picker.(store.PathPicker); ok {
		p.Overwrite = e.Overwrite
		return p
	}
	return picker
}

// FileBackend builds the file backend around the process picker.
func (e *Env) FileBackend(opts ...store.FileOption) *store.FileBackend {
	opts = append([]store.FileOption{store.WithFileLogger(e.Logger)}, opts...)
	return store.NewFileBackend(e.Picker(), opts...)
}

// OpenSlot opens the configured local slot engine. The returned func
// releases it.
func (e *Env) OpenSlot() (store.Slot, func(), error) {
	switch e.Config.SlotEngine {
	case config.SlotEngineSQLite:
		path := e.Config.SQLitePath
		if path == "" {
			path = db.DefaultPath()
		}
		database, err := db.OpenDatabase(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open slot database: %w", err)
		}
		e.Logger.Debug("local slot", "engine", "sqlite", "path", path)
		return db.NewSlotStore(database), func() { _ = database.Close() }, nil
	default:
		client, err := charm.GetClient()
		if err != nil {
			return nil, nil, err
		}
		e.Logger.Debug("local slot", "engine", "charm", "host", client.Config().Host)
		return client, func() { _ = client.Close() }, nil
	}
}

// OpenController loads the configured backend. The file backend reads the
// picked document; the local backend seeds an empty slot.
func (e *Env) OpenController(ctx context.Context) (*app.Controller, func(), error) {
	opts := []app.Option{
		app.WithLogger(e.Logger),
		app.WithCodec(e.Codec()),
	}

	switch e.Config.Backend {
	case config.BackendFile:
		backend := e.FileBackend()
		if !backend.Supported() {
			return nil, nil, fmt.Errorf("%w: pass --document or run from a terminal", store.ErrUnsupportedPlatform)
		}
		doc, handle, err := backend.OpenExisting(ctx)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w (create one with 'yongu init')", err)
			}
			return nil, nil, err
		}
		return app.New(backend.Session(handle), doc, opts...), func() {}, nil

	default:
		slot, release, err := e.OpenSlot()
		if err != nil {
			return nil, nil, err
		}
		local := store.NewLocalBackend(slot,
			store.WithQuota(e.Config.QuotaBytes),
			store.WithLocalLogger(e.Logger),
		)
		ctrl, err := app.Open(ctx, local, opts...)
		if err != nil {
			release()
			return nil, nil, err
		}
		return ctrl, release, nil
	}
}

// Codec is the CSV codec with the configured date layout.
func (e *Env) Codec() *interchange.Codec {
	codec := interchange.NewCodec()
	if e.Config.DateLayout != "" {
		codec.DateLayout = e.Config.DateLayout
	}
	return codec
}
