// ABOUTME: Local backend over a single well-known key-value slot
// ABOUTME: Lenient loads, quota-checked compact saves
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/yongu/models"
)

// SlotKey is the fixed key the whole application lives under.
const SlotKey = "yongu-crm-data"

// DefaultQuota mirrors the per-origin ceiling of browser local storage.
const DefaultQuota = 5 << 20

// Slot is a key-value store with one-shot reads and writes. Get returns an
// error wrapping ErrSlotEmpty when the key holds nothing.
type Slot interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// LocalBackend keeps the document in a single slot.
type LocalBackend struct {
	slot     Slot
	key      []byte
	maxBytes int
	now      func() time.Time
	logger   *log.Logger
}

type LocalOption func(*LocalBackend)

// WithQuota sets the largest encoded document the slot accepts. Zero or
// negative disables the check.
func WithQuota(maxBytes int) LocalOption {
	return func(b *LocalBackend) { b.maxBytes = maxBytes }
}

func WithLocalClock(now func() time.Time) LocalOption {
	return func(b *LocalBackend) { b.now = now }
}

func WithLocalLogger(logger *log.Logger) LocalOption {
	return func(b *LocalBackend) { b.logger = logger }
}

func NewLocalBackend(slot Slot, opts ...LocalOption) *LocalBackend {
	b := &LocalBackend{
		slot:     slot,
		key:      []byte(SlotKey),
		maxBytes: DefaultQuota,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.now = orNow(b.now)
	b.logger = orDefault(b.logger)
	return b
}

// Load returns the stored document. An empty slot and an unparseable one
// both come back as nil with no error: there is no file to blame.
func (b *LocalBackend) Load(ctx context.Context) (*models.Document, error) {
	if b.slot == nil {
		return nil, ErrUnsupportedPlatform
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := b.slot.Get(b.key)
	if errors.Is(err, ErrSlotEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local slot: %w", err)
	}

	v, err := Decode(data, b.now())
	if err != nil {
		b.logger.Warn("local slot is corrupt, treating as empty", "key", SlotKey, "err", err)
		return nil, nil
	}
	reportRepairs(b.logger, SlotKey, v)
	return v.Document, nil
}

// Save overwrites the slot. Rejections are always surfaced.
func (b *LocalBackend) Save(ctx context.Context, doc *models.Document) error {
	if b.slot == nil {
		return ErrUnsupportedPlatform
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(doc, false)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if b.maxBytes > 0 && len(data) > b.maxBytes {
		return fmt.Errorf("%w: %w: document is %d bytes, limit %d", ErrWriteFailed, ErrQuotaExceeded, len(data), b.maxBytes)
	}

	if err := b.slot.Set(b.key, data); err != nil {
		return fmt.Errorf("%w: local slot: %w", ErrWriteFailed, err)
	}
	return nil
}

// Clear removes the stored document.
func (b *LocalBackend) Clear(ctx context.Context) error {
	if b.slot == nil {
		return ErrUnsupportedPlatform
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.slot.Delete(b.key); err != nil && !errors.Is(err, ErrSlotEmpty) {
		return fmt.Errorf("failed to clear local slot: %w", err)
	}
	return nil
}

func (b *LocalBackend) Describe() string {
	return "local slot " + SlotKey
}
