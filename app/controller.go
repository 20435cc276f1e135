// ABOUTME: Application state controller owning the in-memory document
// ABOUTME: Routes every mutation through the active DocumentStore, one save at a time
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/yongu/interchange"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/store"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrLogNotFound     = errors.New("interaction log not found")
	ErrNoStore         = errors.New("no document store is active")
	ErrInvalidContact  = errors.New("contact needs a name and a company")
)

// Controller is the only writer of persisted state. Reads return copies.
type Controller struct {
	mu    sync.Mutex
	doc   *models.Document
	store store.DocumentStore

	// saveMu serializes saves; each save writes the latest document.
	saveMu sync.Mutex
	saving atomic.Int32

	codec  *interchange.Codec
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithCodec(codec *interchange.Codec) Option {
	return func(c *Controller) { c.codec = codec }
}

// New wraps an already loaded document. A nil document starts empty.
func New(st store.DocumentStore, doc *models.Document, opts ...Option) *Controller {
	c := &Controller{store: st}
	for _, opt := range opts {
		opt(c)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.codec == nil {
		c.codec = interchange.NewCodec()
	}
	if doc == nil {
		doc = models.NewDocument(c.now())
	}
	c.doc = doc
	return c
}

// Open loads the document from st. An empty store is seeded with demo
// contacts and saved so the next launch finds it.
func Open(ctx context.Context, st store.DocumentStore, opts ...Option) (*Controller, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	doc, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		return New(st, doc, opts...), nil
	}

	c := New(st, nil, opts...)
	c.doc.Clients = models.SeedContacts(c.now())
	c.logger.Info("no document found, starting with demo contacts", "store", st.Describe())
	if err := c.Save(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Document returns a copy of the current document.
func (c *Controller) Document() *models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Store returns the active backend.
func (c *Controller) Store() store.DocumentStore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store
}

// Saving reports whether a save is in flight.
func (c *Controller) Saving() bool {
	return c.saving.Load() > 0
}

// SwitchStore points the controller at another backend. A non-nil doc
// replaces the in-memory document; nothing is written.
func (c *Controller) SwitchStore(st store.DocumentStore, doc *models.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = st
	if doc != nil {
		c.doc = doc
	}
}

// Save writes the current document to the active store.
func (c *Controller) Save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	c.saving.Add(1)
	defer c.saving.Add(-1)

	c.mu.Lock()
	st := c.store
	c.doc.LastUpdated = c.now()
	snapshot := c.doc.Clone()
	c.mu.Unlock()

	if st == nil {
		return ErrNoStore
	}
	if err := st.Save(ctx, snapshot); err != nil {
		c.logger.Error("save failed", "store", st.Describe(), "err", err)
		return err
	}
	c.logger.Debug("saved document", "store", st.Describe(), "contacts", len(snapshot.Clients))
	return nil
}

// mutate applies fn to the document and persists. A failed save leaves the
// change in memory and returns the error.
func (c *Controller) mutate(ctx context.Context, fn func(doc *models.Document, now time.Time) error) error {
	c.mu.Lock()
	if c.store == nil {
		c.mu.Unlock()
		return ErrNoStore
	}
	if err := fn(c.doc, c.now()); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	return c.Save(ctx)
}

// Batch applies fn to the live document and persists once. fn must not
// retain doc.
func (c *Controller) Batch(ctx context.Context, fn func(doc *models.Document, now time.Time) error) error {
	return c.mutate(ctx, fn)
}

func (c *Controller) withContact(ctx context.Context, id string, fn func(ct *models.Contact, now time.Time) error) error {
	return c.mutate(ctx, func(doc *models.Document, now time.Time) error {
		i := doc.Find(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrContactNotFound, id)
		}
		return fn(&doc.Clients[i], now)
	})
}

// Contacts returns copies of the contacts matching f, in document order.
func (c *Controller) Contacts(f Filter) []models.Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Contact
	for i := range c.doc.Clients {
		if f.Match(&c.doc.Clients[i]) {
			out = append(out, c.doc.Clients[i].Clone())
		}
	}
	return out
}

// Contact returns a copy of one contact.
func (c *Controller) Contact(id string) (models.Contact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.doc.Find(id)
	if i < 0 {
		return models.Contact{}, fmt.Errorf("%w: %s", ErrContactNotFound, id)
	}
	return c.doc.Clients[i].Clone(), nil
}

// AddContact appends a contact, minting an id when it has none.
func (c *Controller) AddContact(ctx context.Context, ct models.Contact) (models.Contact, error) {
	if err := checkContact(&ct); err != nil {
		return models.Contact{}, err
	}
	err := c.mutate(ctx, func(doc *models.Document, now time.Time) error {
		if ct.ID == "" || doc.Find(ct.ID) >= 0 {
			ct.ID = uuid.NewString()
		}
		fillContact(&ct, now)
		doc.Clients = append(doc.Clients, ct.Clone())
		return nil
	})
	return ct, err
}

// UpdateContact replaces the contact with the same id. StatusUpdatedAt is
// kept unless the status changed.
func (c *Controller) UpdateContact(ctx context.Context, ct models.Contact) error {
	if err := checkContact(&ct); err != nil {
		return err
	}
	return c.withContact(ctx, ct.ID, func(existing *models.Contact, now time.Time) error {
		next := ct.Clone()
		next.StatusUpdatedAt = existing.StatusUpdatedAt
		fillContact(&next, now)
		if next.Status != existing.Status {
			next.StatusUpdatedAt = now
		}
		*existing = next
		return nil
	})
}

func (c *Controller) SetStatus(ctx context.Context, id string, status models.Status) error {
	return c.withContact(ctx, id, func(ct *models.Contact, now time.Time) error {
		ct.SetStatus(status, now)
		return nil
	})
}

// DeleteContact removes a contact for good.
func (c *Controller) DeleteContact(ctx context.Context, id string) error {
	return c.mutate(ctx, func(doc *models.Document, _ time.Time) error {
		i := doc.Find(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrContactNotFound, id)
		}
		doc.Clients = append(doc.Clients[:i], doc.Clients[i+1:]...)
		return nil
	})
}

// AddLog records an interaction. A zero date means now.
func (c *Controller) AddLog(ctx context.Context, contactID string, entry models.LogEntry) (models.LogEntry, error) {
	err := c.withContact(ctx, contactID, func(ct *models.Contact, now time.Time) error {
		if entry.ID == "" {
			entry.ID = ulid.Make().String()
		}
		if entry.Date.IsZero() {
			entry.Date = now
		}
		if entry.Type == "" {
			entry.Type = models.LogEmail
		}
		ct.AddLog(entry)
		return nil
	})
	return entry, err
}

func (c *Controller) RemoveLog(ctx context.Context, contactID, logID string) error {
	return c.withContact(ctx, contactID, func(ct *models.Contact, _ time.Time) error {
		if !ct.RemoveLog(logID) {
			return fmt.Errorf("%w: %s", ErrLogNotFound, logID)
		}
		return nil
	})
}

func (c *Controller) SetProfile(ctx context.Context, p models.Profile) error {
	return c.mutate(ctx, func(doc *models.Document, _ time.Time) error {
		doc.Profile = &p
		return nil
	})
}

// ImportContacts appends contacts in order.
func (c *Controller) ImportContacts(ctx context.Context, contacts []models.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}
	err := c.mutate(ctx, func(doc *models.Document, now time.Time) error {
		for _, ct := range contacts {
			ct = ct.Clone()
			if ct.ID == "" || doc.Find(ct.ID) >= 0 {
				ct.ID = uuid.NewString()
			}
			fillContact(&ct, now)
			doc.Clients = append(doc.Clients, ct)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// ExportCSV renders every contact in interchange form.
func (c *Controller) ExportCSV() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.Export(c.doc.Clients)
}

// ImportCSV parses text and appends the usable rows.
func (c *Controller) ImportCSV(ctx context.Context, text string) (interchange.ImportResult, error) {
	res, err := c.codec.Import(text)
	if err != nil {
		return res, err
	}
	for _, w := range res.Warnings {
		c.logger.Warn("csv import", "warning", w)
	}
	if _, err := c.ImportContacts(ctx, res.Contacts); err != nil {
		return res, err
	}
	return res, nil
}

// FollowUps returns contacts whose follow-up date has arrived, oldest first.
func (c *Controller) FollowUps(now time.Time) []models.Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	var due []models.Contact
	for i := range c.doc.Clients {
		if c.doc.Clients[i].FollowUpDue(now) {
			due = append(due, c.doc.Clients[i].Clone())
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextFollowUp.Before(*due[j].NextFollowUp)
	})
	return due
}

func checkContact(ct *models.Contact) error {
	ct.Name = strings.TrimSpace(ct.Name)
	ct.Company = strings.TrimSpace(ct.Company)
	if ct.Name == "" || ct.Company == "" {
		return ErrInvalidContact
	}
	return nil
}

func fillContact(ct *models.Contact, now time.Time) {
	if ct.Status == "" {
		ct.Status = models.DefaultStatus
	}
	if ct.Sector == "" {
		ct.Sector = models.DefaultSector
	}
	if ct.Continent == "" {
		ct.Continent = models.DefaultContinent
	}
	if ct.StatusUpdatedAt.IsZero() {
		ct.StatusUpdatedAt = now
	}
	if ct.Tags == nil {
		ct.Tags = []string{}
	}
	if ct.Logs == nil {
		ct.Logs = []models.LogEntry{}
	}
}
