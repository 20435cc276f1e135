// ABOUTME: Google Contacts importer merging into the CRM document
// ABOUTME: Email-matched deduplication; new contacts tagged google, existing ones only gain blanks
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/interchange"
	"github.com/harperreed/yongu/models"
)

// GoogleTag marks contacts created by a Google import.
const GoogleTag = "google"

var errNothingChanged = errors.New("nothing changed")

// ImportResult counts what an import did.
type ImportResult struct {
	Fetched int
	Created int
	Updated int
	Skipped int
}

// Print writes the summary in the CLI's check-mark style.
func (r ImportResult) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n✓ Fetched %d contacts from Google\n", r.Fetched)
	if r.Created+r.Updated == 0 {
		_, _ = fmt.Fprintln(w, "  ✓ No new contacts to import (all up to date)")
		return
	}
	if r.Created > 0 {
		_, _ = fmt.Fprintf(w, "  ✓ Created %d new contacts\n", r.Created)
	}
	if r.Updated > 0 {
		_, _ = fmt.Fprintf(w, "  ✓ Updated %d existing contacts\n", r.Updated)
	}
}

type ContactsImporter struct {
	ctrl   *app.Controller
	logger *log.Logger
}

func NewContactsImporter(ctrl *app.Controller, logger *log.Logger) *ContactsImporter {
	if logger == nil {
		logger = log.Default()
	}
	return &ContactsImporter{ctrl: ctrl, logger: logger}
}

// Import fetches from src and merges everything in one save.
func (ci *ContactsImporter) Import(ctx context.Context, src Source) (ImportResult, error) {
	contacts, err := src.FetchContacts(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	return ci.Apply(ctx, contacts)
}

// Apply merges already fetched contacts. Entries without a name or email
// are skipped.
func (ci *ContactsImporter) Apply(ctx context.Context, contacts []GoogleContact) (ImportResult, error) {
	res := ImportResult{Fetched: len(contacts)}

	err := ci.ctrl.Batch(ctx, func(doc *models.Document, now time.Time) error {
		matcher := NewContactMatcher(doc.Clients)
		for _, gc := range contacts {
			if gc.Email == "" || gc.Name == "" {
				res.Skipped++
				continue
			}
			if i, found := matcher.FindMatch(gc.Email); found {
				if mergeInto(&doc.Clients[i], gc) {
					res.Updated++
				}
				continue
			}
			doc.Clients = append(doc.Clients, newContact(gc, now))
			matcher.Add(gc.Email, len(doc.Clients)-1)
			res.Created++
		}
		if res.Created+res.Updated == 0 {
			return errNothingChanged
		}
		return nil
	})
	if errors.Is(err, errNothingChanged) {
		return res, nil
	}
	if err != nil {
		return res, err
	}

	ci.logger.Info("google import", "created", res.Created, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func newContact(gc GoogleContact, now time.Time) models.Contact {
	company := gc.Company
	if company == "" {
		company = interchange.UnknownCompany
	}
	c := models.NewContact(gc.Name, company, now)
	c.Email = gc.Email
	c.Phone = gc.Phone
	c.Role = gc.JobTitle
	c.Notes = gc.Notes
	c.AddTag(GoogleTag)
	return c
}

// mergeInto fills blanks only.
func mergeInto(c *models.Contact, gc GoogleContact) bool {
	updated := false
	if gc.Phone != "" && c.Phone == "" {
		c.Phone = gc.Phone
		updated = true
	}
	if gc.JobTitle != "" && c.Role == "" {
		c.Role = gc.JobTitle
		updated = true
	}
	if gc.Notes != "" && c.Notes == "" {
		c.Notes = gc.Notes
		updated = true
	}
	return updated
}
