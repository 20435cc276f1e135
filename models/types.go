// ABOUTME: Data models for the CRM document
// ABOUTME: Defines Document, Contact, LogEntry, and Profile structs
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Document is the unit of persistence: the profile, every contact, and the save stamp.
type Document struct {
	Clients     []Contact `json:"clients"`
	Profile     *Profile  `json:"profile"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Profile describes the freelancer who owns the document.
type Profile struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

type Contact struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Company         string     `json:"company"`
	Role            string     `json:"role,omitempty"`
	Status          Status     `json:"status"`
	Sector          Sector     `json:"sector"`
	Continent       Continent  `json:"continent"`
	StatusUpdatedAt time.Time  `json:"statusUpdatedAt"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Website         string     `json:"website,omitempty"`
	Location        string     `json:"location,omitempty"`
	Lat             *float64   `json:"lat,omitempty"`
	Lng             *float64   `json:"lng,omitempty"`
	Rate            string     `json:"rate,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Tags            []string   `json:"tags"`
	Logs            []LogEntry `json:"logs"`
	LastContactDate *time.Time `json:"lastContactDate,omitempty"`
	NextFollowUp    *time.Time `json:"nextFollowUpDate,omitempty"`
}

// LogEntry is one dated interaction with a contact.
type LogEntry struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Type  LogType   `json:"type"`
	Notes string    `json:"notes,omitempty"`
}

// NewDocument returns an empty document with no profile.
func NewDocument(now time.Time) *Document {
	return &Document{
		Clients:     []Contact{},
		LastUpdated: now,
	}
}

// Find returns the index of the contact with the given id, or -1.
func (d *Document) Find(id string) int {
	for i := range d.Clients {
		if d.Clients[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can't mutate shared state.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Clients:     make([]Contact, len(d.Clients)),
		LastUpdated: d.LastUpdated,
	}
	for i := range d.Clients {
		out.Clients[i] = d.Clients[i].Clone()
	}
	if d.Profile != nil {
		p := *d.Profile
		out.Profile = &p
	}
	return out
}

// NewContact mints a contact with a fresh id and empty tag/log sequences.
func NewContact(name, company string, now time.Time) Contact {
	return Contact{
		ID:              uuid.NewString(),
		Name:            name,
		Company:         company,
		Status:          DefaultStatus,
		Sector:          DefaultSector,
		Continent:       DefaultContinent,
		StatusUpdatedAt: now,
		Tags:            []string{},
		Logs:            []LogEntry{},
	}
}

// NewLogEntry mints a log entry with a time-sortable id.
func NewLogEntry(logType LogType, date time.Time, notes string) LogEntry {
	return LogEntry{
		ID:    ulid.Make().String(),
		Date:  date,
		Type:  logType,
		Notes: notes,
	}
}

func (c Contact) Clone() Contact {
	out := c
	out.Tags = append([]string{}, c.Tags...)
	out.Logs = append([]LogEntry{}, c.Logs...)
	if c.Lat != nil {
		v := *c.Lat
		out.Lat = &v
	}
	if c.Lng != nil {
		v := *c.Lng
		out.Lng = &v
	}
	if c.LastContactDate != nil {
		v := *c.LastContactDate
		out.LastContactDate = &v
	}
	if c.NextFollowUp != nil {
		v := *c.NextFollowUp
		out.NextFollowUp = &v
	}
	return out
}

// SetStatus changes the pipeline status. StatusUpdatedAt only moves when the
// status actually changes.
func (c *Contact) SetStatus(status Status, now time.Time) bool {
	if c.Status == status {
		return false
	}
	c.Status = status
	c.StatusUpdatedAt = now
	return true
}

// AddTag appends a tag unless it is blank or already present.
func (c *Contact) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, existing := range c.Tags {
		if existing == tag {
			return false
		}
	}
	c.Tags = append(c.Tags, tag)
	return true
}

// RemoveTag drops a tag, preserving the order of the rest.
func (c *Contact) RemoveTag(tag string) bool {
	for i, existing := range c.Tags {
		if existing == tag {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// AddLog inserts an entry keeping logs newest first. LastContactDate only
// ever moves forward.
func (c *Contact) AddLog(entry LogEntry) {
	pos := len(c.Logs)
	for i, existing := range c.Logs {
		if entry.Date.After(existing.Date) {
			pos = i
			break
		}
	}
	c.Logs = append(c.Logs, LogEntry{})
	copy(c.Logs[pos+1:], c.Logs[pos:])
	c.Logs[pos] = entry

	if c.LastContactDate == nil || entry.Date.After(*c.LastContactDate) {
		d := entry.Date
		c.LastContactDate = &d
	}
}

// RemoveLog deletes an entry by id. LastContactDate is left alone.
func (c *Contact) RemoveLog(id string) bool {
	for i, existing := range c.Logs {
		if existing.ID == id {
			c.Logs = append(c.Logs[:i], c.Logs[i+1:]...)
			return true
		}
	}
	return false
}

// DaysSinceContact returns whole days since the last interaction, or -1 if never contacted.
func (c *Contact) DaysSinceContact(now time.Time) int {
	if c.LastContactDate == nil {
		return -1
	}
	return int(now.Sub(*c.LastContactDate).Hours() / 24)
}

// FollowUpDue reports whether the next follow-up date has arrived.
func (c *Contact) FollowUpDue(now time.Time) bool {
	return c.NextFollowUp != nil && !c.NextFollowUp.After(now)
}
