// ABOUTME: Tests for document model behaviour
// ABOUTME: Covers status stamping, tag dedupe, log ordering, and enum parsing
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewContact(t *testing.T) {
	c := NewContact("Ana Ruiz", "Foo, Inc.", t0)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, DefaultStatus, c.Status)
	assert.Equal(t, DefaultContinent, c.Continent)
	assert.Equal(t, t0, c.StatusUpdatedAt)
	assert.NotNil(t, c.Tags)
	assert.NotNil(t, c.Logs)

	other := NewContact("Ana Ruiz", "Foo, Inc.", t0)
	assert.NotEqual(t, c.ID, other.ID)
}

func TestSetStatusOnlyStampsOnChange(t *testing.T) {
	c := NewContact("Ana", "Foo", t0)
	later := t0.Add(time.Hour)

	assert.False(t, c.SetStatus(DefaultStatus, later))
	assert.Equal(t, t0, c.StatusUpdatedAt)

	assert.True(t, c.SetStatus(StatusActive, later))
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, later, c.StatusUpdatedAt)
}

func TestAddTagDeduplicates(t *testing.T) {
	c := NewContact("Ana", "Foo", t0)

	assert.True(t, c.AddTag("Nuke"))
	assert.True(t, c.AddTag(" Pipeline "))
	assert.False(t, c.AddTag("Nuke"))
	assert.False(t, c.AddTag("   "))

	assert.Equal(t, []string{"Nuke", "Pipeline"}, c.Tags)

	assert.True(t, c.RemoveTag("Nuke"))
	assert.Equal(t, []string{"Pipeline"}, c.Tags)
}

func TestAddLogAdvancesLastContactDate(t *testing.T) {
	c := NewContact("Ana", "Foo", t0)

	c.AddLog(NewLogEntry(LogCall, t0, "first"))
	require.NotNil(t, c.LastContactDate)
	assert.Equal(t, t0, *c.LastContactDate)

	later := t0.AddDate(0, 0, 3)
	c.AddLog(NewLogEntry(LogEmail, later, "later"))
	assert.Equal(t, later, *c.LastContactDate)

	earlier := t0.AddDate(0, 0, -10)
	c.AddLog(NewLogEntry(LogMeeting, earlier, "backfilled"))
	assert.Equal(t, later, *c.LastContactDate, "earlier log must not regress last contact")

	require.Len(t, c.Logs, 3)
	assert.Equal(t, "later", c.Logs[0].Notes)
	assert.Equal(t, "first", c.Logs[1].Notes)
	assert.Equal(t, "backfilled", c.Logs[2].Notes)
}

func TestRemoveLog(t *testing.T) {
	c := NewContact("Ana", "Foo", t0)
	entry := NewLogEntry(LogSocial, t0, "liked a post")
	c.AddLog(entry)

	assert.True(t, c.RemoveLog(entry.ID))
	assert.False(t, c.RemoveLog(entry.ID))
	assert.Empty(t, c.Logs)
	assert.NotNil(t, c.LastContactDate)
}

func TestFollowUpHelpers(t *testing.T) {
	c := NewContact("Ana", "Foo", t0)
	assert.Equal(t, -1, c.DaysSinceContact(t0))
	assert.False(t, c.FollowUpDue(t0))

	c.AddLog(NewLogEntry(LogCall, t0.AddDate(0, 0, -5), ""))
	assert.Equal(t, 5, c.DaysSinceContact(t0))

	due := t0.AddDate(0, 0, -1)
	c.NextFollowUp = &due
	assert.True(t, c.FollowUpDue(t0))
}

func TestStatusFromCell(t *testing.T) {
	tests := []struct {
		cell  string
		want  Status
		known bool
	}{
		{"", DefaultStatus, true},
		{"active", StatusActive, true},
		{" Negotiating ", StatusNegotiating, true},
		{"Ghosted", Status("Ghosted"), false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := StatusFromCell(tt.cell)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.known, got.Known())
		})
	}
}

func TestStatusNextPrev(t *testing.T) {
	assert.Equal(t, StatusContacted, StatusNew.Next())
	assert.Equal(t, StatusOld, StatusNew.Prev())
	assert.Equal(t, StatusArchived, StatusArchived.Next())
	assert.Equal(t, StatusOld, StatusOld.Prev())
}

func TestDocumentJSONShape(t *testing.T) {
	doc := NewDocument(t0)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["clients"])
	assert.Nil(t, raw["profile"])
	assert.Equal(t, "2025-03-14T09:30:00Z", raw["lastUpdated"])
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument(t0)
	c := NewContact("Ana", "Foo", t0)
	c.Tags = []string{"a"}
	doc.Clients = append(doc.Clients, c)
	doc.Profile = &Profile{Name: "Me", Industry: "VFX"}

	cp := doc.Clone()
	cp.Clients[0].Tags[0] = "changed"
	cp.Profile.Name = "Other"

	assert.Equal(t, "a", doc.Clients[0].Tags[0])
	assert.Equal(t, "Me", doc.Profile.Name)
	assert.Equal(t, 0, doc.Find(c.ID))
	assert.Equal(t, -1, doc.Find("missing"))
}

func TestSeedContacts(t *testing.T) {
	seed := SeedContacts(t0)
	require.NotEmpty(t, seed)
	for _, c := range seed {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
		assert.True(t, c.Status.Known())
	}
}
