package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testDocument() *models.Document {
	doc := models.NewDocument(now)

	recent := now.Add(-2 * 24 * time.Hour)
	old := now.Add(-45 * 24 * time.Hour)
	due := now.Add(-time.Hour)
	future := now.Add(72 * time.Hour)

	ana := models.NewContact("Ana Ruiz", "Foo", now)
	ana.Status = models.StatusActive
	ana.Continent = models.ContinentSouthAmerica
	ana.Sector = models.SectorFilm
	ana.LastContactDate = &recent
	ana.NextFollowUp = &due
	ana.AddLog(models.NewLogEntry(models.LogCall, recent, ""))

	bo := models.NewContact("Bo Lee", "Bar", now)
	bo.Status = models.StatusNegotiating
	bo.Continent = models.ContinentAsia
	bo.Sector = models.SectorGames
	bo.LastContactDate = &old
	bo.NextFollowUp = &future

	cy := models.NewContact("Cy Moss", "Baz", now)
	cy.Status = models.Status("Ghosted")
	cy.Continent = models.ContinentAsia
	cy.Sector = models.SectorGames

	done := models.NewContact("Di Park", "Qux", now)
	done.Status = models.StatusCompleted

	doc.Clients = []models.Contact{ana, bo, cy, done}
	return doc
}

func TestGenerateDashboardStats(t *testing.T) {
	stats := GenerateDashboardStats(testDocument(), now)

	assert.Equal(t, 4, stats.TotalContacts)
	assert.Equal(t, 1, stats.TotalLogs)
	assert.Equal(t, 1, stats.ByStatus[models.StatusActive])
	assert.Equal(t, 1, stats.ByStatus[models.Status("Ghosted")])
	assert.Equal(t, 2, stats.ByContinent[models.ContinentAsia])
	assert.Equal(t, 2, stats.BySector[models.SectorGames])

	require.Len(t, stats.FollowUpsDue, 1)
	assert.Equal(t, "Ana Ruiz", stats.FollowUpsDue[0].Name)

	require.Len(t, stats.StaleContacts, 2, "completed contacts are not stale")
	assert.Equal(t, StaleContact{Name: "Bo Lee", DaysSince: 45}, stats.StaleContacts[0])
	assert.Equal(t, StaleContact{Name: "Cy Moss", DaysSince: -1}, stats.StaleContacts[1])
}

func TestGenerateDashboardStatsNilDocument(t *testing.T) {
	stats := GenerateDashboardStats(nil, now)
	assert.Zero(t, stats.TotalContacts)
	assert.NotNil(t, stats.ByStatus)
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(testDocument(), now))

	assert.Contains(t, out, "YONGU CRM DASHBOARD")
	assert.Contains(t, out, "PIPELINE OVERVIEW")
	assert.Contains(t, out, "BY CONTINENT")
	assert.Contains(t, out, "4 contacts")
	assert.Contains(t, out, "1 follow-ups due")
	assert.Contains(t, out, "Ana Ruiz (2025-06-01)")
	assert.Contains(t, out, "2 contacts - no contact in 30+ days")

	// Board order, unknown statuses last.
	oldIdx := strings.Index(out, "  Old ")
	archivedIdx := strings.Index(out, "  Archived ")
	ghostIdx := strings.Index(out, "  Ghosted ")
	assert.True(t, oldIdx >= 0 && oldIdx < archivedIdx && archivedIdx < ghostIdx)

	// Max count gets the full bar.
	assert.Contains(t, out, "Asia          ██████████   2")
}

func TestRenderDashboardEmpty(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(models.NewDocument(now), now))
	assert.Contains(t, out, "0 contacts")
	assert.NotContains(t, out, "NEEDS ATTENTION")
	assert.Contains(t, out, "░░░░░░░░░░")
}
