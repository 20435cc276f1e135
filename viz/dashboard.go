// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for pipeline, geography, and follow-ups
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/yongu/models"
)

// StaleAfterDays is how long since last contact before a contact needs attention.
const StaleAfterDays = 30

type DashboardStats struct {
	// Counts keyed by canonical label. Unknown labels kept verbatim are
	// counted under their own key.
	ByStatus    map[models.Status]int
	ByContinent map[models.Continent]int
	BySector    map[models.Sector]int

	TotalContacts int
	TotalLogs     int

	FollowUpsDue  []FollowUp
	StaleContacts []StaleContact
}

type FollowUp struct {
	Name string
	Due  time.Time
}

type StaleContact struct {
	Name      string
	DaysSince int // -1 means never contacted
}

func GenerateDashboardStats(doc *models.Document, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		ByStatus:    make(map[models.Status]int),
		ByContinent: make(map[models.Continent]int),
		BySector:    make(map[models.Sector]int),
	}
	if doc == nil {
		return stats
	}

	stats.TotalContacts = len(doc.Clients)
	for i := range doc.Clients {
		c := &doc.Clients[i]
		stats.ByStatus[c.Status]++
		stats.ByContinent[c.Continent]++
		stats.BySector[c.Sector]++
		stats.TotalLogs += len(c.Logs)

		if c.FollowUpDue(now) {
			stats.FollowUpsDue = append(stats.FollowUpsDue, FollowUp{Name: c.Name, Due: *c.NextFollowUp})
		}

		// Finished and archived work doesn't go stale.
		if c.Status == models.StatusCompleted || c.Status == models.StatusArchived {
			continue
		}
		days := c.DaysSinceContact(now)
		if days < 0 || days >= StaleAfterDays {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{Name: c.Name, DaysSince: days})
		}
	}

	sort.SliceStable(stats.FollowUpsDue, func(i, j int) bool {
		return stats.FollowUpsDue[i].Due.Before(stats.FollowUpsDue[j].Due)
	})
	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  YONGU CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderBars(&out, statusRows(stats.ByStatus))
	out.WriteString("\n")

	out.WriteString("BY CONTINENT\n")
	renderBars(&out, continentRows(stats.ByContinent))
	out.WriteString("\n")

	out.WriteString("BY SECTOR\n")
	renderBars(&out, sectorRows(stats.BySector))
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  📝 %d interactions\n\n", stats.TotalContacts, stats.TotalLogs))

	if len(stats.FollowUpsDue) > 0 || len(stats.StaleContacts) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.FollowUpsDue) > 0 {
			out.WriteString(fmt.Sprintf("  ⏰ %d follow-ups due\n", len(stats.FollowUpsDue)))
			for _, f := range stats.FollowUpsDue {
				out.WriteString(fmt.Sprintf("     %s (%s)\n", f.Name, f.Due.Format("2006-01-02")))
			}
		}

		if len(stats.StaleContacts) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts - no contact in %d+ days\n", len(stats.StaleContacts), StaleAfterDays))
		}
	}

	return out.String()
}

type barRow struct {
	label string
	count int
}

func statusRows(m map[models.Status]int) []barRow {
	var rows []barRow
	for _, s := range models.Statuses {
		rows = append(rows, barRow{string(s), m[s]})
	}
	for s, n := range m {
		if !s.Known() {
			rows = append(rows, barRow{string(s), n})
		}
	}
	return sortUnknownTail(rows, len(models.Statuses))
}

func continentRows(m map[models.Continent]int) []barRow {
	var rows []barRow
	for _, c := range models.Continents {
		rows = append(rows, barRow{string(c), m[c]})
	}
	for c, n := range m {
		if !c.Known() {
			rows = append(rows, barRow{string(c), n})
		}
	}
	return sortUnknownTail(rows, len(models.Continents))
}

func sectorRows(m map[models.Sector]int) []barRow {
	var rows []barRow
	for _, s := range models.Sectors {
		if m[s] > 0 {
			rows = append(rows, barRow{string(s), m[s]})
		}
	}
	known := len(rows)
	for s, n := range m {
		if !s.Known() {
			rows = append(rows, barRow{string(s), n})
		}
	}
	return sortUnknownTail(rows, known)
}

// sortUnknownTail orders the rows after the first known ones by label so map
// iteration order never leaks into the output.
func sortUnknownTail(rows []barRow, known int) []barRow {
	tail := rows[known:]
	sort.Slice(tail, func(i, j int) bool { return tail[i].label < tail[j].label })
	return rows
}

func renderBars(out *strings.Builder, rows []barRow) {
	// Find max count for scaling
	maxCount := 0
	for _, r := range rows {
		if r.count > maxCount {
			maxCount = r.count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, r := range rows {
		// Calculate bar length (0-10 blocks)
		barLength := (r.count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-13s %s  %2d\n", r.label, bar, r.count))
	}
}
