// ABOUTME: Shared argument parsing for CLI commands
// ABOUTME: Contact lookup by id or name, strict enum flags, and lenient dates
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

var errAmbiguous = errors.New("more than one contact matches")

// resolveContact finds a contact by exact id, unique id prefix, or unique
// case-insensitive name.
func resolveContact(ctrl *app.Controller, ref string) (models.Contact, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Contact{}, fmt.Errorf("contact id or name is required")
	}
	if c, err := ctrl.Contact(ref); err == nil {
		return c, nil
	}

	var byPrefix, byName []models.Contact
	for _, c := range ctrl.Contacts(app.Filter{}) {
		if strings.HasPrefix(c.ID, ref) {
			byPrefix = append(byPrefix, c)
		}
		if strings.EqualFold(c.Name, ref) {
			byName = append(byName, c)
		}
	}
	for _, matches := range [][]models.Contact{byPrefix, byName} {
		switch len(matches) {
		case 0:
		case 1:
			return matches[0], nil
		default:
			return models.Contact{}, fmt.Errorf("%w %q; use the id", errAmbiguous, ref)
		}
	}
	return models.Contact{}, fmt.Errorf("%w: %s", app.ErrContactNotFound, ref)
}

func parseStatus(s string) (models.Status, error) {
	if v, ok := models.ParseStatus(s); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown status %q (want one of: %s)", s, joinLabels(models.Statuses))
}

func parseSector(s string) (models.Sector, error) {
	if v, ok := models.ParseSector(s); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown sector %q (want one of: %s)", s, joinLabels(models.Sectors))
}

func parseContinent(s string) (models.Continent, error) {
	if v, ok := models.ParseContinent(s); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown continent %q (want one of: %s)", s, joinLabels(models.Continents))
}

func parseLogType(s string) (models.LogType, error) {
	if v, ok := models.ParseLogType(s); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown interaction type %q (want one of: %s)", s, joinLabels(models.LogTypes))
}

// parseDate accepts anything dateparse understands, read in local time.
func parseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseLocal(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func joinLabels[T ~string](labels []T) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
