// ABOUTME: Contact search and classification filters
// ABOUTME: Case-insensitive text query across the fields a user would type
package app

import (
	"strings"

	"github.com/harperreed/yongu/models"
)

// Filter selects contacts. Zero fields match everything.
type Filter struct {
	Query     string
	Status    models.Status
	Sector    models.Sector
	Continent models.Continent
	Tag       string
}

func (f Filter) Match(c *models.Contact) bool {
	if f.Status != "" && !strings.EqualFold(string(c.Status), string(f.Status)) {
		return false
	}
	if f.Sector != "" && !strings.EqualFold(string(c.Sector), string(f.Sector)) {
		return false
	}
	if f.Continent != "" && !strings.EqualFold(string(c.Continent), string(f.Continent)) {
		return false
	}
	if f.Tag != "" && !hasTag(c, f.Tag) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, s := range []string{c.Name, c.Company, c.Role, c.Email, c.Location, c.Notes} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func hasTag(c *models.Contact, tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
