// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email to prevent duplicates during import
package sync

import (
	"strings"

	"github.com/harperreed/yongu/models"
)

// ContactMatcher indexes contacts of one document by normalized email.
type ContactMatcher struct {
	byEmail map[string]int
}

// NewContactMatcher indexes contacts by position.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]int),
	}
	for i := range contacts {
		m.Add(contacts[i].Email, i)
	}
	return m
}

// FindMatch returns the index of the contact with this email.
func (m *ContactMatcher) FindMatch(email string) (int, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return -1, false
	}
	i, found := m.byEmail[normalized]
	return i, found
}

// Add records a contact created during the same import session. The first
// contact with a given email keeps it.
func (m *ContactMatcher) Add(email string, index int) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return
	}
	if _, exists := m.byEmail[normalized]; !exists {
		m.byEmail[normalized] = index
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
