package sync

import (
	"testing"

	"github.com/harperreed/yongu/models"
)

func TestMatchContactByEmail(t *testing.T) {
	existing := []models.Contact{
		{ID: "a", Name: "Alice", Email: "alice@example.com"},
		{ID: "b", Name: "Bob", Email: "bob@example.com"},
		{ID: "c", Name: "No Email"},
	}

	matcher := NewContactMatcher(existing)

	i, found := matcher.FindMatch(" Alice@Example.com ")
	if !found {
		t.Fatal("expected to find match for alice@example.com")
	}
	if existing[i].ID != "a" {
		t.Errorf("expected contact a, got %s", existing[i].ID)
	}

	if _, found := matcher.FindMatch("charlie@example.com"); found {
		t.Error("expected no match for charlie@example.com")
	}
	if _, found := matcher.FindMatch(""); found {
		t.Error("blank email must never match")
	}

	matcher.Add("charlie@example.com", 7)
	if i, found := matcher.FindMatch("CHARLIE@example.com"); !found || i != 7 {
		t.Errorf("expected session contact at 7, got %d %v", i, found)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice@Example.com", "alice@example.com"},
		{"alice.smith@example.com", "alice.smith@example.com"},
		{"ALICE@EXAMPLE.COM", "alice@example.com"},
		{"  bob@example.com\t", "bob@example.com"},
	}

	for _, tt := range tests {
		result := normalizeEmail(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
