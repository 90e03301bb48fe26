package sync

import (
	"testing"

	"github.com/harperreed/crmdesk/models"
)

func TestMatchContactByEmail(t *testing.T) {
	existing := []models.Contact{
		{ID: 1, FirstName: "Alice", Email: "alice@example.com"},
		{ID: 2, FirstName: "Bob", Email: "bob@example.com"},
		{ID: 3, FirstName: "Sam", Phone: "+971500000000"},
	}

	matcher := NewContactMatcher(existing)

	match, found := matcher.FindMatch("alice@example.com")
	if !found {
		t.Error("expected to find match for alice@example.com")
	}
	if match.ID != 1 {
		t.Errorf("expected contact 1, got %d", match.ID)
	}

	match, found = matcher.FindMatch("  BOB@example.COM ")
	if !found || match.ID != 2 {
		t.Error("expected case-insensitive match for bob")
	}

	if _, found = matcher.FindMatch("charlie@example.com"); found {
		t.Error("expected no match for charlie@example.com")
	}

	if _, found = matcher.FindMatch(""); found {
		t.Error("empty email must never match")
	}
}

func TestMatcherAddContact(t *testing.T) {
	matcher := NewContactMatcher(nil)

	matcher.AddContact(models.Contact{ID: 9, Email: "New@Example.com"})

	match, found := matcher.FindMatch("new@example.com")
	if !found || match.ID != 9 {
		t.Error("expected added contact to match")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice@Example.com", "alice@example.com"},
		{"alice.smith@example.com", "alice.smith@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		got := normalizeEmail(tt.input)
		if got != tt.expected {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
