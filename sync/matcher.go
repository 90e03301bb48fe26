// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email to prevent duplicates during import
package sync

import (
	"strings"

	"github.com/harperreed/crmdesk/models"
)

type ContactMatcher struct {
	byEmail map[string]models.Contact
}

// NewContactMatcher creates a matcher from existing contacts.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]models.Contact),
	}

	for _, c := range contacts {
		m.AddContact(c)
	}

	return m
}

// FindMatch looks for existing contact by email.
func (m *ContactMatcher) FindMatch(email string) (models.Contact, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return models.Contact{}, false
	}

	contact, found := m.byEmail[normalized]
	return contact, found
}

// AddContact adds a newly created contact to the matcher to prevent duplicates
// within the same import session.
func (m *ContactMatcher) AddContact(contact models.Contact) {
	email := normalizeEmail(contact.Email)
	if email != "" {
		m.byEmail[email] = contact
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
