// ABOUTME: Contact operations against /contacts
// ABOUTME: Updates and deletes address /contacts/{id}.json; delete is a soft delete
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func normalizeContact(c *models.Contact) { c.Normalize() }

func contactPath(id int64) string {
	return fmt.Sprintf("/contacts/%d.json", id)
}

// FetchContacts replaces the contact list with the backend's.
func (s *Store) FetchContacts(ctx context.Context) error {
	return s.Contacts.fetch(ctx, func(ctx context.Context) ([]models.Contact, error) {
		return fetchList(ctx, s.client, "/contacts", "contacts", normalizeContact)
	})
}

// CreateContact validates in and appends the created contact.
func (s *Store) CreateContact(ctx context.Context, in models.ContactInput) (models.Contact, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		s.Contacts.reject(OpCreate, 0, err)
		return models.Contact{}, err
	}
	return createEntity(ctx, s, s.Contacts, "/contacts", "contact", in, normalizeContact)
}

// UpdateContact patches the contact and replaces it in place.
func (s *Store) UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (models.Contact, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		s.Contacts.reject(OpUpdate, id, err)
		return models.Contact{}, err
	}
	return updateEntity(ctx, s, s.Contacts, id, contactPath(id), "contact", patch, normalizeContact)
}

// DeleteContact soft-deletes the contact and removes it from the list.
func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	return softDelete(ctx, s, s.Contacts, id, contactPath(id))
}
