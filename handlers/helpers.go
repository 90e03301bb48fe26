// ABOUTME: Shared helpers for MCP tool handlers
// ABOUTME: Name lookups against loaded slices and result limiting
package handlers

import (
	"context"
	"time"

	"github.com/harperreed/crmdesk/store"
)

const (
	defaultLimit = 50
	unknownName  = "Unknown"
)

func limitList[T any](list []T, limit int) []T {
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// loadForNames fetches contacts and users when nothing is loaded yet.
// Failures stay recorded on the slice and names fall back to "Unknown".
func loadForNames(ctx context.Context, s *store.Store) {
	if len(s.Contacts.List()) == 0 {
		_ = s.FetchContacts(ctx)
	}
	if len(s.Users.List()) == 0 {
		_ = s.FetchUsers(ctx)
	}
}

// userName resolves a user id against the loaded users.
func userName(s *store.Store, id int64) string {
	if u, ok := s.Users.Find(id); ok {
		return u.Name()
	}
	return unknownName
}

func contactName(s *store.Store, id int64) string {
	if c, ok := s.Contacts.Find(id); ok {
		return c.Name()
	}
	return unknownName
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
