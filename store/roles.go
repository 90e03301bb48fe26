// ABOUTME: Role lookup against /roles/search
// ABOUTME: Roles are read-only
package store

import (
	"context"

	"github.com/harperreed/crmdesk/models"
)

// FetchRoles replaces the role list with the backend's.
func (s *Store) FetchRoles(ctx context.Context) error {
	return s.Roles.fetch(ctx, func(ctx context.Context) ([]models.Role, error) {
		return fetchList[models.Role](ctx, s.client, "/roles/search", "roles", nil)
	})
}
