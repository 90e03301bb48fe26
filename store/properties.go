// ABOUTME: Property operations against /properties
// ABOUTME: Locations are joined on read, see PropertiesWithLocations
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func propertyPath(id int64) string {
	return fmt.Sprintf("/properties/%d", id)
}

// FetchProperties replaces the property list with the backend's.
func (s *Store) FetchProperties(ctx context.Context) error {
	return s.Properties.fetch(ctx, func(ctx context.Context) ([]models.Property, error) {
		return fetchList[models.Property](ctx, s.client, "/properties", "properties", nil)
	})
}

// CreateProperty validates in and appends the created property.
func (s *Store) CreateProperty(ctx context.Context, in models.PropertyInput) (models.Property, error) {
	if err := in.Validate(); err != nil {
		s.Properties.reject(OpCreate, 0, err)
		return models.Property{}, err
	}
	return createEntity[models.Property](ctx, s, s.Properties, "/properties", "property", in, nil)
}

// UpdateProperty patches the property and replaces it in place.
func (s *Store) UpdateProperty(ctx context.Context, id int64, patch models.PropertyPatch) (models.Property, error) {
	if err := patch.Validate(); err != nil {
		s.Properties.reject(OpUpdate, id, err)
		return models.Property{}, err
	}
	return updateEntity[models.Property](ctx, s, s.Properties, id, propertyPath(id), "property", patch, nil)
}

// DeleteProperty soft-deletes the property and removes it from the list.
func (s *Store) DeleteProperty(ctx context.Context, id int64) error {
	return softDelete(ctx, s, s.Properties, id, propertyPath(id))
}
