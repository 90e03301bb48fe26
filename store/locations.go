// ABOUTME: Location operations against /locations
// ABOUTME: Delete is a soft delete
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func locationPath(id int64) string {
	return fmt.Sprintf("/locations/%d", id)
}

// FetchLocations replaces the location list with the backend's.
func (s *Store) FetchLocations(ctx context.Context) error {
	return s.Locations.fetch(ctx, func(ctx context.Context) ([]models.Location, error) {
		return fetchList[models.Location](ctx, s.client, "/locations", "locations", nil)
	})
}

// CreateLocation validates in and appends the created location.
func (s *Store) CreateLocation(ctx context.Context, in models.LocationInput) (models.Location, error) {
	if err := in.Validate(); err != nil {
		s.Locations.reject(OpCreate, 0, err)
		return models.Location{}, err
	}
	return createEntity[models.Location](ctx, s, s.Locations, "/locations", "location", in, nil)
}

// UpdateLocation patches the location and replaces it in place.
func (s *Store) UpdateLocation(ctx context.Context, id int64, patch models.LocationPatch) (models.Location, error) {
	if err := patch.Validate(); err != nil {
		s.Locations.reject(OpUpdate, id, err)
		return models.Location{}, err
	}
	return updateEntity[models.Location](ctx, s, s.Locations, id, locationPath(id), "location", patch, nil)
}

// DeleteLocation soft-deletes the location and removes it from the list.
func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	return softDelete(ctx, s, s.Locations, id, locationPath(id))
}
