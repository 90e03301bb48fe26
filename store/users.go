// ABOUTME: Team member operations against /users
// ABOUTME: Status is canonical lower-case on every read path; delete is POST /users/{id}/delete
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func normalizeUser(u *models.User) { u.Normalize() }

// FetchUsers replaces the user list with the backend's.
func (s *Store) FetchUsers(ctx context.Context) error {
	return s.Users.fetch(ctx, func(ctx context.Context) ([]models.User, error) {
		return fetchList(ctx, s.client, "/users", "users", normalizeUser)
	})
}

// CreateUser validates in and appends the created user.
func (s *Store) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	in.Status = in.Status.Canonical()
	if err := in.Validate(); err != nil {
		s.Users.reject(OpCreate, 0, err)
		return models.User{}, err
	}
	return createEntity(ctx, s, s.Users, "/users", "user", in, normalizeUser)
}

// UpdateUser patches the user and replaces it in place.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		s.Users.reject(OpUpdate, id, err)
		return models.User{}, err
	}
	return updateEntity(ctx, s, s.Users, id, fmt.Sprintf("/users/%d", id), "user", patch, normalizeUser)
}

// DeleteUser removes the user on the backend and from the list.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.Users.mutate(ctx, OpDelete, id, func(ctx context.Context) (func([]models.User) []models.User, int64, error) {
		if err := s.client.Post(ctx, fmt.Sprintf("/users/%d/delete", id), nil, nil); err != nil {
			return nil, id, err
		}
		return removeEntity[models.User](id), id, nil
	})
}
