// ABOUTME: Lead operations against /leads
// ABOUTME: Notes are submitted as a single note record; delete is a soft delete
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func normalizeLead(l *models.Lead) { l.Normalize() }

func leadPath(id int64) string {
	return fmt.Sprintf("/leads/%d", id)
}

// FetchLeads replaces the lead list with the backend's.
func (s *Store) FetchLeads(ctx context.Context) error {
	return s.Leads.fetch(ctx, func(ctx context.Context) ([]models.Lead, error) {
		return fetchList(ctx, s.client, "/leads", "leads", normalizeLead)
	})
}

// CreateLead validates in and appends the created lead.
func (s *Store) CreateLead(ctx context.Context, in models.LeadInput) (models.Lead, error) {
	if err := in.Validate(); err != nil {
		s.Leads.reject(OpCreate, 0, err)
		return models.Lead{}, err
	}
	return createEntity(ctx, s, s.Leads, "/leads", "lead", in, normalizeLead)
}

// UpdateLead patches the lead and replaces it in place.
func (s *Store) UpdateLead(ctx context.Context, id int64, patch models.LeadPatch) (models.Lead, error) {
	if err := patch.Validate(); err != nil {
		s.Leads.reject(OpUpdate, id, err)
		return models.Lead{}, err
	}
	return updateEntity(ctx, s, s.Leads, id, leadPath(id), "lead", patch, normalizeLead)
}

// DeleteLead soft-deletes the lead and removes it from the list.
func (s *Store) DeleteLead(ctx context.Context, id int64) error {
	return softDelete(ctx, s, s.Leads, id, leadPath(id))
}
