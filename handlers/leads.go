// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements list_leads, create_lead and update_lead with contact and assignee names resolved
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	store *store.Store
}

func NewLeadHandlers(s *store.Store) *LeadHandlers {
	return &LeadHandlers{store: s}
}

type LeadNoteOutput struct {
	ID        int64  `json:"id,omitempty"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at,omitempty"`
}

type LeadOutput struct {
	ID                   int64            `json:"id"`
	ContactID            int64            `json:"contact_id"`
	ContactName          string           `json:"contact_name"`
	AssignedToID         *int64           `json:"assigned_to_id,omitempty"`
	AssignedTo           string           `json:"assigned_to,omitempty"`
	BudgetMin            *float64         `json:"budget_min,omitempty"`
	BudgetMax            *float64         `json:"budget_max,omitempty"`
	Bedrooms             *int             `json:"bedrooms,omitempty"`
	Bathrooms            *int             `json:"bathrooms,omitempty"`
	PropertyType         string           `json:"property_type,omitempty"`
	LeadType             string           `json:"lead_type,omitempty"`
	PreferredLocationIDs []int64          `json:"preferred_location_ids,omitempty"`
	PropertyIDs          []int64          `json:"property_ids,omitempty"`
	Source               string           `json:"source,omitempty"`
	Status               string           `json:"status"`
	Brand                string           `json:"brand"`
	Notes                []LeadNoteOutput `json:"notes,omitempty"`
}

type ListLeadsInput struct {
	Brand        string `json:"brand,omitempty" jsonschema:"Filter by brand: real-estate or business-setup (probiz and repro are accepted)"`
	Status       string `json:"status,omitempty" jsonschema:"Filter by status: new, contacted, qualified, closed or lost"`
	LeadType     string `json:"lead_type,omitempty" jsonschema:"Filter by lead type: rent or sale"`
	AssignedToID int64  `json:"assigned_to_id,omitempty" jsonschema:"Filter by assigned user ID"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
	Total int          `json:"total"`
}

func (h *LeadHandlers) ListLeads(ctx context.Context, _ *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, ListLeadsOutput, error) {
	if err := h.store.FetchLeads(ctx); err != nil {
		return nil, ListLeadsOutput{}, fmt.Errorf("failed to fetch leads: %w", err)
	}
	loadForNames(ctx, h.store)

	leads := store.FilterLeads(h.store.Leads.List(), store.LeadFilter{
		Brand:        leadBrand(input.Brand),
		Status:       input.Status,
		LeadType:     input.LeadType,
		AssignedToID: input.AssignedToID,
	})
	total := len(leads)
	leads = limitList(leads, input.Limit)

	result := make([]LeadOutput, len(leads))
	for i, l := range leads {
		result[i] = h.leadToOutput(l)
	}
	return nil, ListLeadsOutput{Leads: result, Total: total}, nil
}

type CreateLeadInput struct {
	ContactID            int64    `json:"contact_id" jsonschema:"ID of the contact the lead belongs to (required)"`
	Brand                string   `json:"brand" jsonschema:"Brand: real-estate or business-setup (required)"`
	AssignedToID         int64    `json:"assigned_to_id,omitempty" jsonschema:"ID of the assigned user"`
	BudgetMin            *float64 `json:"budget_min,omitempty" jsonschema:"Minimum budget"`
	BudgetMax            *float64 `json:"budget_max,omitempty" jsonschema:"Maximum budget"`
	Bedrooms             *int     `json:"bedrooms,omitempty" jsonschema:"Bedrooms wanted"`
	Bathrooms            *int     `json:"bathrooms,omitempty" jsonschema:"Bathrooms wanted"`
	PropertyType         string   `json:"property_type,omitempty" jsonschema:"Property type wanted, e.g. apartment or villa"`
	LeadType             string   `json:"lead_type,omitempty" jsonschema:"Lead type: rent or sale"`
	PreferredLocationIDs []int64  `json:"preferred_location_ids,omitempty" jsonschema:"Preferred location IDs"`
	PropertyIDs          []int64  `json:"property_ids,omitempty" jsonschema:"Property IDs of interest"`
	Source               string   `json:"source,omitempty" jsonschema:"Where the lead came from"`
	Status               string   `json:"status,omitempty" jsonschema:"Status (default new)"`
	Notes                string   `json:"notes,omitempty" jsonschema:"Freeform notes"`
}

func (h *LeadHandlers) CreateLead(ctx context.Context, _ *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	lead, err := h.store.CreateLead(ctx, models.LeadInput{
		ContactID:            input.ContactID,
		AssignedToID:         optionalID(input.AssignedToID),
		BudgetMin:            input.BudgetMin,
		BudgetMax:            input.BudgetMax,
		Bedrooms:             input.Bedrooms,
		Bathrooms:            input.Bathrooms,
		PropertyType:         input.PropertyType,
		LeadType:             input.LeadType,
		PreferredLocationIDs: input.PreferredLocationIDs,
		PropertyIDs:          input.PropertyIDs,
		Source:               input.Source,
		Status:               input.Status,
		Brand:                leadBrand(input.Brand),
		Notes:                input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return nil, h.leadToOutput(lead), nil
}

type UpdateLeadInput struct {
	ID                   int64    `json:"id" jsonschema:"Lead ID (required)"`
	AssignedToID         *int64   `json:"assigned_to_id,omitempty" jsonschema:"Updated assignee user ID"`
	BudgetMin            *float64 `json:"budget_min,omitempty" jsonschema:"Updated minimum budget"`
	BudgetMax            *float64 `json:"budget_max,omitempty" jsonschema:"Updated maximum budget"`
	Bedrooms             *int     `json:"bedrooms,omitempty" jsonschema:"Updated bedrooms"`
	Bathrooms            *int     `json:"bathrooms,omitempty" jsonschema:"Updated bathrooms"`
	PropertyType         *string  `json:"property_type,omitempty" jsonschema:"Updated property type"`
	LeadType             *string  `json:"lead_type,omitempty" jsonschema:"Updated lead type: rent or sale"`
	PreferredLocationIDs []int64  `json:"preferred_location_ids,omitempty" jsonschema:"Replacement preferred location IDs"`
	PropertyIDs          []int64  `json:"property_ids,omitempty" jsonschema:"Replacement property IDs"`
	Source               *string  `json:"source,omitempty" jsonschema:"Updated source"`
	Status               *string  `json:"status,omitempty" jsonschema:"Updated status"`
	Brand                *string  `json:"brand,omitempty" jsonschema:"Updated brand"`
	Notes                *string  `json:"notes,omitempty" jsonschema:"Note to append"`
}

func (h *LeadHandlers) UpdateLead(ctx context.Context, _ *mcp.CallToolRequest, input UpdateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == 0 {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}

	patch := models.LeadPatch{
		AssignedToID:         input.AssignedToID,
		BudgetMin:            input.BudgetMin,
		BudgetMax:            input.BudgetMax,
		Bedrooms:             input.Bedrooms,
		Bathrooms:            input.Bathrooms,
		PropertyType:         input.PropertyType,
		LeadType:             input.LeadType,
		PreferredLocationIDs: input.PreferredLocationIDs,
		PropertyIDs:          input.PropertyIDs,
		Source:               input.Source,
		Status:               input.Status,
		Notes:                input.Notes,
	}
	if input.Brand != nil {
		brand := leadBrand(*input.Brand)
		patch.Brand = &brand
	}

	lead, err := h.store.UpdateLead(ctx, input.ID, patch)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead: %w", err)
	}
	return nil, h.leadToOutput(lead), nil
}

// leadBrand maps any brand spelling onto the lead brand value. Unknown
// spellings pass through so validation can report them.
func leadBrand(v string) string {
	if v == "" {
		return ""
	}
	if b, ok := models.ParseBrand(v); ok {
		return b.LeadBrand()
	}
	return v
}

func (h *LeadHandlers) leadToOutput(l models.Lead) LeadOutput {
	out := LeadOutput{
		ID:                   l.ID,
		ContactID:            l.ContactID,
		ContactName:          contactName(h.store, l.ContactID),
		AssignedToID:         l.AssignedToID,
		BudgetMin:            l.BudgetMin,
		BudgetMax:            l.BudgetMax,
		Bedrooms:             l.Bedrooms,
		Bathrooms:            l.Bathrooms,
		PropertyType:         l.PropertyType,
		LeadType:             l.LeadType,
		PreferredLocationIDs: l.PreferredLocationIDs,
		PropertyIDs:          l.PropertyIDs,
		Source:               l.Source,
		Status:               l.Status,
		Brand:                l.Brand,
	}
	if l.AssignedToID != nil {
		out.AssignedTo = userName(h.store, *l.AssignedToID)
	}
	for _, n := range l.Notes {
		out.Notes = append(out.Notes, LeadNoteOutput{ID: n.ID, Note: n.Note, CreatedAt: formatTime(n.CreatedAt)})
	}
	return out
}
