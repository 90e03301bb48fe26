// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements list_contacts, create_contact, update_contact and delete_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	store *store.Store
}

func NewContactHandlers(s *store.Store) *ContactHandlers {
	return &ContactHandlers{store: s}
}

type ContactOutput struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Status       string `json:"status,omitempty"`
	Source       string `json:"source,omitempty"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
	AssignedTo   string `json:"assigned_to,omitempty"`
	BrandAccess  string `json:"brand_access,omitempty"`
}

type ListContactsInput struct {
	Query        string `json:"query,omitempty" jsonschema:"Search query (matches name, email and phone)"`
	Kind         string `json:"kind,omitempty" jsonschema:"Filter by kind: customer, lead, inquiry, vendor or partner"`
	Status       string `json:"status,omitempty" jsonschema:"Filter by status: active, inactive or converted"`
	Brand        string `json:"brand,omitempty" jsonschema:"Filter by brand: probiz or repro (contacts with both always match)"`
	AssignedToID int64  `json:"assigned_to_id,omitempty" jsonschema:"Filter by assigned user ID"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

func (h *ContactHandlers) ListContacts(ctx context.Context, _ *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	if err := h.store.FetchContacts(ctx); err != nil {
		return nil, ListContactsOutput{}, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	contacts := store.FilterContacts(h.store.Contacts.List(), store.ContactFilter{
		Query:        input.Query,
		Kind:         input.Kind,
		Status:       input.Status,
		Brand:        input.Brand,
		AssignedToID: input.AssignedToID,
	})
	total := len(contacts)
	contacts = limitList(contacts, input.Limit)

	result := make([]ContactOutput, len(contacts))
	for i, c := range contacts {
		result[i] = h.contactToOutput(c)
	}
	return nil, ListContactsOutput{Contacts: result, Total: total}, nil
}

type CreateContactInput struct {
	FirstName    string `json:"first_name" jsonschema:"First name (required)"`
	LastName     string `json:"last_name,omitempty" jsonschema:"Last name"`
	Email        string `json:"email,omitempty" jsonschema:"Email address"`
	Phone        string `json:"phone,omitempty" jsonschema:"Phone number"`
	Kind         string `json:"kind" jsonschema:"Contact kind: customer, lead, inquiry, vendor or partner"`
	Status       string `json:"status,omitempty" jsonschema:"Status: active, inactive or converted"`
	Source       string `json:"source,omitempty" jsonschema:"Source: website, whatsapp or call"`
	AssignedToID int64  `json:"assigned_to_id,omitempty" jsonschema:"ID of the user the contact is assigned to"`
	BrandAccess  string `json:"brand_access" jsonschema:"Brand: probiz, repro or both"`
}

func (h *ContactHandlers) CreateContact(ctx context.Context, _ *mcp.CallToolRequest, input CreateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := h.store.CreateContact(ctx, models.ContactInput{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Kind:         input.Kind,
		Status:       input.Status,
		Source:       input.Source,
		AssignedToID: optionalID(input.AssignedToID),
		BrandAccess:  input.BrandAccess,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, h.contactToOutput(contact), nil
}

type UpdateContactInput struct {
	ID           int64   `json:"id" jsonschema:"Contact ID (required)"`
	FirstName    *string `json:"first_name,omitempty" jsonschema:"Updated first name"`
	LastName     *string `json:"last_name,omitempty" jsonschema:"Updated last name"`
	Email        *string `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone        *string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Kind         *string `json:"kind,omitempty" jsonschema:"Updated kind"`
	Status       *string `json:"status,omitempty" jsonschema:"Updated status"`
	Source       *string `json:"source,omitempty" jsonschema:"Updated source"`
	AssignedToID *int64  `json:"assigned_to_id,omitempty" jsonschema:"Updated assignee user ID"`
	BrandAccess  *string `json:"brand_access,omitempty" jsonschema:"Updated brand: probiz, repro or both"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == 0 {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contact, err := h.store.UpdateContact(ctx, input.ID, models.ContactPatch{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Kind:         input.Kind,
		Status:       input.Status,
		Source:       input.Source,
		AssignedToID: input.AssignedToID,
		BrandAccess:  input.BrandAccess,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, h.contactToOutput(contact), nil
}

type DeleteInput struct {
	ID int64 `json:"id" jsonschema:"Record ID (required)"`
}

type DeleteOutput struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.store.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteOutput{
		ID:      input.ID,
		Deleted: true,
		Message: fmt.Sprintf("Contact %d deleted", input.ID),
	}, nil
}

func (h *ContactHandlers) contactToOutput(c models.Contact) ContactOutput {
	out := ContactOutput{
		ID:           c.ID,
		Name:         c.Name(),
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		Kind:         c.Kind,
		Status:       c.Status,
		Source:       c.Source,
		AssignedToID: c.AssignedToID,
		BrandAccess:  c.BrandAccess,
	}
	if c.AssignedToID != nil {
		out.AssignedTo = userName(h.store, *c.AssignedToID)
	}
	return out
}
