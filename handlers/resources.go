// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only JSON views of each slice via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "crm://"

type ResourceHandlers struct {
	store *store.Store
}

func NewResourceHandlers(s *store.Store) *ResourceHandlers {
	return &ResourceHandlers{store: s}
}

// Resources lists the fixed resources served by ReadResource.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: "crm://contacts", Name: "contacts", Description: "All contacts", MIMEType: "application/json"},
		{URI: "crm://leads", Name: "leads", Description: "All leads", MIMEType: "application/json"},
		{URI: "crm://properties", Name: "properties", Description: "All properties with their locations", MIMEType: "application/json"},
		{URI: "crm://locations", Name: "locations", Description: "All locations", MIMEType: "application/json"},
		{URI: "crm://users", Name: "users", Description: "All team members", MIMEType: "application/json"},
		{URI: "crm://dashboard", Name: "dashboard", Description: "Counts by brand, status and type", MIMEType: "application/json"},
	}
}

// Templates lists the per-record resource templates.
func (h *ResourceHandlers) Templates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{URITemplate: "crm://contacts/{id}", Name: "contact", Description: "A single contact", MIMEType: "application/json"},
		{URITemplate: "crm://leads/{id}", Name: "lead", Description: "A single lead", MIMEType: "application/json"},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	var id int64
	if len(parts) > 1 {
		parsed, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id in %s: %w", uri, err)
		}
		id = parsed
	}

	var data any
	var err error
	switch parts[0] {
	case "contacts":
		data, err = h.readContacts(ctx, id)
	case "leads":
		data, err = h.readLeads(ctx, id)
	case "properties":
		if err = h.store.FetchProperties(ctx); err == nil {
			err = h.store.FetchLocations(ctx)
		}
		data = h.store.PropertiesWithLocations()
	case "locations":
		err = h.store.FetchLocations(ctx)
		data = h.store.Locations.List()
	case "users":
		err = h.store.FetchUsers(ctx)
		data = h.store.Users.List()
	case "dashboard":
		_ = h.store.FetchAll(ctx)
		data = viz.GenerateDashboardStats(h.store)
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, err
	}

	return jsonResource(uri, data)
}

func (h *ResourceHandlers) readContacts(ctx context.Context, id int64) (any, error) {
	if err := h.store.FetchContacts(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if id == 0 {
		return h.store.Contacts.List(), nil
	}
	c, ok := h.store.Contacts.Find(id)
	if !ok {
		return nil, fmt.Errorf("contact %d not found", id)
	}
	return c, nil
}

func (h *ResourceHandlers) readLeads(ctx context.Context, id int64) (any, error) {
	if err := h.store.FetchLeads(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	if id == 0 {
		return h.store.Leads.List(), nil
	}
	l, ok := h.store.Leads.Find(id)
	if !ok {
		return nil, fmt.Errorf("lead %d not found", id)
	}
	return l, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
