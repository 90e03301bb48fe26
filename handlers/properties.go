// ABOUTME: Location and property MCP tool handlers
// ABOUTME: Implements list/create tools; property listings carry their joined location
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

type PropertyHandlers struct {
	store *store.Store
}

func NewPropertyHandlers(s *store.Store) *PropertyHandlers {
	return &PropertyHandlers{store: s}
}

type LocationOutput struct {
	ID           int64   `json:"id"`
	Label        string  `json:"label"`
	Subcommunity string  `json:"subcommunity,omitempty"`
	Community    string  `json:"community,omitempty"`
	City         string  `json:"city,omitempty"`
	Country      string  `json:"country,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type ListLocationsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches the label)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListLocationsOutput struct {
	Locations []LocationOutput `json:"locations"`
	Total     int              `json:"total"`
}

func (h *PropertyHandlers) ListLocations(ctx context.Context, _ *mcp.CallToolRequest, input ListLocationsInput) (*mcp.CallToolResult, ListLocationsOutput, error) {
	if err := h.store.FetchLocations(ctx); err != nil {
		return nil, ListLocationsOutput{}, fmt.Errorf("failed to fetch locations: %w", err)
	}

	locations := store.FilterLocations(h.store.Locations.List(), input.Query)
	total := len(locations)
	locations = limitList(locations, input.Limit)

	result := make([]LocationOutput, len(locations))
	for i, l := range locations {
		result[i] = locationToOutput(l)
	}
	return nil, ListLocationsOutput{Locations: result, Total: total}, nil
}

type CreateLocationInput struct {
	Label     string  `json:"label" jsonschema:"Hierarchical label, e.g. 'Marina Gate 1, Dubai Marina, Dubai, UAE' (required)"`
	Latitude  float64 `json:"latitude,omitempty" jsonschema:"Latitude in degrees"`
	Longitude float64 `json:"longitude,omitempty" jsonschema:"Longitude in degrees"`
}

func (h *PropertyHandlers) CreateLocation(ctx context.Context, _ *mcp.CallToolRequest, input CreateLocationInput) (*mcp.CallToolResult, LocationOutput, error) {
	location, err := h.store.CreateLocation(ctx, models.LocationInput{
		Label:     input.Label,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return nil, LocationOutput{}, fmt.Errorf("failed to create location: %w", err)
	}
	return nil, locationToOutput(location), nil
}

type PropertyOutput struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	Title         string          `json:"title"`
	Price         float64         `json:"price"`
	PropertyType  string          `json:"property_type,omitempty"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	LocationID    *int64          `json:"location_id,omitempty"`
	LocationLabel string          `json:"location_label,omitempty"`
	Location      *LocationOutput `json:"location,omitempty"`
}

type ListPropertiesInput struct {
	Query        string  `json:"query,omitempty" jsonschema:"Search query (matches reference and title)"`
	PropertyType string  `json:"property_type,omitempty" jsonschema:"Filter by property type"`
	MinPrice     float64 `json:"min_price,omitempty" jsonschema:"Minimum price"`
	MaxPrice     float64 `json:"max_price,omitempty" jsonschema:"Maximum price"`
	MinBedrooms  int     `json:"min_bedrooms,omitempty" jsonschema:"Minimum bedrooms"`
	LocationID   int64   `json:"location_id,omitempty" jsonschema:"Filter by location ID"`
	Limit        int     `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListPropertiesOutput struct {
	Properties []PropertyOutput `json:"properties"`
	Total      int              `json:"total"`
}

func (h *PropertyHandlers) ListProperties(ctx context.Context, _ *mcp.CallToolRequest, input ListPropertiesInput) (*mcp.CallToolResult, ListPropertiesOutput, error) {
	// Locations are fetched alongside so the join resolves.
	var g errgroup.Group
	g.Go(func() error { return h.store.FetchProperties(ctx) })
	g.Go(func() error { return h.store.FetchLocations(ctx) })
	if err := g.Wait(); err != nil {
		return nil, ListPropertiesOutput{}, fmt.Errorf("failed to fetch properties: %w", err)
	}

	keep := make(map[int64]bool)
	for _, p := range store.FilterProperties(h.store.Properties.List(), store.PropertyFilter{
		Query:        input.Query,
		PropertyType: input.PropertyType,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		MinBedrooms:  input.MinBedrooms,
		LocationID:   input.LocationID,
	}) {
		keep[p.ID] = true
	}

	var joined []models.PropertyWithLocation
	for _, p := range h.store.PropertiesWithLocations() {
		if keep[p.ID] {
			joined = append(joined, p)
		}
	}
	total := len(joined)
	joined = limitList(joined, input.Limit)

	result := make([]PropertyOutput, len(joined))
	for i, p := range joined {
		result[i] = propertyToOutput(p)
	}
	return nil, ListPropertiesOutput{Properties: result, Total: total}, nil
}

type CreatePropertyInput struct {
	Reference    string  `json:"reference" jsonschema:"Listing reference (required)"`
	Title        string  `json:"title" jsonschema:"Listing title (required)"`
	Price        float64 `json:"price,omitempty" jsonschema:"Asking price"`
	PropertyType string  `json:"property_type" jsonschema:"Property type, e.g. apartment, villa or office (required)"`
	Bedrooms     int     `json:"bedrooms,omitempty" jsonschema:"Number of bedrooms"`
	Bathrooms    int     `json:"bathrooms,omitempty" jsonschema:"Number of bathrooms"`
	LocationID   int64   `json:"location_id,omitempty" jsonschema:"Location ID"`
}

func (h *PropertyHandlers) CreateProperty(ctx context.Context, _ *mcp.CallToolRequest, input CreatePropertyInput) (*mcp.CallToolResult, PropertyOutput, error) {
	property, err := h.store.CreateProperty(ctx, models.PropertyInput{
		Reference:    input.Reference,
		Title:        input.Title,
		Price:        input.Price,
		PropertyType: input.PropertyType,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		LocationID:   optionalID(input.LocationID),
	})
	if err != nil {
		return nil, PropertyOutput{}, fmt.Errorf("failed to create property: %w", err)
	}

	joined := models.PropertyWithLocation{Property: property}
	if property.LocationID != nil {
		joined.Location = h.store.ResolveLocation(*property.LocationID)
	}
	return nil, propertyToOutput(joined), nil
}

func locationToOutput(l models.Location) LocationOutput {
	parts := l.Parts()
	return LocationOutput{
		ID:           l.ID,
		Label:        l.Label,
		Subcommunity: parts.Subcommunity,
		Community:    parts.Community,
		City:         parts.City,
		Country:      parts.Country,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
	}
}

func propertyToOutput(p models.PropertyWithLocation) PropertyOutput {
	out := PropertyOutput{
		ID:           p.ID,
		Reference:    p.Reference,
		Title:        p.Title,
		Price:        p.Price,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		LocationID:   p.LocationID,
	}
	if p.Location != nil {
		loc := locationToOutput(*p.Location)
		out.Location = &loc
		out.LocationLabel = p.Location.Label
	}
	return out
}
