// ABOUTME: Client-side filters over loaded slices
// ABOUTME: Used by list screens, the CLI and MCP tools
package store

import (
	"strings"

	"github.com/harperreed/crmdesk/models"
)

// PropertyFilter narrows a property list. Zero values match everything.
type PropertyFilter struct {
	Query        string
	PropertyType string
	MinPrice     float64
	MaxPrice     float64
	MinBedrooms  int
	LocationID   int64
}

// FilterProperties returns properties matching f. Query is matched
// case-insensitively against reference and title.
func FilterProperties(list []models.Property, f PropertyFilter) []models.Property {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Property, 0, len(list))
	for _, p := range list {
		if q != "" && !strings.Contains(strings.ToLower(p.Reference), q) && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		if f.PropertyType != "" && !strings.EqualFold(p.PropertyType, f.PropertyType) {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if p.Bedrooms < f.MinBedrooms {
			continue
		}
		if f.LocationID != 0 && (p.LocationID == nil || *p.LocationID != f.LocationID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ContactFilter narrows a contact list. Zero values match everything.
type ContactFilter struct {
	Query        string
	Kind         string
	Status       string
	Brand        string
	AssignedToID int64
}

// FilterContacts returns contacts matching f. Query is matched against
// name, email and phone. A contact with brand "both" matches either brand.
func FilterContacts(list []models.Contact, f ContactFilter) []models.Contact {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Contact, 0, len(list))
	for _, c := range list {
		if q != "" && !containsAny(q, c.Name(), c.Email, c.Phone) {
			continue
		}
		if f.Kind != "" && !strings.EqualFold(c.Kind, f.Kind) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(c.Status, f.Status) {
			continue
		}
		if !c.HasBrand(f.Brand) {
			continue
		}
		if f.AssignedToID != 0 && (c.AssignedToID == nil || *c.AssignedToID != f.AssignedToID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// LeadFilter narrows a lead list. Zero values match everything.
type LeadFilter struct {
	Brand        string
	Status       string
	LeadType     string
	AssignedToID int64
}

// FilterLeads returns leads matching f.
func FilterLeads(list []models.Lead, f LeadFilter) []models.Lead {
	out := make([]models.Lead, 0, len(list))
	for _, l := range list {
		if f.Brand != "" && !strings.EqualFold(l.Brand, f.Brand) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(l.Status, f.Status) {
			continue
		}
		if f.LeadType != "" && !strings.EqualFold(l.LeadType, f.LeadType) {
			continue
		}
		if f.AssignedToID != 0 && (l.AssignedToID == nil || *l.AssignedToID != f.AssignedToID) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FilterLocations returns locations whose label contains query.
func FilterLocations(list []models.Location, query string) []models.Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]models.Location, 0, len(list))
	for _, l := range list {
		if strings.Contains(strings.ToLower(l.Label), q) {
			out = append(out, l)
		}
	}
	return out
}

// FilterUsers returns users covering brand with the given status. Empty
// values match everything.
func FilterUsers(list []models.User, brand, status string) []models.User {
	list = models.FilterUsersByBrand(list, brand)
	if status == "" {
		return list
	}
	want := models.UserStatus(status).Canonical()
	out := make([]models.User, 0, len(list))
	for _, u := range list {
		if u.Status == want {
			out = append(out, u)
		}
	}
	return out
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
