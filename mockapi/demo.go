// ABOUTME: Demo data for the mock backend
// ABOUTME: Covers both brands, every contact kind and a property with a dangling location
package mockapi

import (
	"fmt"

	"github.com/harperreed/crmdesk/models"
)

func ptr[T any](v T) *T { return &v }

// SeedDemo fills s with a small dual-brand dataset.
func SeedDemo(s *Server) error {
	seeds := []struct {
		collection string
		value      any
	}{
		{Roles, models.Role{ID: 1, Name: "Admin", Key: "admin"}},
		{Roles, models.Role{ID: 2, Name: "Agent", Key: "agent"}},

		{Users, models.User{ID: 1, FirstName: "Hana", LastName: "Saleh", Email: "hana@example.com", RoleID: ptr(int64(1)), BrandAccess: models.BrandAccessBoth, Status: "Active"}},
		{Users, models.User{ID: 2, FirstName: "Yusuf", LastName: "Karim", Email: "yusuf@example.com", RoleID: ptr(int64(2)), BrandAccess: models.BrandAccessRealEstate, Status: "Active"}},
		{Users, models.User{ID: 3, FirstName: "Mira", LastName: "Das", Email: "mira@example.com", RoleID: ptr(int64(2)), BrandAccess: models.BrandAccessBusinessSetup, Status: "Inactive"}},

		{Locations, models.Location{ID: 1, Label: "Marina Gate 1, Dubai Marina, Dubai, UAE", Latitude: 25.087, Longitude: 55.147}},
		{Locations, models.Location{ID: 2, Label: "Downtown, Dubai, UAE", Latitude: 25.197, Longitude: 55.274}},

		{Properties, models.Property{ID: 1, Reference: "RP-1001", Title: "2BR Marina view", Price: 1850000, PropertyType: "apartment", Bedrooms: 2, Bathrooms: 2, LocationID: ptr(int64(1))}},
		{Properties, models.Property{ID: 2, Reference: "RP-1002", Title: "Downtown studio", Price: 95000, PropertyType: "studio", Bedrooms: 0, Bathrooms: 1, LocationID: ptr(int64(2))}},
		{Properties, models.Property{ID: 3, Reference: "RP-1003", Title: "Villa off-plan", Price: 4200000, PropertyType: "villa", Bedrooms: 5, Bathrooms: 6, LocationID: ptr(int64(99))}},

		{Contacts, models.Contact{ID: 1, FirstName: "Omar", LastName: "Haddad", Email: "omar@example.com", Kind: models.ContactKindCustomer, Status: "Active", Source: models.SourceWebsite, AssignedToID: ptr(int64(2)), BrandAccess: "RePro"}},
		{Contacts, models.Contact{ID: 2, FirstName: "Leila", LastName: "Nasser", Email: "leila@example.com", Kind: models.ContactKindLead, Source: models.SourceWhatsApp, AssignedToID: ptr(int64(3)), BrandAccess: "PROBIZ"}},
		{Contacts, models.Contact{ID: 3, FirstName: "Sam", LastName: "Ortiz", Phone: "+971500000000", Kind: models.ContactKindPartner, Status: models.ContactStatusActive, Source: models.SourceCall, BrandAccess: models.BrandBoth}},

		{Leads, models.Lead{ID: 1, ContactID: 1, AssignedToID: ptr(int64(2)), BudgetMin: ptr(1500000.0), BudgetMax: ptr(2000000.0), Bedrooms: ptr(2), LeadType: models.LeadTypeSale, PreferredLocationIDs: []int64{1}, PropertyIDs: []int64{1}, Source: models.SourceWebsite, Status: models.LeadStatusQualified, Brand: models.LeadBrandRealEstate}},
		{Leads, models.Lead{ID: 2, ContactID: 2, AssignedToID: ptr(int64(3)), Source: models.SourceWhatsApp, Brand: models.LeadBrandBusinessSetup, Notes: []models.LeadNote{{Note: "Mainland licence, two visas"}}}},
		{Leads, models.Lead{ID: 3, ContactID: 42, LeadType: models.LeadTypeRent, PropertyIDs: []int64{2, 7}, Status: models.LeadStatusContacted, Brand: models.LeadBrandRealEstate}},
	}

	for _, seed := range seeds {
		if _, err := s.Seed(seed.collection, seed.value); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.collection, err)
		}
	}
	return nil
}
