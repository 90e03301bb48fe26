// ABOUTME: Tests for MCP tool, resource and prompt handlers
// ABOUTME: Runs every handler against the demo dataset served by the mock backend
package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/harperreed/crmdesk/mockapi"
	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store/storetest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestListContactsFiltersByBrand(t *testing.T) {
	// Nothing is fetched up front; the tool fetches first.
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	ctx := context.Background()
	h := NewContactHandlers(s)

	_, out, err := h.ListContacts(ctx, nil, ListContactsInput{Brand: "probiz"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total, "probiz plus the contact with both brands")
	assert.Equal(t, "Leila Nasser", out.Contacts[0].Name)
	assert.Equal(t, "both", out.Contacts[1].BrandAccess)

	_, out, err = h.ListContacts(ctx, nil, ListContactsInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Contacts, 1)
}

func TestContactLifecycle(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()
	ctx := context.Background()
	h := NewContactHandlers(s)

	_, created, err := h.CreateContact(ctx, nil, CreateContactInput{
		FirstName:    "Nadia",
		LastName:     "Rahman",
		Email:        "nadia@example.com",
		Kind:         "Inquiry",
		BrandAccess:  "RePro",
		AssignedToID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "repro", created.BrandAccess)
	assert.Equal(t, "Yusuf Karim", created.AssignedTo)

	_, updated, err := h.UpdateContact(ctx, nil, UpdateContactInput{ID: created.ID, Status: strPtr("converted")})
	require.NoError(t, err)
	assert.Equal(t, "converted", updated.Status)
	assert.Equal(t, "Nadia", updated.FirstName)

	_, deleted, err := h.DeleteContact(ctx, nil, DeleteInput{ID: created.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	rec, ok := backend.Get(mockapi.Contacts, created.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDeleted, rec["status"])
	_, found := s.Contacts.Find(created.ID)
	assert.False(t, found)
}

func TestCreateContactValidation(t *testing.T) {
	s, _, cleanup := storetest.NewStore(t)
	defer cleanup()
	h := NewContactHandlers(s)

	_, _, err := h.CreateContact(context.Background(), nil, CreateContactInput{FirstName: "X", Kind: "alien", BrandAccess: "probiz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be one of")

	_, _, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{})
	assert.EqualError(t, err, "id is required")
}

func TestListLeadsResolvesNames(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	h := NewLeadHandlers(s)

	_, out, err := h.ListLeads(context.Background(), nil, ListLeadsInput{Brand: "repro"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)

	assert.Equal(t, "Omar Haddad", out.Leads[0].ContactName)
	assert.Equal(t, "Yusuf Karim", out.Leads[0].AssignedTo)
	assert.Equal(t, unknownName, out.Leads[1].ContactName, "contact 42 does not exist")
}

func TestCreateAndUpdateLead(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()
	ctx := context.Background()
	h := NewLeadHandlers(s)

	budgetMin, budgetMax := 50000.0, 80000.0
	_, created, err := h.CreateLead(ctx, nil, CreateLeadInput{
		ContactID: 3,
		Brand:     "probiz",
		BudgetMin: &budgetMin,
		BudgetMax: &budgetMax,
		Notes:     "Free zone licence",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeadBrandBusinessSetup, created.Brand)
	assert.Equal(t, "Sam Ortiz", created.ContactName)
	require.Len(t, created.Notes, 1)
	assert.Equal(t, "Free zone licence", created.Notes[0].Note)

	_, updated, err := h.UpdateLead(ctx, nil, UpdateLeadInput{ID: created.ID, Status: strPtr("contacted"), Notes: strPtr("Called back")})
	require.NoError(t, err)
	assert.Equal(t, "contacted", updated.Status)
	assert.Len(t, updated.Notes, 2)
}

func TestCreateLeadRejectsInvertedBudget(t *testing.T) {
	s, _, cleanup := storetest.NewStore(t)
	defer cleanup()

	budgetMin, budgetMax := 10.0, 5.0
	_, _, err := NewLeadHandlers(s).CreateLead(context.Background(), nil, CreateLeadInput{
		ContactID: 1,
		Brand:     models.LeadBrandRealEstate,
		BudgetMin: &budgetMin,
		BudgetMax: &budgetMax,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget_max must be at least budget_min")
}

func TestListPropertiesJoinsLocations(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	h := NewPropertyHandlers(s)

	_, out, err := h.ListProperties(context.Background(), nil, ListPropertiesInput{})
	require.NoError(t, err)
	require.Len(t, out.Properties, 3)

	require.NotNil(t, out.Properties[0].Location)
	assert.Equal(t, "Dubai Marina", out.Properties[0].Location.Community)
	assert.Equal(t, "Downtown, Dubai, UAE", out.Properties[1].LocationLabel)
	assert.Nil(t, out.Properties[2].Location, "location 99 does not exist")

	_, out, err = h.ListProperties(context.Background(), nil, ListPropertiesInput{MinBedrooms: 3})
	require.NoError(t, err)
	require.Len(t, out.Properties, 1)
	assert.Equal(t, "RP-1003", out.Properties[0].Reference)
}

func TestCreateLocationAndProperty(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()
	ctx := context.Background()
	h := NewPropertyHandlers(s)

	_, loc, err := h.CreateLocation(ctx, nil, CreateLocationInput{Label: "JLT, Dubai, UAE", Latitude: 25.07, Longitude: 55.14})
	require.NoError(t, err)
	assert.Equal(t, "JLT", loc.Community)

	_, prop, err := h.CreateProperty(ctx, nil, CreatePropertyInput{
		Reference:    "RP-2001",
		Title:        "Office floor",
		PropertyType: "office",
		Price:        3000000,
		LocationID:   loc.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, prop.Location)
	assert.Equal(t, loc.ID, prop.Location.ID)

	_, locations, err := h.ListLocations(ctx, nil, ListLocationsInput{Query: "jlt"})
	require.NoError(t, err)
	assert.Equal(t, 1, locations.Total)
}

func TestListUsersAndRoles(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	ctx := context.Background()
	h := NewTeamHandlers(s)

	_, roles, err := h.ListRoles(ctx, nil, ListRolesInput{})
	require.NoError(t, err)
	assert.Len(t, roles.Roles, 2)

	_, users, err := h.ListUsers(ctx, nil, ListUsersInput{Brand: "repro"})
	require.NoError(t, err)
	require.Equal(t, 2, users.Total)
	assert.Equal(t, "Admin", users.Users[0].Role)
	assert.Equal(t, "active", users.Users[0].Status, "backend title case is canonicalized")

	_, users, err = h.ListUsers(ctx, nil, ListUsersInput{Status: "inactive"})
	require.NoError(t, err)
	require.Equal(t, 1, users.Total)
	assert.Equal(t, "Mira Das", users.Users[0].Name)
}

func TestGenerateGraphTool(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))

	_, out, err := NewVizHandlers(s).GenerateGraph(context.Background(), nil, GenerateGraphInput{LeadID: 1})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "Omar Haddad")
	assert.Greater(t, out.NodeCount, 0)
	assert.Greater(t, out.EdgeCount, 0)
}

func TestGetDashboardTool(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))

	_, out, err := NewVizHandlers(s).GetDashboard(context.Background(), nil, GetDashboardInput{})
	require.NoError(t, err)
	assert.Contains(t, out.Dashboard, "CRMDESK DASHBOARD")
	assert.Equal(t, 2, out.LeadsByBrand[models.LeadBrandRealEstate])
}

func TestReadResources(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	h := NewResourceHandlers(s)
	ctx := context.Background()

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("crm://contacts")
	require.NoError(t, err)
	var contacts []models.Contact
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &contacts))
	assert.Len(t, contacts, 3)

	res, err = read("crm://leads/2")
	require.NoError(t, err)
	var lead models.Lead
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &lead))
	assert.Equal(t, models.LeadBrandBusinessSetup, lead.Brand)

	res, err = read("crm://properties")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Dubai Marina")

	_, err = read("crm://leads/99")
	assert.EqualError(t, err, "lead 99 not found")

	_, err = read("crm://deals")
	assert.EqualError(t, err, "unknown resource: deals")

	_, err = read("http://contacts")
	assert.Error(t, err)

	assert.Len(t, h.Resources(), 6)
	assert.Len(t, h.Templates(), 2)
}

func TestPrompts(t *testing.T) {
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))
	h := NewPromptHandlers(s)
	ctx := context.Background()

	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
	}

	res, err := get("lead-summary", map[string]string{"lead_id": "1"})
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Omar Haddad")
	assert.Contains(t, text, "RP-1001")
	assert.Contains(t, text, "Marina Gate 1, Dubai Marina, Dubai, UAE")

	res, err = get("brand-pipeline", map[string]string{"brand": "repro"})
	require.NoError(t, err)
	text = res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Total Leads: 2")
	assert.Contains(t, text, "Unassigned: 1")

	res, err = get("assignment-suggestions", nil)
	require.NoError(t, err)
	text = res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "#3 Unknown")
	assert.NotContains(t, text, "Mira Das", "inactive users are not offered")

	_, err = get("lead-summary", nil)
	assert.EqualError(t, err, "lead_id is required")

	_, err = get("brand-pipeline", map[string]string{"brand": "mars"})
	assert.EqualError(t, err, "invalid brand: mars")

	_, err = get("nope", nil)
	assert.EqualError(t, err, "unknown prompt: nope")

	assert.Len(t, h.Prompts(), 3)
}
