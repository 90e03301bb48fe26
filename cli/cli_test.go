// ABOUTME: Tests for the CLI commands
// ABOUTME: Runs each command against the demo dataset and checks output and backend state
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/harperreed/crmdesk/config"
	"github.com/harperreed/crmdesk/db"
	"github.com/harperreed/crmdesk/mockapi"
	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/store/storetest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListContactsByBrand(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, ListContactsCommand(s, &out, []string{"--brand", "probiz"}))
	assert.Contains(t, out.String(), "Leila Nasser")
	assert.Contains(t, out.String(), "Sam Ortiz")
	assert.NotContains(t, out.String(), "Omar Haddad")
}

func TestAddContactCommand(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	err := AddContactCommand(s, &out, []string{"--first", "Nadia", "--email", "nadia@example.com", "--brand", "RePro"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Contact created: Nadia (ID: 4)")
	assert.Contains(t, out.String(), "Brand: repro")
	assert.Len(t, s.Contacts.List(), 4)
}

func TestAddContactRequiresBrand(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	err := AddContactCommand(s, &out, []string{"--first", "Nadia"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brand_access")
	assert.Len(t, s.Contacts.List(), 3)
}

func TestUpdateContactSendsOnlyGivenFlags(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, UpdateContactCommand(s, &out, []string{"--status", "converted", "1"}))
	assert.Contains(t, out.String(), "✓ Contact 1 updated")

	rec, ok := backend.Get(mockapi.Contacts, 1)
	require.True(t, ok)
	assert.Equal(t, "converted", rec["status"])
	assert.Equal(t, "omar@example.com", rec["email"])
}

func TestUpdateContactArgumentErrors(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	err := UpdateContactCommand(s, &out, []string{"--status", "converted"})
	assert.EqualError(t, err, "contact ID required")

	err = UpdateContactCommand(s, &out, []string{"abc"})
	assert.EqualError(t, err, "invalid contact ID: abc")

	err = UpdateContactCommand(s, &out, []string{"1"})
	assert.EqualError(t, err, "nothing to update")
}

func TestDeleteContactCommand(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, DeleteContactCommand(s, &out, []string{"2"}))
	assert.Contains(t, out.String(), "✓ Contact 2 deleted")

	_, ok := s.Contacts.Find(2)
	assert.False(t, ok)
	rec, ok := backend.Get(mockapi.Contacts, 2)
	require.True(t, ok)
	assert.Equal(t, "deleted", rec["status"])
}

func TestListLeadsResolvesNames(t *testing.T) {
	// Nothing is fetched up front; the command loads names itself.
	s, backend, cleanup := storetest.NewStore(t)
	defer cleanup()
	require.NoError(t, mockapi.SeedDemo(backend))

	var out bytes.Buffer
	require.NoError(t, ListLeadsCommand(s, &out, nil))
	text := out.String()
	assert.Contains(t, text, "Omar Haddad")
	assert.Contains(t, text, "Yusuf Karim")
	assert.Contains(t, text, "1500000-2000000")
	assert.Contains(t, text, "Unknown", "lead 3 points at a contact that does not exist")

	out.Reset()
	require.NoError(t, ListLeadsCommand(s, &out, []string{"--brand", "probiz"}))
	assert.Contains(t, out.String(), "Leila Nasser")
	assert.NotContains(t, out.String(), "Omar Haddad")
}

func TestAddLeadCommand(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	err := AddLeadCommand(s, &out, []string{
		"--contact", "3", "--brand", "repro", "--type", "rent",
		"--locations", "1, 2", "--budget-max", "120000", "--notes", "Wants parking",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Lead created: #4 (real-estate, new)")

	rec, ok := backend.Get(mockapi.Leads, 4)
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2)}, rec["preferred_location_ids"])
	assert.Nil(t, rec["budget_min"], "unset budgets are not sent")
	notes, _ := rec["notes"].([]any)
	assert.Len(t, notes, 1)
}

func TestAddLeadRejectsBadIDList(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	err := AddLeadCommand(s, &out, []string{"--contact", "1", "--brand", "repro", "--properties", "1,x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --properties")
}

func TestUpdateLeadAppendsNote(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, UpdateLeadCommand(s, &out, []string{"--status", "contacted", "--notes", "Called back", "2"}))

	lead, ok := s.Leads.Find(2)
	require.True(t, ok)
	assert.Equal(t, "contacted", lead.Status)

	rec, ok := backend.Get(mockapi.Leads, 2)
	require.True(t, ok)
	notes, _ := rec["notes"].([]any)
	assert.Len(t, notes, 2)
}

func TestLocationsAndProperties(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, ListLocationsCommand(s, &out, []string{"--query", "marina"}))
	assert.Contains(t, out.String(), "Dubai Marina")
	assert.NotContains(t, out.String(), "Downtown")

	out.Reset()
	require.NoError(t, ListPropertiesCommand(s, &out, nil))
	assert.Contains(t, out.String(), "RP-1001")
	assert.Contains(t, out.String(), "#99 (not loaded)")

	out.Reset()
	require.NoError(t, ListPropertiesCommand(s, &out, []string{"--bedrooms", "3"}))
	assert.Contains(t, out.String(), "RP-1003")
	assert.NotContains(t, out.String(), "RP-1001")

	out.Reset()
	require.NoError(t, AddLocationCommand(s, &out, []string{"--label", "JVC, Dubai, UAE", "--lat", "25.05", "--lng", "55.2"}))
	assert.Contains(t, out.String(), "✓ Location created: JVC, Dubai, UAE (ID: 3)")

	out.Reset()
	require.NoError(t, AddPropertyCommand(s, &out, []string{"--ref", "RP-1004", "--title", "JVC townhouse", "--type", "townhouse", "--location", "3"}))
	assert.Contains(t, out.String(), "RP-1004")

	joined := s.PropertiesWithLocations()
	last := joined[len(joined)-1]
	require.NotNil(t, last.Location)
	assert.Equal(t, "JVC, Dubai, UAE", last.Location.Label)
}

func TestUsersAndRoles(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, ListUsersCommand(s, &out, []string{"--brand", "probiz"}))
	assert.Contains(t, out.String(), "Hana Saleh")
	assert.Contains(t, out.String(), "Mira Das")
	assert.Contains(t, out.String(), "Admin")
	assert.NotContains(t, out.String(), "Yusuf Karim")

	out.Reset()
	require.NoError(t, ListRolesCommand(s, &out, nil))
	assert.Contains(t, out.String(), "Agent")

	out.Reset()
	require.NoError(t, UpdateUserCommand(s, &out, []string{"--status", "Active", "3"}))
	u, ok := s.Users.Find(3)
	require.True(t, ok)
	assert.Equal(t, "active", string(u.Status))

	out.Reset()
	require.NoError(t, DeleteUserCommand(s, &out, []string{"3"}))
	_, ok = backend.Get(mockapi.Users, 3)
	assert.False(t, ok)

	err := AddUserCommand(s, &out, []string{"--first", "Ali", "--email", "ali@example.com", "--role", "2", "--brand", "nope"})
	assert.EqualError(t, err, "invalid brand: nope")
}

func TestDashboardAndGraph(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, DashboardCommand(s, &out, nil))
	assert.Contains(t, out.String(), "CRMDESK DASHBOARD")

	out.Reset()
	require.NoError(t, GraphCommand(s, &out, []string{"1"}))
	assert.Contains(t, out.String(), "lead_1")
	assert.NotContains(t, out.String(), "lead_2")

	path := filepath.Join(t.TempDir(), "leads.dot")
	out.Reset()
	require.NoError(t, GraphCommand(s, &out, []string{"--output", path}))
	assert.Contains(t, out.String(), "✓ Graph written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lead_3")

	err = GraphCommand(s, &out, []string{"77"})
	assert.EqualError(t, err, "lead 77 not found")
}

func TestActivityCommand(t *testing.T) {
	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var out bytes.Buffer
	require.NoError(t, ActivityCommand(database, &out, nil))
	assert.Contains(t, out.String(), "No activity recorded")

	s, _, cleanup := storetest.NewStore(t, store.WithRecorder(db.NewRecorder(database)))
	defer cleanup()
	require.NoError(t, s.FetchContacts(context.Background()))

	out.Reset()
	require.NoError(t, ActivityCommand(database, &out, []string{"--slice", "contacts"}))
	assert.Contains(t, out.String(), "contacts")
	assert.Contains(t, out.String(), "fulfilled: 1")
}

func TestLoginRejectsBadURL(t *testing.T) {
	cfg := config.DefaultConfig()

	var out bytes.Buffer
	err := LoginCommand(cfg, &out, []string{"--url", "ftp://crm.example.com", "--token", "secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestImportGoogleArguments(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	orig := xdg.DataHome
	xdg.DataHome = t.TempDir()
	defer func() { xdg.DataHome = orig }()
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	var out bytes.Buffer
	err := ImportGoogleCommand(s, nil, &out, []string{"--brand", "everything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid brand: everything")

	err = ImportGoogleCommand(s, nil, &out, []string{"--brand", "repro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
}

func TestMCPServerRegistersEverything(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewMCPServer(s, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.Len(t, names, 15)
	assert.Contains(t, names, "list_properties")
	assert.Contains(t, names, "get_dashboard")

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resources.Resources, 6)

	templates, err := session.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, templates.ResourceTemplates, 2)

	prompts, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 3)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "list_roles", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, result.IsError)
}
