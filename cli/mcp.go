// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the store as tools, resources and prompts on stdio
package cli

import (
	"context"

	"github.com/harperreed/crmdesk/handlers"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// NewMCPServer registers every tool, resource and prompt backed by s.
func NewMCPServer(s *store.Store, version string) *mcp.Server {
	contactHandlers := handlers.NewContactHandlers(s)
	leadHandlers := handlers.NewLeadHandlers(s)
	propertyHandlers := handlers.NewPropertyHandlers(s)
	teamHandlers := handlers.NewTeamHandlers(s)
	vizHandlers := handlers.NewVizHandlers(s)
	resourceHandlers := handlers.NewResourceHandlers(s)
	promptHandlers := handlers.NewPromptHandlers(s)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmdesk",
		Version: version,
	}, nil)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts, filtered by name, email, phone, kind, status, brand or assignee",
	}, contactHandlers.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_contact",
		Description: "Create a contact for the probiz or repro brand",
	}, contactHandlers.CreateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Soft-delete a contact",
	}, contactHandlers.DeleteContact)

	// Leads
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_leads",
		Description: "List leads with contact and assignee names, filtered by brand, status, type or assignee",
	}, leadHandlers.ListLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Create a real-estate or business-setup lead for an existing contact",
	}, leadHandlers.CreateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead",
		Description: "Update a lead's status, assignee, budget or preferences, optionally adding a note",
	}, leadHandlers.UpdateLead)

	// Listings
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_locations",
		Description: "List locations with their label split into subcommunity, community, city and country",
	}, propertyHandlers.ListLocations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_location",
		Description: "Create a location from a comma-separated label and coordinates",
	}, propertyHandlers.CreateLocation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_properties",
		Description: "List properties joined with their locations, filtered by type, price, bedrooms or location",
	}, propertyHandlers.ListProperties)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_property",
		Description: "Create a property listing",
	}, propertyHandlers.CreateProperty)

	// Team
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_users",
		Description: "List team members, optionally only those covering a brand",
	}, teamHandlers.ListUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_roles",
		Description: "List team roles",
	}, teamHandlers.ListRoles)

	// Visualization
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz DOT graph of a lead with its contact, assignee, properties and locations",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get pipeline statistics for both brands",
	}, vizHandlers.GetDashboard)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, t := range resourceHandlers.Templates() {
		server.AddResourceTemplate(t, resourceHandlers.ReadResource)
	}
	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

// MCPCommand starts the MCP server on stdio.
func MCPCommand(s *store.Store, version string) error {
	logrus.Info("Starting crmdesk MCP server")
	return NewMCPServer(s, version).Run(context.Background(), &mcp.StdioTransport{})
}
