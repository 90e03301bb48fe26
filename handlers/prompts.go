// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Builds lead summaries, brand pipeline reviews and assignment suggestions from loaded data
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	store *store.Store
}

func NewPromptHandlers(s *store.Store) *PromptHandlers {
	return &PromptHandlers{store: s}
}

// Prompts lists the templates served by GetPrompt.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "lead-summary",
			Description: "Summarize a lead with its contact, budget and properties of interest",
			Arguments: []*mcp.PromptArgument{
				{Name: "lead_id", Description: "Lead ID", Required: true},
			},
		},
		{
			Name:        "brand-pipeline",
			Description: "Review the lead pipeline for one brand",
			Arguments: []*mcp.PromptArgument{
				{Name: "brand", Description: "real-estate or business-setup", Required: true},
			},
		},
		{
			Name:        "assignment-suggestions",
			Description: "Suggest team members for unassigned leads",
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	if err := h.store.FetchAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch CRM data: %w", err)
	}

	arguments := request.Params.Arguments
	switch request.Params.Name {
	case "lead-summary":
		return h.getLeadSummaryPrompt(arguments)
	case "brand-pipeline":
		return h.getBrandPipelinePrompt(arguments)
	case "assignment-suggestions":
		return h.getAssignmentSuggestionsPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getLeadSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["lead_id"]
	if !ok {
		return nil, fmt.Errorf("lead_id is required")
	}
	leadID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lead_id: %w", err)
	}
	lead, ok := h.store.Leads.Find(leadID)
	if !ok {
		return nil, fmt.Errorf("lead %d not found", leadID)
	}

	var promptText strings.Builder
	promptText.WriteString("Please provide a summary of this lead:\n\n")
	fmt.Fprintf(&promptText, "Lead: #%d (%s, %s)\n", lead.ID, lead.Brand, lead.Status)
	fmt.Fprintf(&promptText, "Contact: %s\n", contactName(h.store, lead.ContactID))
	if c, ok := h.store.Contacts.Find(lead.ContactID); ok {
		if c.Email != "" {
			fmt.Fprintf(&promptText, "Email: %s\n", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&promptText, "Phone: %s\n", c.Phone)
		}
	}
	if lead.AssignedToID != nil {
		fmt.Fprintf(&promptText, "Assigned to: %s\n", userName(h.store, *lead.AssignedToID))
	}
	if lead.LeadType != "" {
		fmt.Fprintf(&promptText, "Looking to: %s\n", lead.LeadType)
	}
	if lead.BudgetMin != nil || lead.BudgetMax != nil {
		fmt.Fprintf(&promptText, "Budget: %s - %s\n", formatAmount(lead.BudgetMin), formatAmount(lead.BudgetMax))
	}
	if lead.Bedrooms != nil {
		fmt.Fprintf(&promptText, "Bedrooms: %d\n", *lead.Bedrooms)
	}

	for _, id := range lead.PreferredLocationIDs {
		label := unknownName
		if l := h.store.ResolveLocation(id); l != nil {
			label = l.Label
		}
		fmt.Fprintf(&promptText, "Preferred location: %s\n", label)
	}
	for _, id := range lead.PropertyIDs {
		if p, ok := h.store.Properties.Find(id); ok {
			fmt.Fprintf(&promptText, "Interested in: %s %s (%.0f)\n", p.Reference, p.Title, p.Price)
		} else {
			fmt.Fprintf(&promptText, "Interested in: property %d (not loaded)\n", id)
		}
	}
	if len(lead.Notes) > 0 {
		promptText.WriteString("\nNotes:\n")
		for _, n := range lead.Notes {
			fmt.Fprintf(&promptText, "  - %s\n", n.Note)
		}
	}

	promptText.WriteString("\nPlease analyze this lead and provide:")
	promptText.WriteString("\n1. A brief summary of what the client is looking for")
	promptText.WriteString("\n2. Recommended next steps")
	promptText.WriteString("\n3. Matching properties from the listings, if any")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Summary for lead #%d", lead.ID),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getBrandPipelinePrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	raw, ok := args["brand"]
	if !ok {
		return nil, fmt.Errorf("brand is required")
	}
	brand := leadBrand(raw)
	if brand != models.LeadBrandRealEstate && brand != models.LeadBrandBusinessSetup {
		return nil, fmt.Errorf("invalid brand: %s", raw)
	}

	leads := store.FilterLeads(h.store.Leads.List(), store.LeadFilter{Brand: brand})
	byStatus := make(map[string]int)
	unassigned := 0
	for _, l := range leads {
		byStatus[l.Status]++
		if l.AssignedToID == nil {
			unassigned++
		}
	}
	team := models.FilterUsersByBrand(h.store.Users.List(), brand)

	var promptText strings.Builder
	fmt.Fprintf(&promptText, "Please review the %s lead pipeline:\n\n", brand)
	fmt.Fprintf(&promptText, "Total Leads: %d\n", len(leads))
	fmt.Fprintf(&promptText, "Unassigned: %d\n", unassigned)
	fmt.Fprintf(&promptText, "Team members covering this brand: %d\n\n", len(team))
	promptText.WriteString("Leads by Status:\n")
	for _, status := range []string{models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified, models.LeadStatusClosed, models.LeadStatusLost} {
		if n := byStatus[status]; n > 0 {
			fmt.Fprintf(&promptText, "  - %s: %d\n", status, n)
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health")
	promptText.WriteString("\n2. Leads that may need attention")
	promptText.WriteString("\n3. Suggestions for improving conversion")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Pipeline review for %s", brand),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getAssignmentSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	var promptText strings.Builder
	promptText.WriteString("Please suggest an assignee for each unassigned lead.\n\n")

	promptText.WriteString("Unassigned leads:\n")
	count := 0
	for _, l := range h.store.Leads.List() {
		if l.AssignedToID != nil {
			continue
		}
		count++
		fmt.Fprintf(&promptText, "  - #%d %s (%s, %s)\n", l.ID, contactName(h.store, l.ContactID), l.Brand, l.Status)
	}
	if count == 0 {
		promptText.WriteString("  (none)\n")
	}

	promptText.WriteString("\nActive team members:\n")
	for _, u := range store.FilterUsers(h.store.Users.List(), "", string(models.UserStatusActive)) {
		fmt.Fprintf(&promptText, "  - %s (brand access: %s)\n", u.Name(), u.BrandAccess)
	}

	promptText.WriteString("\nOnly suggest team members whose brand access covers the lead's brand.")

	return &mcp.GetPromptResult{
		Description: "Assignment suggestions for unassigned leads",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func formatAmount(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}
