// ABOUTME: GraphViz and dashboard MCP handlers
// ABOUTME: Provides generate_graph and get_dashboard tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	store *store.Store
}

func NewVizHandlers(s *store.Store) *VizHandlers {
	return &VizHandlers{store: s}
}

type GenerateGraphInput struct {
	LeadID int64 `json:"lead_id,omitempty" jsonschema:"Lead ID to graph; omit to graph every lead"`
}

type GenerateGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, _ *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if err := h.store.FetchAll(ctx); err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to fetch CRM data: %w", err)
	}

	dot, err := viz.NewGraphGenerator(h.store).GenerateLeadGraph(optionalID(input.LeadID))
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Every node carries a shape attribute; edges never do.
	return nil, GenerateGraphOutput{
		DOTSource: dot,
		NodeCount: strings.Count(dot, "shape="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}

type GetDashboardInput struct{}

type GetDashboardOutput struct {
	Dashboard       string            `json:"dashboard"`
	LeadsByStatus   map[string]int    `json:"leads_by_status"`
	LeadsByBrand    map[string]int    `json:"leads_by_brand"`
	ContactsByBrand map[string]int    `json:"contacts_by_brand"`
	SliceErrors     map[string]string `json:"slice_errors,omitempty"`
}

// GetDashboard fetches every slice and summarizes it. A failing slice is
// reported in slice_errors rather than failing the call.
func (h *VizHandlers) GetDashboard(ctx context.Context, _ *mcp.CallToolRequest, _ GetDashboardInput) (*mcp.CallToolResult, GetDashboardOutput, error) {
	_ = h.store.FetchAll(ctx)

	stats := viz.GenerateDashboardStats(h.store)
	return nil, GetDashboardOutput{
		Dashboard:       viz.RenderDashboard(stats),
		LeadsByStatus:   stats.LeadsByStatus,
		LeadsByBrand:    stats.LeadsByBrand,
		ContactsByBrand: stats.ContactsByBrand,
		SliceErrors:     stats.SliceErrors,
	}, nil
}
