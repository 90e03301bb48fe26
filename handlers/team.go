// ABOUTME: Team MCP tool handlers
// ABOUTME: Implements list_users and list_roles
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TeamHandlers struct {
	store *store.Store
}

func NewTeamHandlers(s *store.Store) *TeamHandlers {
	return &TeamHandlers{store: s}
}

type UserOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	RoleID      *int64 `json:"role_id,omitempty"`
	Role        string `json:"role,omitempty"`
	BrandAccess string `json:"brand_access"`
	Status      string `json:"status"`
}

type ListUsersInput struct {
	Brand  string `json:"brand,omitempty" jsonschema:"Only users whose brand access covers this brand (probiz, repro, real-estate or business-setup)"`
	Status string `json:"status,omitempty" jsonschema:"Filter by status: active or inactive"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListUsersOutput struct {
	Users []UserOutput `json:"users"`
	Total int          `json:"total"`
}

func (h *TeamHandlers) ListUsers(ctx context.Context, _ *mcp.CallToolRequest, input ListUsersInput) (*mcp.CallToolResult, ListUsersOutput, error) {
	if err := h.store.FetchUsers(ctx); err != nil {
		return nil, ListUsersOutput{}, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := store.FilterUsers(h.store.Users.List(), input.Brand, input.Status)
	total := len(users)
	users = limitList(users, input.Limit)

	result := make([]UserOutput, len(users))
	for i, u := range users {
		result[i] = h.userToOutput(u)
	}
	return nil, ListUsersOutput{Users: result, Total: total}, nil
}

type RoleOutput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type ListRolesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches role name and key)"`
}

type ListRolesOutput struct {
	Roles []RoleOutput `json:"roles"`
}

func (h *TeamHandlers) ListRoles(ctx context.Context, _ *mcp.CallToolRequest, input ListRolesInput) (*mcp.CallToolResult, ListRolesOutput, error) {
	if err := h.store.FetchRoles(ctx); err != nil {
		return nil, ListRolesOutput{}, fmt.Errorf("failed to fetch roles: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(input.Query))
	result := []RoleOutput{}
	for _, r := range h.store.Roles.List() {
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Key), q) {
			continue
		}
		result = append(result, RoleOutput{ID: r.ID, Name: r.Name, Key: r.Key})
	}
	return nil, ListRolesOutput{Roles: result}, nil
}

func (h *TeamHandlers) userToOutput(u models.User) UserOutput {
	out := UserOutput{
		ID:          u.ID,
		Name:        u.Name(),
		Email:       u.Email,
		Phone:       u.Phone,
		RoleID:      u.RoleID,
		BrandAccess: u.BrandAccess.String(),
		Status:      string(u.Status),
	}
	switch {
	case u.Role != nil:
		out.Role = u.Role.Name
	case u.RoleID != nil:
		if r, ok := h.store.Roles.Find(*u.RoleID); ok {
			out.Role = r.Name
		}
	}
	return out
}
