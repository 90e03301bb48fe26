package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

// listing is the table for the active tab. ids[i] is the entity on row i.
type listing struct {
	columns []table.Column
	rows    []table.Row
	ids     []int64
	err     string
}

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("CRMDESK"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("  ")
	s.WriteString(statusStyle.Render("Brand: " + m.brandLabel()))
	s.WriteString("\n\n")

	// Table
	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(m.message))
	}
	s.WriteString("\n")

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range entityTabs {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	l := m.listing()

	var s strings.Builder
	if l.err != "" {
		s.WriteString(errorStyle.Render("Error: " + l.err))
		s.WriteString("\n")
	}

	height := m.height - 10
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(l.columns),
		table.WithRows(l.rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Set selected row
	if m.selectedRow < len(l.rows) {
		t.SetCursor(m.selectedRow)
	}

	s.WriteString(t.View())
	return s.String()
}

// listing builds the rows for the active tab with the brand filter applied.
func (m Model) listing() listing {
	switch m.entityType {
	case EntityContacts:
		return m.contactListing()
	case EntityLeads:
		return m.leadListing()
	case EntityProperties:
		return m.propertyListing()
	case EntityLocations:
		return m.locationListing()
	case EntityUsers:
		return m.userListing()
	}
	return listing{}
}

func (m Model) contactListing() listing {
	state := m.store.Contacts.State()
	l := listing{
		columns: []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 26},
			{Title: "Kind", Width: 10},
			{Title: "Status", Width: 10},
			{Title: "Brand", Width: 8},
		},
		err: state.Error,
	}
	contacts := store.FilterContacts(state.List, store.ContactFilter{Brand: m.brand().ContactBrand()})
	for _, c := range contacts {
		l.ids = append(l.ids, c.ID)
		l.rows = append(l.rows, table.Row{c.Name(), c.Email, c.Kind, c.Status, c.BrandAccess})
	}
	return l
}

func (m Model) leadListing() listing {
	state := m.store.Leads.State()
	l := listing{
		columns: []table.Column{
			{Title: "#", Width: 5},
			{Title: "Contact", Width: 22},
			{Title: "Brand", Width: 15},
			{Title: "Status", Width: 10},
			{Title: "Type", Width: 6},
			{Title: "Assigned", Width: 18},
		},
		err: state.Error,
	}
	leads := store.FilterLeads(state.List, store.LeadFilter{Brand: m.brand().LeadBrand()})
	for _, lead := range leads {
		assignee := ""
		if lead.AssignedToID != nil {
			assignee = m.userName(*lead.AssignedToID)
		}
		l.ids = append(l.ids, lead.ID)
		l.rows = append(l.rows, table.Row{
			strconv.FormatInt(lead.ID, 10),
			m.contactName(lead.ContactID),
			lead.Brand,
			lead.Status,
			lead.LeadType,
			assignee,
		})
	}
	return l
}

func (m Model) propertyListing() listing {
	state := m.store.Properties.State()
	l := listing{
		columns: []table.Column{
			{Title: "Ref", Width: 10},
			{Title: "Title", Width: 22},
			{Title: "Type", Width: 10},
			{Title: "Beds", Width: 4},
			{Title: "Price", Width: 10},
			{Title: "Location", Width: 22},
		},
		err: state.Error,
	}
	for _, p := range m.store.PropertiesWithLocations() {
		l.ids = append(l.ids, p.ID)
		l.rows = append(l.rows, table.Row{
			p.Reference,
			p.Title,
			p.PropertyType,
			strconv.Itoa(p.Bedrooms),
			fmt.Sprintf("%.0f", p.Price),
			locationLabel(p),
		})
	}
	return l
}

func (m Model) locationListing() listing {
	state := m.store.Locations.State()
	l := listing{
		columns: []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Subcommunity", Width: 18},
			{Title: "Community", Width: 18},
			{Title: "City", Width: 12},
			{Title: "Country", Width: 10},
		},
		err: state.Error,
	}
	for _, loc := range state.List {
		parts := loc.Parts()
		l.ids = append(l.ids, loc.ID)
		l.rows = append(l.rows, table.Row{
			strconv.FormatInt(loc.ID, 10),
			parts.Subcommunity,
			parts.Community,
			parts.City,
			parts.Country,
		})
	}
	return l
}

func (m Model) userListing() listing {
	state := m.store.Users.State()
	l := listing{
		columns: []table.Column{
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 24},
			{Title: "Role", Width: 10},
			{Title: "Brand", Width: 14},
			{Title: "Status", Width: 8},
		},
		err: state.Error,
	}
	users := store.FilterUsers(state.List, m.brand().LeadBrand(), "")
	for _, u := range users {
		l.ids = append(l.ids, u.ID)
		l.rows = append(l.rows, table.Row{u.Name(), u.Email, m.roleName(u), u.BrandAccess.String(), string(u.Status)})
	}
	return l
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"b: Brand",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
		m.clampSelection()
	case "tab":
		m.entityType = (m.entityType + 1) % entityCount
		m.selectedRow = 0
	case "shift+tab":
		m.entityType = (m.entityType + entityCount - 1) % entityCount
		m.selectedRow = 0
	case "b":
		m.brandIdx = (m.brandIdx + 1) % len(brandCycle)
		m.selectedRow = 0
	case "r":
		m.message = "Refreshing..."
		return m, m.refresh()
	case "enter":
		if id, ok := m.getSelectedID(); ok {
			m.selectedID = id
			m.viewMode = ViewDetail
		}
	}

	return m, nil
}

func (m Model) getSelectedID() (int64, bool) {
	ids := m.listing().ids
	if m.selectedRow < len(ids) {
		return ids[m.selectedRow], true
	}
	return 0, false
}

// clampSelection keeps the cursor on an existing row.
func (m *Model) clampSelection() {
	n := len(m.listing().ids)
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) contactName(id int64) string {
	if c, ok := m.store.Contacts.Find(id); ok {
		return c.Name()
	}
	return "Unknown"
}

func (m Model) userName(id int64) string {
	if u, ok := m.store.Users.Find(id); ok {
		return u.Name()
	}
	return "Unknown"
}

func (m Model) roleName(u models.User) string {
	if u.Role != nil {
		return u.Role.Name
	}
	if u.RoleID != nil {
		if r, ok := m.store.Roles.Find(*u.RoleID); ok {
			return r.Name
		}
	}
	return ""
}

func locationLabel(p models.PropertyWithLocation) string {
	switch {
	case p.Location != nil:
		return p.Location.Parts().Short()
	case p.LocationID != nil:
		return fmt.Sprintf("#%d (not loaded)", *p.LocationID)
	}
	return ""
}
