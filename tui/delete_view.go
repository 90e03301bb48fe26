// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms and dispatches deletes for every entity tab
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	entityType, entityName := m.describeSelected()

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), entityName)

	// Users are removed outright; everything else is soft-deleted.
	warning := "\nIt will be hidden from every list."
	if m.entityType == EntityUsers {
		warning = "\nThis action cannot be undone!"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) describeSelected() (entityType, name string) {
	switch m.entityType {
	case EntityContacts:
		return "contact", m.contactName(m.selectedID)
	case EntityLeads:
		return "lead", fmt.Sprintf("#%d", m.selectedID)
	case EntityProperties:
		if p, ok := m.store.Properties.Find(m.selectedID); ok {
			return "property", p.Reference + " " + p.Title
		}
		return "property", "Unknown"
	case EntityLocations:
		if l, ok := m.store.Locations.Find(m.selectedID); ok {
			return "location", l.Label
		}
		return "location", "Unknown"
	case EntityUsers:
		return "user", m.userName(m.selectedID)
	}
	return "", ""
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.selectedID
		m.viewMode = ViewList
		m.selectedID = 0
		m.message = "Deleting..."
		return m, m.performDelete(id)
	case "n", "N", "esc":
		// Cancel delete
		m.viewMode = ViewDetail
	}

	return m, nil
}

func (m Model) performDelete(id int64) tea.Cmd {
	s := m.store
	entityType := m.entityType
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch entityType {
		case EntityContacts:
			err = s.DeleteContact(ctx, id)
		case EntityLeads:
			err = s.DeleteLead(ctx, id)
		case EntityProperties:
			err = s.DeleteProperty(ctx, id)
		case EntityLocations:
			err = s.DeleteLocation(ctx, id)
		case EntityUsers:
			err = s.DeleteUser(ctx, id)
		default:
			err = fmt.Errorf("unknown entity type")
		}
		return deleteDoneMsg{id: id, err: err}
	}
}
