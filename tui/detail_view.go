package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().Bold(true)
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")

	// Entity details
	switch m.entityType {
	case EntityContacts:
		s.WriteString(m.renderContactDetail())
	case EntityLeads:
		s.WriteString(m.renderLeadDetail())
	case EntityProperties:
		s.WriteString(m.renderPropertyDetail())
	case EntityLocations:
		s.WriteString(m.renderLocationDetail())
	case EntityUsers:
		s.WriteString(m.renderUserDetail())
	}

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderContactDetail() string {
	contact, ok := m.store.Contacts.Find(m.selectedID)
	if !ok {
		return fmt.Sprintf("Contact %d is no longer loaded", m.selectedID)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", contact.Name()))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Kind", contact.Kind))
	s.WriteString(m.renderField("Status", contact.Status))
	s.WriteString(m.renderField("Source", contact.Source))
	s.WriteString(m.renderField("Brand", contact.BrandAccess))
	if contact.AssignedToID != nil {
		s.WriteString(m.renderField("Assigned To", m.userName(*contact.AssignedToID)))
	}

	// Related leads
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("LEADS"))
	s.WriteString("\n")

	for _, lead := range m.store.Leads.List() {
		if lead.ContactID != contact.ID {
			continue
		}
		s.WriteString(fmt.Sprintf("  • #%d %s (%s)\n", lead.ID, lead.Brand, lead.Status))
	}

	return s.String()
}

func (m Model) renderLeadDetail() string {
	lead, ok := m.store.Leads.Find(m.selectedID)
	if !ok {
		return fmt.Sprintf("Lead %d is no longer loaded", m.selectedID)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Lead", "#"+strconv.FormatInt(lead.ID, 10)))
	s.WriteString(m.renderField("Contact", m.contactName(lead.ContactID)))
	s.WriteString(m.renderField("Brand", lead.Brand))
	s.WriteString(m.renderField("Status", lead.Status))
	s.WriteString(m.renderField("Type", lead.LeadType))
	s.WriteString(m.renderField("Source", lead.Source))
	if lead.AssignedToID != nil {
		s.WriteString(m.renderField("Assigned To", m.userName(*lead.AssignedToID)))
	}
	if lead.BudgetMin != nil || lead.BudgetMax != nil {
		s.WriteString(m.renderField("Budget", formatAmount(lead.BudgetMin)+" - "+formatAmount(lead.BudgetMax)))
	}
	if lead.Bedrooms != nil {
		s.WriteString(m.renderField("Bedrooms", strconv.Itoa(*lead.Bedrooms)))
	}
	s.WriteString(m.renderField("Property Type", lead.PropertyType))

	var preferred []string
	for _, id := range lead.PreferredLocationIDs {
		if loc := m.store.ResolveLocation(id); loc != nil {
			preferred = append(preferred, loc.Parts().Short())
		} else {
			preferred = append(preferred, fmt.Sprintf("#%d", id))
		}
	}
	s.WriteString(m.renderField("Preferred", strings.Join(preferred, ", ")))

	// Properties of interest
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("PROPERTIES"))
	s.WriteString("\n")
	for _, id := range lead.PropertyIDs {
		if p, ok := m.store.Properties.Find(id); ok {
			s.WriteString(fmt.Sprintf("  • %s %s\n", p.Reference, p.Title))
		} else {
			s.WriteString(fmt.Sprintf("  • #%d (not loaded)\n", id))
		}
	}

	// Notes
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("NOTES"))
	s.WriteString("\n")
	for _, note := range lead.Notes {
		if note.CreatedAt != nil {
			s.WriteString(fmt.Sprintf("  • [%s] %s\n", note.CreatedAt.Format("2006-01-02"), note.Note))
		} else {
			s.WriteString(fmt.Sprintf("  • %s\n", note.Note))
		}
	}

	return s.String()
}

func (m Model) renderPropertyDetail() string {
	var property *models.PropertyWithLocation
	for _, p := range m.store.PropertiesWithLocations() {
		if p.ID == m.selectedID {
			property = &p
			break
		}
	}
	if property == nil {
		return fmt.Sprintf("Property %d is no longer loaded", m.selectedID)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Reference", property.Reference))
	s.WriteString(m.renderField("Title", property.Title))
	s.WriteString(m.renderField("Type", property.PropertyType))
	s.WriteString(m.renderField("Price", fmt.Sprintf("%.0f", property.Price)))
	s.WriteString(m.renderField("Bedrooms", strconv.Itoa(property.Bedrooms)))
	s.WriteString(m.renderField("Bathrooms", strconv.Itoa(property.Bathrooms)))

	if property.Location != nil {
		s.WriteString(m.renderLocationParts(property.Location.Parts()))
	} else {
		s.WriteString(m.renderField("Location", locationLabel(*property)))
	}

	return s.String()
}

func (m Model) renderLocationDetail() string {
	loc, ok := m.store.Locations.Find(m.selectedID)
	if !ok {
		return fmt.Sprintf("Location %d is no longer loaded", m.selectedID)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Label", loc.Label))
	s.WriteString(m.renderLocationParts(loc.Parts()))
	s.WriteString(m.renderField("Coordinates", fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)))

	// Properties at this location
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("PROPERTIES"))
	s.WriteString("\n")
	for _, p := range store.FilterProperties(m.store.Properties.List(), store.PropertyFilter{LocationID: loc.ID}) {
		s.WriteString(fmt.Sprintf("  • %s %s\n", p.Reference, p.Title))
	}

	return s.String()
}

func (m Model) renderUserDetail() string {
	user, ok := m.store.Users.Find(m.selectedID)
	if !ok {
		return fmt.Sprintf("User %d is no longer loaded", m.selectedID)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", user.Name()))
	s.WriteString(m.renderField("Email", user.Email))
	s.WriteString(m.renderField("Phone", user.Phone))
	s.WriteString(m.renderField("Role", m.roleName(user)))
	s.WriteString(m.renderField("Brand Access", user.BrandAccess.String()))
	s.WriteString(m.renderField("Status", string(user.Status)))

	// Assigned leads
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("ASSIGNED LEADS"))
	s.WriteString("\n")
	for _, lead := range store.FilterLeads(m.store.Leads.List(), store.LeadFilter{AssignedToID: user.ID}) {
		s.WriteString(fmt.Sprintf("  • #%d %s (%s)\n", lead.ID, m.contactName(lead.ContactID), lead.Status))
	}

	return s.String()
}

func (m Model) renderLocationParts(parts models.LocationParts) string {
	var s strings.Builder
	s.WriteString(m.renderField("Subcommunity", parts.Subcommunity))
	s.WriteString(m.renderField("Community", parts.Community))
	s.WriteString(m.renderField("City", parts.City))
	s.WriteString(m.renderField("Country", parts.Country))
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{"Esc: Back", "d: Delete"}
	if m.entityType == EntityLeads {
		help = append(help, "g: View graph")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "d":
		m.viewMode = ViewConfirmDelete
	case "g":
		if m.entityType != EntityLeads {
			return m, nil
		}
		if err := m.generateGraph(); err != nil {
			m.err = err
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.viewMode = ViewGraph
	}

	return m, nil
}

func formatAmount(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}
