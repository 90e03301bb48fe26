// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes the loaded slices by brand, lead status and lead type
package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

type DashboardStats struct {
	// Pipeline overview
	LeadsByStatus map[string]int
	LeadsByBrand  map[string]int
	LeadsByType   map[string]int

	ContactsByBrand map[string]int
	UsersByBrand    map[string]int

	// Overall stats
	TotalContacts   int
	TotalLeads      int
	TotalProperties int
	TotalLocations  int
	TotalUsers      int

	// Needs attention
	UnassignedLeads     int
	UnlocatedProperties int
	InactiveUsers       int
	SliceErrors         map[string]string
}

// GenerateDashboardStats counts whatever is currently loaded in s.
func GenerateDashboardStats(s *store.Store) *DashboardStats {
	stats := &DashboardStats{
		LeadsByStatus:   make(map[string]int),
		LeadsByBrand:    make(map[string]int),
		LeadsByType:     make(map[string]int),
		ContactsByBrand: make(map[string]int),
		UsersByBrand:    make(map[string]int),
		SliceErrors:     make(map[string]string),
	}

	leads := s.Leads.List()
	stats.TotalLeads = len(leads)
	for _, l := range leads {
		stats.LeadsByStatus[orUnknown(l.Status)]++
		stats.LeadsByBrand[orUnknown(l.Brand)]++
		stats.LeadsByType[orUnknown(l.LeadType)]++
		if l.AssignedToID == nil {
			stats.UnassignedLeads++
		}
	}

	contacts := s.Contacts.List()
	stats.TotalContacts = len(contacts)
	for _, c := range contacts {
		stats.ContactsByBrand[orUnknown(c.BrandAccess)]++
	}

	users := s.Users.List()
	stats.TotalUsers = len(users)
	for _, u := range users {
		stats.UsersByBrand[u.BrandAccess.String()]++
		if u.Status == models.UserStatusInactive {
			stats.InactiveUsers++
		}
	}

	for _, p := range s.PropertiesWithLocations() {
		if p.Location == nil {
			stats.UnlocatedProperties++
		}
	}
	stats.TotalProperties = len(s.Properties.List())
	stats.TotalLocations = len(s.Locations.List())

	for name, errMsg := range sliceErrors(s) {
		if errMsg != "" {
			stats.SliceErrors[name] = errMsg
		}
	}

	return stats
}

func sliceErrors(s *store.Store) map[string]string {
	return map[string]string{
		store.SliceContacts:   s.Contacts.State().Error,
		store.SliceLeads:      s.Leads.State().Error,
		store.SliceLocations:  s.Locations.State().Error,
		store.SliceProperties: s.Properties.State().Error,
		store.SliceRoles:      s.Roles.State().Error,
		store.SliceUsers:      s.Users.State().Error,
	}
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CRMDESK DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("LEAD PIPELINE\n")
	renderPipeline(&out, stats.LeadsByStatus)
	out.WriteString("\n")

	out.WriteString("BRANDS\n")
	fmt.Fprintf(&out, "  Leads     %s\n", renderCounts(stats.LeadsByBrand))
	fmt.Fprintf(&out, "  Contacts  %s\n", renderCounts(stats.ContactsByBrand))
	fmt.Fprintf(&out, "  Team      %s\n\n", renderCounts(stats.UsersByBrand))

	if len(stats.LeadsByType) > 0 {
		out.WriteString("LEAD TYPES\n")
		fmt.Fprintf(&out, "  %s\n\n", renderCounts(stats.LeadsByType))
	}

	out.WriteString("STATS\n")
	fmt.Fprintf(&out, "  📇 %d contacts  🎯 %d leads  🏠 %d properties  📍 %d locations  👥 %d users\n\n",
		stats.TotalContacts, stats.TotalLeads, stats.TotalProperties, stats.TotalLocations, stats.TotalUsers)

	if stats.UnassignedLeads > 0 || stats.UnlocatedProperties > 0 || stats.InactiveUsers > 0 || len(stats.SliceErrors) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		if stats.UnassignedLeads > 0 {
			fmt.Fprintf(&out, "  ⚠️  %d leads - not assigned\n", stats.UnassignedLeads)
		}
		if stats.UnlocatedProperties > 0 {
			fmt.Fprintf(&out, "  ⚠️  %d properties - location not loaded\n", stats.UnlocatedProperties)
		}
		if stats.InactiveUsers > 0 {
			fmt.Fprintf(&out, "  ⚠️  %d users - inactive\n", stats.InactiveUsers)
		}
		for _, name := range sortedKeys(stats.SliceErrors) {
			fmt.Fprintf(&out, "  ❌ %s: %s\n", name, stats.SliceErrors[name])
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, byStatus map[string]int) {
	stages := []string{
		models.LeadStatusNew,
		models.LeadStatusContacted,
		models.LeadStatusQualified,
		models.LeadStatusClosed,
		models.LeadStatusLost,
	}
	// Statuses outside the known stages still get a row.
	for _, status := range sortedKeys(byStatus) {
		if !contains(stages, status) {
			stages = append(stages, status)
		}
	}

	maxCount := 0
	for _, n := range byStatus {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, stage := range stages {
		count, exists := byStatus[stage]
		if !exists {
			continue
		}
		barLength := (count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		fmt.Fprintf(out, "  %-13s %s  %2d\n", stage, bar, count)
	}
}

func renderCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, "  ")
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
