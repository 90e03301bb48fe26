// ABOUTME: Lead CLI commands
// ABOUTME: Lists and manages leads for both brands
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

// ListLeadsCommand lists leads with the contact and assignee names resolved.
func ListLeadsCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("leads list")
	brand := fs.String("brand", "", "Filter by brand (real-estate, business-setup, repro or probiz)")
	status := fs.String("status", "", "Filter by status")
	leadType := fs.String("type", "", "Filter by lead type (rent or sale)")
	assigned := fs.Int64("assigned", 0, "Filter by assigned user ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if err := s.FetchLeads(ctx); err != nil {
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	// Names only; a failure leaves them unresolved.
	_ = s.FetchContacts(ctx)
	_ = s.FetchUsers(ctx)

	leads := store.FilterLeads(s.Leads.List(), store.LeadFilter{
		Brand:        leadBrand(*brand),
		Status:       *status,
		LeadType:     *leadType,
		AssignedToID: *assigned,
	})
	if len(leads) == 0 {
		fmt.Fprintln(out, "No leads found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCONTACT\tBRAND\tSTATUS\tTYPE\tBUDGET\tASSIGNED")
	_, _ = fmt.Fprintln(w, "--\t-------\t-----\t------\t----\t------\t--------")
	for _, l := range leads {
		contact := "Unknown"
		if c, ok := s.Contacts.Find(l.ContactID); ok {
			contact = c.Name()
		}
		assignee := "-"
		if l.AssignedToID != nil {
			assignee = "Unknown"
			if u, ok := s.Users.Find(*l.AssignedToID); ok {
				assignee = u.Name()
			}
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, contact, l.Brand, l.Status, orDash(l.LeadType), budget(l.BudgetMin, l.BudgetMax), assignee)
	}
	return w.Flush()
}

// AddLeadCommand creates a lead for an existing contact.
func AddLeadCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("leads add")
	contactID := fs.Int64("contact", 0, "Contact ID (required)")
	brand := fs.String("brand", "", "Brand: real-estate or business-setup (required)")
	assigned := fs.Int64("assigned", 0, "Assigned user ID")
	budgetMin := fs.Float64("budget-min", 0, "Minimum budget")
	budgetMax := fs.Float64("budget-max", 0, "Maximum budget")
	bedrooms := fs.Int("bedrooms", 0, "Bedrooms wanted")
	bathrooms := fs.Int("bathrooms", 0, "Bathrooms wanted")
	propertyType := fs.String("property-type", "", "Property type wanted")
	leadType := fs.String("type", "", "Lead type: rent or sale")
	locations := fs.String("locations", "", "Comma-separated preferred location IDs")
	properties := fs.String("properties", "", "Comma-separated property IDs")
	source := fs.String("source", "", "Lead source")
	status := fs.String("status", "", "Status (default new)")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	locationIDs, err := parseIDList(*locations)
	if err != nil {
		return fmt.Errorf("invalid --locations: %w", err)
	}
	propertyIDs, err := parseIDList(*properties)
	if err != nil {
		return fmt.Errorf("invalid --properties: %w", err)
	}

	set := setFlags(fs)
	lead, err := s.CreateLead(context.Background(), models.LeadInput{
		ContactID:            *contactID,
		AssignedToID:         optionalID(*assigned),
		BudgetMin:            float64IfSet(set, "budget-min", budgetMin),
		BudgetMax:            float64IfSet(set, "budget-max", budgetMax),
		Bedrooms:             intIfSet(set, "bedrooms", bedrooms),
		Bathrooms:            intIfSet(set, "bathrooms", bathrooms),
		PropertyType:         *propertyType,
		LeadType:             *leadType,
		PreferredLocationIDs: locationIDs,
		PropertyIDs:          propertyIDs,
		Source:               *source,
		Status:               *status,
		Brand:                leadBrand(*brand),
		Notes:                *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	fmt.Fprintf(out, "✓ Lead created: #%d (%s, %s)\n", lead.ID, lead.Brand, lead.Status)
	return nil
}

// UpdateLeadCommand updates the flags given. --notes appends a note.
func UpdateLeadCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("leads update")
	assigned := fs.Int64("assigned", 0, "Assigned user ID")
	budgetMin := fs.Float64("budget-min", 0, "Minimum budget")
	budgetMax := fs.Float64("budget-max", 0, "Maximum budget")
	bedrooms := fs.Int("bedrooms", 0, "Bedrooms wanted")
	bathrooms := fs.Int("bathrooms", 0, "Bathrooms wanted")
	propertyType := fs.String("property-type", "", "Property type wanted")
	leadType := fs.String("type", "", "Lead type")
	locations := fs.String("locations", "", "Comma-separated preferred location IDs")
	properties := fs.String("properties", "", "Comma-separated property IDs")
	source := fs.String("source", "", "Lead source")
	status := fs.String("status", "", "Status")
	brand := fs.String("brand", "", "Brand")
	notes := fs.String("notes", "", "Note to append")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseIDArg(fs, "lead")
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}

	locationIDs, err := parseIDList(*locations)
	if err != nil {
		return fmt.Errorf("invalid --locations: %w", err)
	}
	propertyIDs, err := parseIDList(*properties)
	if err != nil {
		return fmt.Errorf("invalid --properties: %w", err)
	}

	patch := models.LeadPatch{
		AssignedToID:         int64IfSet(set, "assigned", assigned),
		BudgetMin:            float64IfSet(set, "budget-min", budgetMin),
		BudgetMax:            float64IfSet(set, "budget-max", budgetMax),
		Bedrooms:             intIfSet(set, "bedrooms", bedrooms),
		Bathrooms:            intIfSet(set, "bathrooms", bathrooms),
		PropertyType:         stringIfSet(set, "property-type", propertyType),
		LeadType:             stringIfSet(set, "type", leadType),
		PreferredLocationIDs: locationIDs,
		PropertyIDs:          propertyIDs,
		Source:               stringIfSet(set, "source", source),
		Status:               stringIfSet(set, "status", status),
		Notes:                stringIfSet(set, "notes", notes),
	}
	if set["brand"] {
		b := leadBrand(*brand)
		patch.Brand = &b
	}

	if _, err := s.UpdateLead(context.Background(), id, patch); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	fmt.Fprintf(out, "✓ Lead %d updated\n", id)
	return nil
}

// DeleteLeadCommand soft-deletes a lead.
func DeleteLeadCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("leads delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "lead")
	if err != nil {
		return err
	}

	if err := s.DeleteLead(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	fmt.Fprintf(out, "✓ Lead %d deleted\n", id)
	return nil
}

// leadBrand accepts contact brand spellings too.
func leadBrand(v string) string {
	if v == "" {
		return ""
	}
	if b, ok := models.ParseBrand(v); ok {
		return b.LeadBrand()
	}
	return v
}

func parseIDList(v string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func budget(min, max *float64) string {
	format := func(v *float64) string {
		if v == nil {
			return "?"
		}
		return strconv.FormatFloat(*v, 'f', 0, 64)
	}
	if min == nil && max == nil {
		return "-"
	}
	return format(min) + "-" + format(max)
}
