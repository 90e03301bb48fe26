// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for listing and managing contacts
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

// ListContactsCommand lists contacts.
func ListContactsCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("contacts list")
	query := fs.String("query", "", "Search by name, email or phone")
	kind := fs.String("kind", "", "Filter by kind")
	status := fs.String("status", "", "Filter by status")
	brand := fs.String("brand", "", "Filter by brand (probiz or repro)")
	assigned := fs.Int64("assigned", 0, "Filter by assigned user ID")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := s.FetchContacts(context.Background()); err != nil {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}

	contacts := store.FilterContacts(s.Contacts.List(), store.ContactFilter{
		Query:        *query,
		Kind:         *kind,
		Status:       *status,
		Brand:        *brand,
		AssignedToID: *assigned,
	})
	if len(contacts) == 0 {
		fmt.Fprintln(out, "No contacts found")
		return nil
	}
	if *limit > 0 && len(contacts) > *limit {
		contacts = contacts[:*limit]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tKIND\tSTATUS\tBRAND")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----\t----\t------\t-----")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name(), orDash(c.Email), orDash(c.Phone), orDash(c.Kind), orDash(c.Status), orDash(c.BrandAccess))
	}
	return w.Flush()
}

// AddContactCommand creates a contact.
func AddContactCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("contacts add")
	first := fs.String("first", "", "First name (required)")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	kind := fs.String("kind", models.ContactKindLead, "Kind: customer, lead, inquiry, vendor or partner")
	status := fs.String("status", "", "Status: active, inactive or converted")
	source := fs.String("source", "", "Source: website, whatsapp or call")
	assigned := fs.Int64("assigned", 0, "Assigned user ID")
	brand := fs.String("brand", "", "Brand: probiz, repro or both (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	contact, err := s.CreateContact(context.Background(), models.ContactInput{
		FirstName:    *first,
		LastName:     *last,
		Email:        *email,
		Phone:        *phone,
		Kind:         *kind,
		Status:       *status,
		Source:       *source,
		AssignedToID: optionalID(*assigned),
		BrandAccess:  *brand,
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Fprintf(out, "✓ Contact created: %s (ID: %d)\n", contact.Name(), contact.ID)
	if contact.Email != "" {
		fmt.Fprintf(out, "  Email: %s\n", contact.Email)
	}
	fmt.Fprintf(out, "  Brand: %s\n", contact.BrandAccess)
	return nil
}

// UpdateContactCommand updates the flags given. Flags must come before the ID.
func UpdateContactCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("contacts update")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	kind := fs.String("kind", "", "Kind")
	status := fs.String("status", "", "Status")
	source := fs.String("source", "", "Source")
	assigned := fs.Int64("assigned", 0, "Assigned user ID")
	brand := fs.String("brand", "", "Brand")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseIDArg(fs, "contact")
	if err != nil {
		return err
	}

	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}

	_, err = s.UpdateContact(context.Background(), id, models.ContactPatch{
		FirstName:    stringIfSet(set, "first", first),
		LastName:     stringIfSet(set, "last", last),
		Email:        stringIfSet(set, "email", email),
		Phone:        stringIfSet(set, "phone", phone),
		Kind:         stringIfSet(set, "kind", kind),
		Status:       stringIfSet(set, "status", status),
		Source:       stringIfSet(set, "source", source),
		AssignedToID: int64IfSet(set, "assigned", assigned),
		BrandAccess:  stringIfSet(set, "brand", brand),
	})
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Fprintf(out, "✓ Contact %d updated\n", id)
	return nil
}

// DeleteContactCommand soft-deletes a contact.
func DeleteContactCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("contacts delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "contact")
	if err != nil {
		return err
	}

	if err := s.DeleteContact(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	fmt.Fprintf(out, "✓ Contact %d deleted\n", id)
	return nil
}
