// ABOUTME: Google Contacts importer
// ABOUTME: Pages through People API connections and creates or links backend contacts
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/crmdesk/db"
	"github.com/harperreed/crmdesk/logging"
	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/people/v1"
)

// ImportSource is the import_links source for Google contacts.
const ImportSource = "google"

// Outcome describes what happened to one imported person.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeLinked
	OutcomeCreated
)

type GoogleContact struct {
	ResourceName string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
}

// ImportSummary counts outcomes across a whole import run.
type ImportSummary struct {
	Created int
	Linked  int
	Skipped int
	Ignored int
}

type ContactsImporter struct {
	store   *store.Store
	db      *sql.DB
	matcher *ContactMatcher
	brand   models.BrandAccess
	logger  logrus.FieldLogger
}

// NewContactsImporter builds an importer over the contacts already loaded
// in s. New contacts get the given brand access.
func NewContactsImporter(s *store.Store, database *sql.DB, brand models.BrandAccess, logger logrus.FieldLogger) *ContactsImporter {
	if logger == nil {
		logger = logging.Logger
	}
	return &ContactsImporter{
		store:   s,
		db:      database,
		matcher: NewContactMatcher(s.Contacts.List()),
		brand:   brand,
		logger:  logger,
	}
}

// ImportContact imports a single contact from Google.
func (ci *ContactsImporter) ImportContact(ctx context.Context, gc *GoogleContact) (Outcome, error) {
	if _, found, err := db.FindImport(ci.db, ImportSource, gc.ResourceName); err != nil {
		return OutcomeSkipped, err
	} else if found {
		return OutcomeSkipped, nil
	}

	if existing, found := ci.matcher.FindMatch(gc.Email); found {
		if err := db.LinkImport(ci.db, ImportSource, gc.ResourceName, existing.ID); err != nil {
			return OutcomeSkipped, err
		}
		if existing.Phone == "" && gc.Phone != "" {
			phone := gc.Phone
			updated, err := ci.store.UpdateContact(ctx, existing.ID, models.ContactPatch{Phone: &phone})
			if err != nil {
				return OutcomeLinked, fmt.Errorf("failed to update contact %d: %w", existing.ID, err)
			}
			ci.matcher.AddContact(updated)
		}
		return OutcomeLinked, nil
	}

	contact, err := ci.store.CreateContact(ctx, models.ContactInput{
		FirstName:   gc.FirstName,
		LastName:    gc.LastName,
		Email:       gc.Email,
		Phone:       gc.Phone,
		Kind:        models.ContactKindLead,
		Status:      models.ContactStatusActive,
		Source:      models.SourceWebsite,
		BrandAccess: ci.brand.ContactBrand(),
	})
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to create contact: %w", err)
	}

	if err := db.LinkImport(ci.db, ImportSource, gc.ResourceName, contact.ID); err != nil {
		return OutcomeCreated, err
	}
	ci.matcher.AddContact(contact)

	return OutcomeCreated, nil
}

// ImportContacts fetches contacts from the backend, then pages through
// source and imports every usable person.
func ImportContacts(ctx context.Context, s *store.Store, database *sql.DB, source PeopleSource, brand models.BrandAccess, out io.Writer) (ImportSummary, error) {
	var summary ImportSummary

	if err := s.FetchContacts(ctx); err != nil {
		return summary, fmt.Errorf("failed to load contacts: %w", err)
	}

	importer := NewContactsImporter(s, database, brand, nil)

	pageToken := ""
	for {
		persons, next, err := source.Connections(ctx, pageToken)
		if err != nil {
			return summary, err
		}

		for _, person := range persons {
			gc := convertPerson(person)
			if gc == nil {
				summary.Ignored++
				continue
			}

			outcome, err := importer.ImportContact(ctx, gc)
			if err != nil {
				importer.logger.WithError(err).WithField("resource", gc.ResourceName).Warn("import failed")
				fmt.Fprintf(out, "  ✗ %s %s: %v\n", gc.FirstName, gc.LastName, err)
				summary.Ignored++
				continue
			}

			switch outcome {
			case OutcomeCreated:
				summary.Created++
				fmt.Fprintf(out, "  ✓ Created: %s\n", fullName(gc))
			case OutcomeLinked:
				summary.Linked++
				fmt.Fprintf(out, "  ↻ Linked: %s\n", fullName(gc))
			default:
				summary.Skipped++
			}
		}

		if next == "" {
			break
		}
		pageToken = next
	}

	return summary, nil
}

// convertPerson maps a People API person, or returns nil when it has no
// name or no way to reach them.
func convertPerson(person *people.Person) *GoogleContact {
	if person == nil {
		return nil
	}

	gc := &GoogleContact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		name := person.Names[0]
		gc.FirstName = strings.TrimSpace(name.GivenName)
		gc.LastName = strings.TrimSpace(name.FamilyName)
		if gc.FirstName == "" {
			parts := strings.Fields(name.DisplayName)
			if len(parts) > 0 {
				gc.FirstName = parts[0]
				gc.LastName = strings.Join(parts[1:], " ")
			}
		}
	}

	for i, email := range person.EmailAddresses {
		if i == 0 || (email.Metadata != nil && email.Metadata.Primary) {
			gc.Email = strings.TrimSpace(email.Value)
		}
	}
	for i, phone := range person.PhoneNumbers {
		if i == 0 || (phone.Metadata != nil && phone.Metadata.Primary) {
			gc.Phone = strings.TrimSpace(phone.Value)
		}
	}

	if gc.FirstName == "" || (gc.Email == "" && gc.Phone == "") {
		return nil
	}
	return gc
}

func fullName(gc *GoogleContact) string {
	return strings.TrimSpace(gc.FirstName + " " + gc.LastName)
}
