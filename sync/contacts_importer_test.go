// ABOUTME: Tests for the Google contacts importer
// ABOUTME: Feeds fake People API pages into a store backed by the mock API
package sync

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/crmdesk/db"
	"github.com/harperreed/crmdesk/mockapi"
	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store/storetest"
)

type fakeSource struct {
	pages [][]*people.Person
	err   error
	calls []string
}

func (f *fakeSource) Connections(_ context.Context, pageToken string) ([]*people.Person, string, error) {
	f.calls = append(f.calls, pageToken)
	if f.err != nil {
		return nil, "", f.err
	}
	idx := 0
	if pageToken == "page-2" {
		idx = 1
	}
	next := ""
	if idx+1 < len(f.pages) {
		next = "page-2"
	}
	return f.pages[idx], next, nil
}

func person(resource, given, family, display, email, phone string) *people.Person {
	p := &people.Person{ResourceName: resource}
	if given != "" || family != "" || display != "" {
		p.Names = []*people.Name{{GivenName: given, FamilyName: family, DisplayName: display}}
	}
	if email != "" {
		p.EmailAddresses = []*people.EmailAddress{{Value: email}}
	}
	if phone != "" {
		p.PhoneNumbers = []*people.PhoneNumber{{Value: phone}}
	}
	return p
}

func testSource() *fakeSource {
	return &fakeSource{pages: [][]*people.Person{
		{
			person("people/1", "Omar", "Haddad", "", "OMAR@example.com", "+971501110000"),
			person("people/2", "", "", "Nadia Al Rahman", "nadia@example.com", ""),
			person("people/3", "Ghost", "", "", "", ""),
		},
		{
			person("people/4", "", "", "", "nobody@example.com", ""),
			person("people/2", "", "", "Nadia Al Rahman", "nadia@example.com", ""),
		},
	}}
}

func TestImportContactsCreatesAndLinks(t *testing.T) {
	s, backend, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	source := testSource()
	var out bytes.Buffer

	summary, err := ImportContacts(context.Background(), s, database, source, models.BrandAccessRealEstate, &out)
	require.NoError(t, err)

	assert.Equal(t, ImportSummary{Created: 1, Linked: 1, Skipped: 1, Ignored: 2}, summary)
	assert.Equal(t, []string{"", "page-2"}, source.calls)
	assert.Contains(t, out.String(), "✓ Created: Nadia Al Rahman")
	assert.Contains(t, out.String(), "↻ Linked: Omar Haddad")

	omar, ok := backend.Get(mockapi.Contacts, 1)
	require.True(t, ok)
	assert.Equal(t, "+971501110000", omar["phone"], "missing phone is filled on link")

	var nadia models.Contact
	for _, c := range s.Contacts.List() {
		if c.Email == "nadia@example.com" {
			nadia = c
		}
	}
	require.NotZero(t, nadia.ID)
	assert.Equal(t, "Nadia", nadia.FirstName)
	assert.Equal(t, "Al Rahman", nadia.LastName)
	assert.Equal(t, models.ContactKindLead, nadia.Kind)
	assert.Equal(t, models.BrandRepro, nadia.BrandAccess)

	id, found, err := db.FindImport(database, ImportSource, "people/2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, nadia.ID, id)

	// A second run only skips.
	summary, err = ImportContacts(context.Background(), s, database, testSource(), models.BrandAccessRealEstate, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Skipped: 3, Ignored: 2}, summary)
}

func TestImportContactsSourceError(t *testing.T) {
	s, _, cleanup := storetest.NewDemoStore(t)
	defer cleanup()

	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	_, err = ImportContacts(context.Background(), s, database, &fakeSource{err: errors.New("quota exceeded")}, models.BrandAccessBoth, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestConvertPersonPrefersPrimary(t *testing.T) {
	p := &people.Person{
		ResourceName: "people/9",
		Names:        []*people.Name{{GivenName: "Rana", FamilyName: "Aziz"}},
		EmailAddresses: []*people.EmailAddress{
			{Value: "old@example.com"},
			{Value: "rana@example.com", Metadata: &people.FieldMetadata{Primary: true}},
		},
	}

	gc := convertPerson(p)
	require.NotNil(t, gc)
	assert.Equal(t, "rana@example.com", gc.Email)
	assert.Equal(t, "Rana", gc.FirstName)
	assert.Equal(t, "Aziz", gc.LastName)

	assert.Nil(t, convertPerson(person("people/10", "", "", "", "x@example.com", "")))
	assert.Nil(t, convertPerson(nil))
}
