// ABOUTME: Tests for CRM data models
// ABOUTME: Covers normalization, status decoding, brand filtering and payload validation
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactNormalize(t *testing.T) {
	c := Contact{ID: 1, FirstName: "Amal", BrandAccess: " RePro "}
	c.Normalize()

	assert.Equal(t, BrandRepro, c.BrandAccess)
	assert.Equal(t, ContactStatusActive, c.Status, "missing status should default to active")
	assert.Equal(t, "Amal", c.Name())
}

func TestContactHasBrand(t *testing.T) {
	both := Contact{BrandAccess: BrandBoth}
	repro := Contact{BrandAccess: BrandRepro}

	assert.True(t, both.HasBrand(BrandProbiz))
	assert.True(t, repro.HasBrand(BrandRepro))
	assert.False(t, repro.HasBrand(BrandProbiz))
	assert.True(t, repro.HasBrand(""), "empty filter matches everything")
}

func TestUserStatusDecoding(t *testing.T) {
	tests := []struct {
		raw  string
		want UserStatus
	}{
		{`"Inactive"`, UserStatusInactive},
		{`"ACTIVE"`, UserStatusActive},
		{`1`, UserStatusActive},
		{`0`, UserStatusInactive},
		{`true`, UserStatusActive},
		{`false`, UserStatusInactive},
		{`"Suspended"`, UserStatus("suspended")},
	}

	for _, tt := range tests {
		var s UserStatus
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &s), tt.raw)
		assert.Equal(t, tt.want, s, tt.raw)
	}
}

func TestUserNormalizeDefaultsStatusAndRole(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"first_name":"Sara","role":{"id":4,"name":"Agent","key":"agent"}}`), &u))
	u.Normalize()

	assert.Equal(t, UserStatusActive, u.Status)
	require.NotNil(t, u.RoleID)
	assert.Equal(t, int64(4), *u.RoleID)
}

func TestBrandAccessDecoding(t *testing.T) {
	for raw, want := range map[string]BrandAccess{
		`1`:        BrandAccessRealEstate,
		`"2"`:      BrandAccessBoth,
		`"probiz"`: BrandAccessBusinessSetup,
		`null`:     BrandAccessBusinessSetup,
	} {
		var b BrandAccess
		require.NoError(t, json.Unmarshal([]byte(raw), &b), raw)
		assert.Equal(t, want, b, raw)
	}

	var b BrandAccess
	assert.Error(t, json.Unmarshal([]byte(`"mars"`), &b))
}

func TestFilterUsersByBrand(t *testing.T) {
	users := []User{
		{ID: 1, BrandAccess: BrandAccessBusinessSetup},
		{ID: 2, BrandAccess: BrandAccessRealEstate},
		{ID: 3, BrandAccess: BrandAccessBoth},
	}

	realEstate := FilterUsersByBrand(users, LeadBrandRealEstate)
	require.Len(t, realEstate, 2)
	assert.Equal(t, int64(2), realEstate[0].ID)
	assert.Equal(t, int64(3), realEstate[1].ID)

	probiz := FilterUsersByBrand(users, BrandProbiz)
	require.Len(t, probiz, 2)
	assert.Equal(t, int64(1), probiz[0].ID)

	assert.Len(t, FilterUsersByBrand(users, ""), 3)
}

func TestBrandConversions(t *testing.T) {
	b, ok := ParseBrand("RePro")
	require.True(t, ok)
	assert.Equal(t, LeadBrandRealEstate, b.LeadBrand())
	assert.Equal(t, BrandRepro, b.ContactBrand())

	b, ok = ParseBrand(LeadBrandBusinessSetup)
	require.True(t, ok)
	assert.Equal(t, BrandProbiz, b.ContactBrand())

	assert.Equal(t, "", BrandAccessBoth.LeadBrand())
	assert.Equal(t, BrandBoth, BrandAccessBoth.ContactBrand())
}

func TestParseLocationLabel(t *testing.T) {
	full := ParseLocationLabel("Marina Gate 1, Dubai Marina, Dubai, UAE")
	assert.Equal(t, LocationParts{Subcommunity: "Marina Gate 1", Community: "Dubai Marina", City: "Dubai", Country: "UAE"}, full)
	assert.Equal(t, "Marina Gate 1", full.Short())

	partial := ParseLocationLabel(" Downtown ,Dubai, UAE ")
	assert.Equal(t, "", partial.Subcommunity)
	assert.Equal(t, "Downtown", partial.Community)
	assert.Equal(t, "Downtown, Dubai, UAE", partial.String())

	deep := ParseLocationLabel("Tower A, Plot 7, JLT, Dubai, UAE")
	assert.Equal(t, "Tower A, Plot 7", deep.Subcommunity)

	assert.Equal(t, LocationParts{}, ParseLocationLabel(" , "))
}

func TestContactInputValidation(t *testing.T) {
	in := ContactInput{FirstName: "Omar", Kind: "customer", BrandAccess: "PROBIZ", Email: "omar@example.com"}
	in.Normalize()
	assert.NoError(t, in.Validate())

	bad := ContactInput{Kind: "alien", BrandAccess: "repro", Email: "nope"}
	err := bad.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Problems, "first_name is required")
	assert.Contains(t, ve.Problems, "email must be a valid email address")
	assert.Contains(t, err.Error(), "kind must be one of")
}

func TestContactPatchNormalizesLikeInput(t *testing.T) {
	kind, status, source, brand := "Customer", " ACTIVE", "WhatsApp", "RePro"
	p := ContactPatch{Kind: &kind, Status: &status, Source: &source, BrandAccess: &brand}
	p.Normalize()

	assert.Equal(t, ContactKindCustomer, *p.Kind)
	assert.Equal(t, ContactStatusActive, *p.Status)
	assert.Equal(t, SourceWhatsApp, *p.Source)
	assert.Equal(t, BrandRepro, *p.BrandAccess)
	assert.NoError(t, p.Validate())

	empty := ContactPatch{}
	empty.Normalize()
	assert.Nil(t, empty.Kind)
}

func TestLeadInputRequiresContactAndBudgetRange(t *testing.T) {
	lo, hi := 900000.0, 500000.0
	in := LeadInput{Brand: LeadBrandRealEstate, BudgetMin: &lo, BudgetMax: &hi}

	err := in.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Problems, "contact_id is required")
	assert.Contains(t, ve.Problems, "budget_max must be at least budget_min")
}

func TestLeadInputSubmitsNotesAsSingleRecord(t *testing.T) {
	in := LeadInput{ContactID: 7, Brand: LeadBrandBusinessSetup, Notes: "  wants a freezone licence  "}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, float64(7), wire["contact_id"])
	assert.Equal(t, []any{map[string]any{"note": "wants a freezone licence"}}, wire["notes"])

	empty, err := json.Marshal(LeadInput{ContactID: 7, Brand: LeadBrandRealEstate})
	require.NoError(t, err)
	assert.NotContains(t, string(empty), "notes")
}

func TestUserPatchNormalize(t *testing.T) {
	s := UserStatus("Inactive")
	p := UserPatch{Status: &s}
	p.Normalize()

	assert.Equal(t, UserStatusInactive, *p.Status)
	assert.NoError(t, p.Validate())
}
