// ABOUTME: Decoding and canonical forms for user status and brand access
// ABOUTME: Accepts the mixed string/number/bool encodings the backend returns
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UserStatus is always "active" or "inactive" after Canonical, whichever
// endpoint the user came from.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Canonical maps the known spellings onto the lower-case enum. Unknown
// values are lower-cased and kept.
func (s UserStatus) Canonical() UserStatus {
	v := strings.ToLower(strings.TrimSpace(string(s)))
	switch v {
	case "active", "1", "true", "enabled":
		return UserStatusActive
	case "inactive", "0", "false", "disabled":
		return UserStatusInactive
	}
	return UserStatus(v)
}

// UnmarshalJSON accepts strings in any case, numbers and booleans.
func (s *UserStatus) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = UserStatus(str).Canonical()
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = UserStatusActive
		} else {
			*s = UserStatusInactive
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n != 0 {
			*s = UserStatusActive
		} else {
			*s = UserStatusInactive
		}
		return nil
	}

	return fmt.Errorf("invalid user status: %s", raw)
}

// BrandAccess is the integer brand scope of a team member.
type BrandAccess int

const (
	BrandAccessBusinessSetup BrandAccess = 0
	BrandAccessRealEstate    BrandAccess = 1
	BrandAccessBoth          BrandAccess = 2
)

func (b BrandAccess) String() string {
	switch b {
	case BrandAccessBusinessSetup:
		return "Business Setup"
	case BrandAccessRealEstate:
		return "Real Estate"
	case BrandAccessBoth:
		return "Both"
	}
	return "Unknown"
}

// Covers reports whether a member with this access may work the given brand.
func (b BrandAccess) Covers(brand BrandAccess) bool {
	return b == BrandAccessBoth || brand == BrandAccessBoth || b == brand
}

// ParseBrand maps every brand spelling used across entities (contact
// brand_access, lead brand, user brand_access) onto a BrandAccess.
func ParseBrand(v string) (BrandAccess, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case BrandProbiz, LeadBrandBusinessSetup, "business setup", "0":
		return BrandAccessBusinessSetup, true
	case BrandRepro, LeadBrandRealEstate, "real estate", "1":
		return BrandAccessRealEstate, true
	case BrandBoth, "2":
		return BrandAccessBoth, true
	}
	return 0, false
}

// LeadBrand returns the lead brand value, or "" for Both.
func (b BrandAccess) LeadBrand() string {
	switch b {
	case BrandAccessBusinessSetup:
		return LeadBrandBusinessSetup
	case BrandAccessRealEstate:
		return LeadBrandRealEstate
	}
	return ""
}

// ContactBrand returns the contact brand_access value.
func (b BrandAccess) ContactBrand() string {
	switch b {
	case BrandAccessBusinessSetup:
		return BrandProbiz
	case BrandAccessRealEstate:
		return BrandRepro
	}
	return BrandBoth
}

// UnmarshalJSON accepts a number, a numeric string or a brand name.
func (b *BrandAccess) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*b = BrandAccessBusinessSetup
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = BrandAccess(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid brand access: %s", raw)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		*b = BrandAccess(n)
		return nil
	}
	parsed, ok := ParseBrand(str)
	if !ok {
		return fmt.Errorf("invalid brand access: %q", str)
	}
	*b = parsed
	return nil
}

// FilterUsersByBrand returns the team members whose brand access covers
// brand. An empty or unknown brand returns every user.
func FilterUsersByBrand(users []User, brand string) []User {
	want, ok := ParseBrand(brand)
	if !ok {
		return users
	}

	var filtered []User
	for _, u := range users {
		if u.BrandAccess.Covers(want) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
