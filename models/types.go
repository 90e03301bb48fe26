// ABOUTME: Data models for CRM entities served by the backend
// ABOUTME: Defines Contact, User, Role, Lead, Location and Property plus their enums
package models

import (
	"strings"
	"time"
)

// Entity is implemented by every record held in a store slice.
type Entity interface {
	EntityID() int64
}

// Contact brand_access values. The backend is inconsistent about case,
// so values are lower-cased on read.
const (
	BrandProbiz = "probiz"
	BrandRepro  = "repro"
	BrandBoth   = "both"
)

// Lead brand values.
const (
	LeadBrandRealEstate    = "real-estate"
	LeadBrandBusinessSetup = "business-setup"
)

const (
	ContactKindCustomer = "customer"
	ContactKindLead     = "lead"
	ContactKindInquiry  = "inquiry"
	ContactKindVendor   = "vendor"
	ContactKindPartner  = "partner"
)

const (
	ContactStatusActive    = "active"
	ContactStatusInactive  = "inactive"
	ContactStatusConverted = "converted"
)

// StatusDeleted is the soft-delete marker sent in a PATCH body.
const StatusDeleted = "deleted"

const (
	SourceWebsite  = "website"
	SourceWhatsApp = "whatsapp"
	SourceCall     = "call"
)

const (
	LeadTypeRent = "rent"
	LeadTypeSale = "sale"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusClosed    = "closed"
	LeadStatusLost      = "lost"
)

type Contact struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Status       string `json:"status,omitempty"`
	Source       string `json:"source,omitempty"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
	BrandAccess  string `json:"brand_access,omitempty"`
}

func (c Contact) EntityID() int64 { return c.ID }

// Name returns the display name of the contact.
func (c Contact) Name() string {
	return fullName(c.FirstName, c.LastName)
}

// Normalize lower-cases brand_access and defaults a missing status.
func (c *Contact) Normalize() {
	c.BrandAccess = NormalizeBrandAccess(c.BrandAccess)
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	if c.Status == "" {
		c.Status = ContactStatusActive
	}
}

// HasBrand reports whether the contact is visible to the given brand.
func (c Contact) HasBrand(brand string) bool {
	brand = NormalizeBrandAccess(brand)
	if brand == "" || brand == BrandBoth {
		return true
	}
	return c.BrandAccess == brand || c.BrandAccess == BrandBoth
}

// NormalizeBrandAccess trims and lower-cases a brand_access value.
func NormalizeBrandAccess(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

func (r Role) EntityID() int64 { return r.ID }

type User struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	RoleID      *int64      `json:"role_id,omitempty"`
	Role        *Role       `json:"role,omitempty"`
	BrandAccess BrandAccess `json:"brand_access"`
	Status      UserStatus  `json:"status"`
}

func (u User) EntityID() int64 { return u.ID }

// Name returns the display name of the user.
func (u User) Name() string {
	return fullName(u.FirstName, u.LastName)
}

// Normalize canonicalizes the status and fills RoleID from an embedded role.
func (u *User) Normalize() {
	u.Status = u.Status.Canonical()
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.RoleID == nil && u.Role != nil {
		id := u.Role.ID
		u.RoleID = &id
	}
}

type LeadNote struct {
	ID        int64      `json:"id,omitempty"`
	Note      string     `json:"note"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Lead struct {
	ID                   int64      `json:"id"`
	ContactID            int64      `json:"contact_id"`
	AssignedToID         *int64     `json:"assigned_to_id,omitempty"`
	BudgetMin            *float64   `json:"budget_min,omitempty"`
	BudgetMax            *float64   `json:"budget_max,omitempty"`
	Bedrooms             *int       `json:"bedrooms,omitempty"`
	Bathrooms            *int       `json:"bathrooms,omitempty"`
	PropertyType         string     `json:"property_type,omitempty"`
	LeadType             string     `json:"lead_type,omitempty"`
	PreferredLocationIDs []int64    `json:"preferred_location_ids,omitempty"`
	PropertyIDs          []int64    `json:"property_ids,omitempty"`
	Source               string     `json:"source,omitempty"`
	Status               string     `json:"status,omitempty"`
	Notes                []LeadNote `json:"notes,omitempty"`
	Brand                string     `json:"brand,omitempty"`
}

func (l Lead) EntityID() int64 { return l.ID }

// Normalize lower-cases enum fields and defaults a missing status.
func (l *Lead) Normalize() {
	l.Brand = strings.ToLower(strings.TrimSpace(l.Brand))
	l.LeadType = strings.ToLower(strings.TrimSpace(l.LeadType))
	l.Status = strings.ToLower(strings.TrimSpace(l.Status))
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
}

type Location struct {
	ID        int64   `json:"id"`
	Label     string  `json:"label"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Status    string  `json:"status,omitempty"`
}

func (l Location) EntityID() int64 { return l.ID }

// Parts splits the hierarchical label.
func (l Location) Parts() LocationParts {
	return ParseLocationLabel(l.Label)
}

type Property struct {
	ID           int64   `json:"id"`
	Reference    string  `json:"reference"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	PropertyType string  `json:"property_type,omitempty"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	LocationID   *int64  `json:"location_id,omitempty"`
	Status       string  `json:"status,omitempty"`
}

func (p Property) EntityID() int64 { return p.ID }

// PropertyWithLocation is a property joined with its location at read time.
// Location is nil when location_id is unset or not loaded.
type PropertyWithLocation struct {
	Property
	Location *Location `json:"location"`
}

// Activity is one settled store operation recorded in the activity log.
type Activity struct {
	ID        string    `json:"id"`
	Slice     string    `json:"slice"`
	Op        string    `json:"op"`
	Phase     string    `json:"phase"`
	EntityID  *int64    `json:"entity_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
