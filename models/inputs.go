// ABOUTME: Create and update payloads for CRM entities with validation rules
// ABOUTME: Validation runs before any request is sent to the backend
package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError lists every rule a payload broke.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks a payload against its validate tags.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("failed to validate payload: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Problems = append(ve.Problems, describeFieldError(fe))
	}
	return ve
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return field + " must be a valid email address"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// SoftDelete is the PATCH body that marks a record deleted.
type SoftDelete struct {
	Status string `json:"status"`
}

// NewSoftDelete returns the {"status":"deleted"} body.
func NewSoftDelete() SoftDelete {
	return SoftDelete{Status: StatusDeleted}
}

type ContactInput struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	Kind         string `json:"kind" validate:"required,oneof=customer lead inquiry vendor partner"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=active inactive converted"`
	Source       string `json:"source,omitempty" validate:"omitempty,oneof=website whatsapp call"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
	BrandAccess  string `json:"brand_access" validate:"required,oneof=probiz repro both"`
}

// Normalize lower-cases the enum fields before validation.
func (in *ContactInput) Normalize() {
	in.BrandAccess = NormalizeBrandAccess(in.BrandAccess)
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
}

type ContactPatch struct {
	FirstName    *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	Kind         *string `json:"kind,omitempty" validate:"omitempty,oneof=customer lead inquiry vendor partner"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive converted"`
	Source       *string `json:"source,omitempty" validate:"omitempty,oneof=website whatsapp call"`
	AssignedToID *int64  `json:"assigned_to_id,omitempty"`
	BrandAccess  *string `json:"brand_access,omitempty" validate:"omitempty,oneof=probiz repro both"`
}

// Normalize lower-cases the enum fields that are present.
func (p *ContactPatch) Normalize() {
	if p.BrandAccess != nil {
		v := NormalizeBrandAccess(*p.BrandAccess)
		p.BrandAccess = &v
	}
	p.Kind = lowerPtr(p.Kind)
	p.Status = lowerPtr(p.Status)
	p.Source = lowerPtr(p.Source)
}

func lowerPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.ToLower(strings.TrimSpace(*v))
	return &out
}

type UserInput struct {
	FirstName   string      `json:"first_name" validate:"required"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email" validate:"required,email"`
	Phone       string      `json:"phone,omitempty"`
	Password    string      `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID      int64       `json:"role_id" validate:"required"`
	BrandAccess BrandAccess `json:"brand_access" validate:"gte=0,lte=2"`
	Status      UserStatus  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type UserPatch struct {
	FirstName   *string      `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName    *string      `json:"last_name,omitempty"`
	Email       *string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string      `json:"phone,omitempty"`
	RoleID      *int64       `json:"role_id,omitempty"`
	BrandAccess *BrandAccess `json:"brand_access,omitempty" validate:"omitempty,gte=0,lte=2"`
	Status      *UserStatus  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// Normalize canonicalizes the status when present.
func (p *UserPatch) Normalize() {
	if p.Status != nil {
		s := p.Status.Canonical()
		p.Status = &s
	}
}

type LeadInput struct {
	ContactID            int64    `json:"contact_id" validate:"required"`
	AssignedToID         *int64   `json:"assigned_to_id,omitempty"`
	BudgetMin            *float64 `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax            *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	Bedrooms             *int     `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms            *int     `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	PropertyType         string   `json:"property_type,omitempty"`
	LeadType             string   `json:"lead_type,omitempty" validate:"omitempty,oneof=rent sale"`
	PreferredLocationIDs []int64  `json:"preferred_location_ids,omitempty"`
	PropertyIDs          []int64  `json:"property_ids,omitempty"`
	Source               string   `json:"source,omitempty"`
	Status               string   `json:"status,omitempty"`
	Brand                string   `json:"brand" validate:"required,oneof=real-estate business-setup"`

	// Notes is freeform text, sent as a single note record.
	Notes string `json:"-"`
}

func (in LeadInput) MarshalJSON() ([]byte, error) {
	type alias LeadInput
	return json.Marshal(struct {
		alias
		Notes []LeadNote `json:"notes,omitempty"`
	}{alias: alias(in), Notes: noteRecords(in.Notes)})
}

// Validate applies the tag rules plus the budget range check.
func (in LeadInput) Validate() error {
	return validateLead(in, in.BudgetMin, in.BudgetMax)
}

type LeadPatch struct {
	AssignedToID         *int64   `json:"assigned_to_id,omitempty"`
	BudgetMin            *float64 `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax            *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	Bedrooms             *int     `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms            *int     `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	PropertyType         *string  `json:"property_type,omitempty"`
	LeadType             *string  `json:"lead_type,omitempty" validate:"omitempty,oneof=rent sale"`
	PreferredLocationIDs []int64  `json:"preferred_location_ids,omitempty"`
	PropertyIDs          []int64  `json:"property_ids,omitempty"`
	Source               *string  `json:"source,omitempty"`
	Status               *string  `json:"status,omitempty"`
	Brand                *string  `json:"brand,omitempty" validate:"omitempty,oneof=real-estate business-setup"`
	Notes                *string  `json:"-"`
}

func (p LeadPatch) MarshalJSON() ([]byte, error) {
	type alias LeadPatch
	var notes []LeadNote
	if p.Notes != nil {
		notes = noteRecords(*p.Notes)
	}
	return json.Marshal(struct {
		alias
		Notes []LeadNote `json:"notes,omitempty"`
	}{alias: alias(p), Notes: notes})
}

// Validate applies the tag rules plus the budget range check.
func (p LeadPatch) Validate() error {
	return validateLead(p, p.BudgetMin, p.BudgetMax)
}

func validateLead(payload any, minBudget, maxBudget *float64) error {
	err := Validate(payload)
	if minBudget == nil || maxBudget == nil || *maxBudget >= *minBudget {
		return err
	}

	problem := "budget_max must be at least budget_min"
	if ve, ok := err.(*ValidationError); ok {
		ve.Problems = append(ve.Problems, problem)
		return ve
	}
	if err != nil {
		return err
	}
	return &ValidationError{Problems: []string{problem}}
}

func noteRecords(notes string) []LeadNote {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil
	}
	return []LeadNote{{Note: notes}}
}

type LocationInput struct {
	Label     string  `json:"label" validate:"required"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

type LocationPatch struct {
	Label     *string  `json:"label,omitempty" validate:"omitempty,min=1"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
}

type PropertyInput struct {
	Reference    string  `json:"reference" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	PropertyType string  `json:"property_type" validate:"required"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0"`
	LocationID   *int64  `json:"location_id,omitempty"`
}

type PropertyPatch struct {
	Reference    *string  `json:"reference,omitempty" validate:"omitempty,min=1"`
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	PropertyType *string  `json:"property_type,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	LocationID   *int64   `json:"location_id,omitempty"`
}

func (in ContactInput) Validate() error  { return Validate(in) }
func (p ContactPatch) Validate() error   { return Validate(p) }
func (in UserInput) Validate() error     { return Validate(in) }
func (p UserPatch) Validate() error      { return Validate(p) }
func (in LocationInput) Validate() error { return Validate(in) }
func (p LocationPatch) Validate() error  { return Validate(p) }
func (in PropertyInput) Validate() error { return Validate(in) }
func (p PropertyPatch) Validate() error  { return Validate(p) }
