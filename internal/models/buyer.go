package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enum values accepted for buyer fields. These mirror the dropdowns on the
// lead forms and the CSV import validation.
var (
	ValidCities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	ValidPropertyTypes = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	ValidBHK           = []string{"1", "2", "3", "4", "Studio"}
	ValidPurposes      = []string{"Buy", "Rent"}
	ValidTimelines     = []string{"0-3m", "3-6m", ">6m", "Exploring"}
	ValidSources       = []string{"Website", "Referral", "Walk-in", "Call", "Other"}
	ValidStatuses      = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

// StatusNew is the status assigned to every freshly created lead.
const StatusNew = "New"

var (
	phoneRe = regexp.MustCompile(`^\d{10,15}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Buyer is a lead record. Leads are never hard-deleted; they move through
// statuses until Converted or Dropped.
type Buyer struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        *string   `json:"email,omitempty"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	PropertyType string    `json:"property_type"`
	BHK          *string   `json:"bhk,omitempty"`
	Purpose      string    `json:"purpose"`
	BudgetMin    *int64    `json:"budget_min,omitempty"`
	BudgetMax    *int64    `json:"budget_max,omitempty"`
	Timeline     string    `json:"timeline"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	Tags         []string  `json:"tags"`
	OwnerID      uuid.UUID `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateBuyerRequest is the request body for creating a buyer
type CreateBuyerRequest struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"property_type"`
	BHK          string   `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *int64   `json:"budget_min"`
	BudgetMax    *int64   `json:"budget_max"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// UpdateBuyerRequest is the request body for editing a buyer. The full field
// set is sent on every edit; the diff against the stored record decides what
// gets audited.
type UpdateBuyerRequest struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"property_type"`
	BHK          string   `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *int64   `json:"budget_min"`
	BudgetMax    *int64   `json:"budget_max"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

// validateFields holds the rules shared by create, update and CSV import.
func validateFields(fullName, email, phone, city, propertyType, bhk, purpose, timeline, source string, budgetMin, budgetMax *int64) error {
	if len(strings.TrimSpace(fullName)) < 2 {
		return NewValidationError("full name must be at least 2 characters")
	}
	if !phoneRe.MatchString(phone) {
		return NewValidationError("phone must be 10-15 digits")
	}
	if email != "" && !emailRe.MatchString(email) {
		return NewValidationError("invalid email")
	}
	if !oneOf(city, ValidCities) {
		return NewValidationError(fmt.Sprintf("invalid city: %s", city))
	}
	if !oneOf(propertyType, ValidPropertyTypes) {
		return NewValidationError(fmt.Sprintf("invalid property type: %s", propertyType))
	}
	if (propertyType == "Apartment" || propertyType == "Villa") && bhk == "" {
		return NewValidationError("bhk required for Apartment/Villa")
	}
	if bhk != "" && !oneOf(bhk, ValidBHK) {
		return NewValidationError(fmt.Sprintf("invalid bhk: %s", bhk))
	}
	if !oneOf(purpose, ValidPurposes) {
		return NewValidationError(fmt.Sprintf("invalid purpose: %s", purpose))
	}
	if !oneOf(timeline, ValidTimelines) {
		return NewValidationError(fmt.Sprintf("invalid timeline: %s", timeline))
	}
	if !oneOf(source, ValidSources) {
		return NewValidationError(fmt.Sprintf("invalid source: %s", source))
	}
	if budgetMin != nil && budgetMax != nil && *budgetMax < *budgetMin {
		return NewValidationError("budget max must be >= budget min")
	}
	return nil
}

// Validate checks the create payload against the lead form rules.
func (r *CreateBuyerRequest) Validate() error {
	return validateFields(r.FullName, r.Email, r.Phone, r.City, r.PropertyType,
		r.BHK, r.Purpose, r.Timeline, r.Source, r.BudgetMin, r.BudgetMax)
}

// Validate checks the update payload. Status is editable on update only.
func (r *UpdateBuyerRequest) Validate() error {
	if err := validateFields(r.FullName, r.Email, r.Phone, r.City, r.PropertyType,
		r.BHK, r.Purpose, r.Timeline, r.Source, r.BudgetMin, r.BudgetMax); err != nil {
		return err
	}
	if !oneOf(r.Status, ValidStatuses) {
		return NewValidationError(fmt.Sprintf("invalid status: %s", r.Status))
	}
	return nil
}

// FieldMap flattens the buyer's editable fields into the shape consumed by
// the diff computer. Optional fields become nil when unset, never "".
func (b *Buyer) FieldMap() map[string]interface{} {
	return map[string]interface{}{
		"full_name":     b.FullName,
		"email":         strPtrValue(b.Email),
		"phone":         b.Phone,
		"city":          b.City,
		"property_type": b.PropertyType,
		"bhk":           strPtrValue(b.BHK),
		"purpose":       b.Purpose,
		"budget_min":    intPtrValue(b.BudgetMin),
		"budget_max":    intPtrValue(b.BudgetMax),
		"timeline":      b.Timeline,
		"source":        b.Source,
		"status":        b.Status,
		"notes":         strPtrValue(b.Notes),
		"tags":          normalizeTags(b.Tags),
	}
}

// FieldMap flattens the proposed update the same way Buyer.FieldMap does so
// the two sides compare key-for-key. Omitted optional form values become nil
// (SQL NULL), matching what would be stored.
func (r *UpdateBuyerRequest) FieldMap() map[string]interface{} {
	return map[string]interface{}{
		"full_name":     r.FullName,
		"email":         emptyToNil(r.Email),
		"phone":         r.Phone,
		"city":          r.City,
		"property_type": r.PropertyType,
		"bhk":           emptyToNil(r.BHK),
		"purpose":       r.Purpose,
		"budget_min":    intPtrValue(r.BudgetMin),
		"budget_max":    intPtrValue(r.BudgetMax),
		"timeline":      r.Timeline,
		"source":        r.Source,
		"status":        r.Status,
		"notes":         emptyToNil(r.Notes),
		"tags":          normalizeTags(r.Tags),
	}
}

// ApplyTo writes the update payload onto a stored buyer, normalizing empty
// optional inputs to NULL.
func (r *UpdateBuyerRequest) ApplyTo(b *Buyer) {
	b.FullName = r.FullName
	b.Email = nilIfEmpty(r.Email)
	b.Phone = r.Phone
	b.City = r.City
	b.PropertyType = r.PropertyType
	b.BHK = nilIfEmpty(r.BHK)
	b.Purpose = r.Purpose
	b.BudgetMin = r.BudgetMin
	b.BudgetMax = r.BudgetMax
	b.Timeline = r.Timeline
	b.Source = r.Source
	b.Status = r.Status
	b.Notes = nilIfEmpty(r.Notes)
	b.Tags = normalizeTags(r.Tags)
}

// normalizeTags maps an omitted tag list to an empty one. The stored column
// is never NULL, so a request without tags must compare equal to a buyer
// that has none.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func strPtrValue(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtrValue(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// emptyToNil maps an omitted form value to nil so "never set" and a stored
// NULL compare as equal in the diff.
func emptyToNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ErrBuyerNotFound is returned when a buyer id does not resolve.
var ErrBuyerNotFound = errors.New("buyer not found")
