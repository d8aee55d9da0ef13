package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-backend/internal/diff"
)

func validCreateRequest() *CreateBuyerRequest {
	return &CreateBuyerRequest{
		FullName:     "Rahul Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
	}
}

func TestCreateRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateBuyerRequest)
		wantErr string
	}{
		{"valid", func(r *CreateBuyerRequest) {}, ""},
		{"name too short", func(r *CreateBuyerRequest) { r.FullName = "R" }, "full name"},
		{"name of spaces", func(r *CreateBuyerRequest) { r.FullName = "   " }, "full name"},
		{"phone too short", func(r *CreateBuyerRequest) { r.Phone = "12345" }, "phone"},
		{"phone with letters", func(r *CreateBuyerRequest) { r.Phone = "98765abcde" }, "phone"},
		{"bad email", func(r *CreateBuyerRequest) { r.Email = "not-an-email" }, "email"},
		{"empty email ok", func(r *CreateBuyerRequest) { r.Email = "" }, ""},
		{"unknown city", func(r *CreateBuyerRequest) { r.City = "Delhi" }, "city"},
		{"unknown property type", func(r *CreateBuyerRequest) { r.PropertyType = "Farmhouse" }, "property type"},
		{"apartment without bhk", func(r *CreateBuyerRequest) { r.PropertyType = "Apartment" }, "bhk"},
		{"villa without bhk", func(r *CreateBuyerRequest) { r.PropertyType = "Villa" }, "bhk"},
		{"apartment with bhk", func(r *CreateBuyerRequest) {
			r.PropertyType = "Apartment"
			r.BHK = "2"
		}, ""},
		{"studio bhk", func(r *CreateBuyerRequest) {
			r.PropertyType = "Apartment"
			r.BHK = "Studio"
		}, ""},
		{"invalid bhk", func(r *CreateBuyerRequest) {
			r.PropertyType = "Apartment"
			r.BHK = "5"
		}, "bhk"},
		{"plot needs no bhk", func(r *CreateBuyerRequest) { r.PropertyType = "Plot" }, ""},
		{"unknown purpose", func(r *CreateBuyerRequest) { r.Purpose = "Lease" }, "purpose"},
		{"unknown timeline", func(r *CreateBuyerRequest) { r.Timeline = "soon" }, "timeline"},
		{"unknown source", func(r *CreateBuyerRequest) { r.Source = "Twitter" }, "source"},
		{"max below min", func(r *CreateBuyerRequest) {
			min, max := int64(100), int64(50)
			r.BudgetMin, r.BudgetMax = &min, &max
		}, "budget"},
		{"max equals min ok", func(r *CreateBuyerRequest) {
			n := int64(100)
			r.BudgetMin, r.BudgetMax = &n, &n
		}, ""},
		{"only max set ok", func(r *CreateBuyerRequest) {
			max := int64(100)
			r.BudgetMax = &max
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.wantErr)
		})
	}
}

func TestUpdateRequestValidatesStatus(t *testing.T) {
	req := &UpdateBuyerRequest{
		FullName:     "Rahul Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "Archived",
	}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")

	req.Status = "Converted"
	assert.NoError(t, req.Validate())
}

func TestFieldMapNormalizesEmptyOptionals(t *testing.T) {
	b := &Buyer{
		FullName:     "Rahul Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "New",
		Tags:         []string{},
	}
	req := &UpdateBuyerRequest{
		FullName:     "Rahul Sharma",
		Email:        "",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		BHK:          "",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "New",
		Notes:        "",
		Tags:         []string{},
	}

	// A stored NULL and an omitted form value must compare equal, so both
	// flatten to nil.
	bm, rm := b.FieldMap(), req.FieldMap()
	for _, key := range []string{"email", "bhk", "notes", "budget_min", "budget_max"} {
		assert.Nil(t, bm[key], key)
		assert.Nil(t, rm[key], key)
	}
	assert.Equal(t, bm, rm)
}

func TestFieldMapOmittedTagsCompareEqualToEmpty(t *testing.T) {
	b := &Buyer{
		FullName:     "Rahul Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "New",
		Tags:         []string{},
	}
	req := &UpdateBuyerRequest{
		FullName:     "Rahul Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "New",
	}

	// The tags column is never NULL, so a payload that leaves tags out must
	// not register a change against a buyer with none. Resubmitting the same
	// form writes no audit row.
	assert.Empty(t, diff.Compute(b.FieldMap(), req.FieldMap()))
	assert.Equal(t, []string{}, req.FieldMap()["tags"])
}

func TestApplyToNormalizesEmptyStrings(t *testing.T) {
	b := &Buyer{}
	req := &UpdateBuyerRequest{
		FullName: "Rahul Sharma",
		Email:    "",
		Notes:    "call after 6pm",
		Status:   "Qualified",
	}
	req.ApplyTo(b)

	assert.Nil(t, b.Email)
	require.NotNil(t, b.Notes)
	assert.Equal(t, "call after 6pm", *b.Notes)
	assert.Equal(t, "Qualified", b.Status)
}
