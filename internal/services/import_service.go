package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"lead-backend/internal/models"
)

const maxImportRows = 200

// importHeader is the exact column set an import file must carry, in order.
var importHeader = []string{
	"full_name", "email", "phone", "city", "property_type", "bhk", "purpose",
	"budget_min", "budget_max", "timeline", "source", "notes", "tags", "status",
}

// RowError reports a validation failure on one CSV row. Row numbers are
// 1-based file positions, so the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is returned on success; on validation failure the caller gets
// the full error list and nothing is inserted.
type ImportResult struct {
	Inserted int `json:"inserted"`
}

// ImportService parses lead CSVs and inserts valid batches through
// BuyerService so every imported lead gets its creation history event.
type ImportService struct {
	buyers *BuyerService
}

func NewImportService(buyers *BuyerService) *ImportService {
	return &ImportService{buyers: buyers}
}

// Import reads the CSV, validates every row, and only when all rows pass
// inserts them one by one. Partial imports are never produced: a single bad
// row rejects the whole file.
func (s *ImportService) Import(ctx context.Context, r io.Reader, ownerID uuid.UUID) (*ImportResult, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, models.NewValidationError("empty or unreadable CSV")
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var leads []*models.Buyer
	var rowErrors []RowError
	row := 1 // header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Message: "malformed CSV row"})
			continue
		}
		if row-1 > maxImportRows {
			return nil, nil, models.NewValidationError(fmt.Sprintf("import limited to %d rows", maxImportRows))
		}

		req, status, rerr := parseRow(record)
		if rerr != "" {
			rowErrors = append(rowErrors, RowError{Row: row, Message: rerr})
			continue
		}
		if err := req.Validate(); err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
			continue
		}
		if status != "" && !oneOfStatus(status) {
			rowErrors = append(rowErrors, RowError{Row: row, Message: fmt.Sprintf("invalid status: %s", status)})
			continue
		}
		leads = append(leads, buildLead(req, status, ownerID))
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors, nil
	}

	inserted := 0
	for _, lead := range leads {
		if err := s.buyers.CreateRecord(ctx, lead); err != nil {
			return nil, nil, err
		}
		inserted++
	}

	log.Printf("[ImportService] Imported %d leads for owner %s", inserted, ownerID)
	return &ImportResult{Inserted: inserted}, nil, nil
}

func checkHeader(header []string) error {
	if len(header) != len(importHeader) {
		return models.NewValidationError("CSV header does not match the import template")
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != importHeader[i] {
			return models.NewValidationError(fmt.Sprintf("unexpected column %q, want %q", col, importHeader[i]))
		}
	}
	return nil
}

func parseRow(record []string) (*models.CreateBuyerRequest, string, string) {
	if len(record) != len(importHeader) {
		return nil, "", "wrong number of columns"
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	req := &models.CreateBuyerRequest{
		FullName:     record[0],
		Email:        record[1],
		Phone:        record[2],
		City:         record[3],
		PropertyType: record[4],
		BHK:          record[5],
		Purpose:      record[6],
		Timeline:     record[9],
		Source:       record[10],
		Notes:        record[11],
	}

	if record[7] != "" {
		n, err := strconv.ParseInt(record[7], 10, 64)
		if err != nil {
			return nil, "", "budget_min must be a number"
		}
		req.BudgetMin = &n
	}
	if record[8] != "" {
		n, err := strconv.ParseInt(record[8], 10, 64)
		if err != nil {
			return nil, "", "budget_max must be a number"
		}
		req.BudgetMax = &n
	}
	if record[12] != "" {
		for _, tag := range strings.Split(record[12], ",") {
			if t := strings.TrimSpace(tag); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}

	return req, record[13], ""
}

// buildLead turns a validated row into a storable record. Empty optional
// columns become NULL, matching what the create form would produce.
func buildLead(req *models.CreateBuyerRequest, status string, ownerID uuid.UUID) *models.Buyer {
	if status == "" {
		status = models.StatusNew
	}
	b := &models.Buyer{
		FullName:     req.FullName,
		Phone:        req.Phone,
		City:         req.City,
		PropertyType: req.PropertyType,
		Purpose:      req.Purpose,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       status,
		Tags:         req.Tags,
		OwnerID:      ownerID,
	}
	if req.Email != "" {
		b.Email = &req.Email
	}
	if req.BHK != "" {
		b.BHK = &req.BHK
	}
	if req.Notes != "" {
		b.Notes = &req.Notes
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b
}

func oneOfStatus(status string) bool {
	for _, s := range models.ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
