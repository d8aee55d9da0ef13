package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"

	"lead-backend/internal/models"
	"lead-backend/internal/timeutil"
)

// ReportService renders printable lead profiles.
type ReportService struct {
	buyers *BuyerService
}

func NewReportService(buyers *BuyerService) *ReportService {
	return &ReportService{buyers: buyers}
}

// BuyerProfilePDF renders a one-page lead profile with the recent change
// history, for sharing with site-visit teams.
func (s *ReportService) BuyerProfilePDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	b, history, err := s.buyers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Buyer Lead Profile", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Lead Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", b.FullName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", b.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", strOrDash(b.Email)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("City: %s", b.City), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Property: %s", propertyLabel(b)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Purpose: %s", b.Purpose), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Budget: %s", formatBudget(b.BudgetMin, b.BudgetMax)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Timeline: %s", b.Timeline), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", b.Status), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Source: %s", b.Source), "RB", 1, "L", false, 0, "")
	if len(b.Tags) > 0 {
		pdf.CellFormat(190, 7, fmt.Sprintf("Tags: %s", strings.Join(b.Tags, ", ")), "LRB", 1, "L", false, 0, "")
	}
	if b.Notes != nil && *b.Notes != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 6, fmt.Sprintf("Notes: %s", *b.Notes), "LRB", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Recent Changes", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 7, "When", "1", 0, "C", true, 0, "")
	pdf.CellFormat(145, 7, "Change", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(history) == 0 {
		pdf.CellFormat(190, 6, "No history recorded", "1", 1, "C", false, 0, "")
	}
	for _, h := range history {
		pdf.CellFormat(45, 6, timeutil.FormatIST(h.ChangedAt, "02-Jan-2006 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(145, 6, h.Summary, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func propertyLabel(b *models.Buyer) string {
	if b.BHK != nil && *b.BHK != "" {
		return fmt.Sprintf("%s (%s BHK)", b.PropertyType, *b.BHK)
	}
	return b.PropertyType
}
