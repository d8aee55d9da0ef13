package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"

	"lead-backend/internal/models"
	"lead-backend/internal/repositories"
	"lead-backend/internal/storage"
	"lead-backend/internal/timeutil"
)

// exportHeader matches the columns shown on the lead list page.
var exportHeader = []string{"Name", "Phone", "City", "Property Type", "Budget", "Timeline", "Status"}

// ExportService renders the filtered lead list to CSV and, when configured,
// archives each export to object storage.
type ExportService struct {
	buyerRepo *repositories.BuyerRepository
	archive   *storage.ArchiveClient
}

func NewExportService(db repositories.DBTX, archive *storage.ArchiveClient) *ExportService {
	return &ExportService{
		buyerRepo: repositories.NewBuyerRepository(db),
		archive:   archive,
	}
}

// ExportCSV writes every lead matching the filter, respecting the list's
// sort order. The caller streams the returned bytes to the client.
func (s *ExportService) ExportCSV(ctx context.Context, f repositories.ListFilter) ([]byte, error) {
	buyers, err := s.buyerRepo.ListAll(ctx, f)
	if err != nil {
		return nil, models.NewPersistenceError("export leads", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range buyers {
		if err := w.Write(exportRow(b)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	key := fmt.Sprintf("exports/leads-%s.csv", timeutil.Now().Format("20060102-150405"))
	if err := s.archive.Put(ctx, key, data, "text/csv"); err != nil {
		// A failed archive never blocks the download.
		log.Printf("[ExportService] Archive failed: %v", err)
	}

	return data, nil
}

func exportRow(b *models.Buyer) []string {
	return []string{
		b.FullName,
		b.Phone,
		b.City,
		b.PropertyType,
		formatBudget(b.BudgetMin, b.BudgetMax),
		b.Timeline,
		b.Status,
	}
}

// formatBudget renders the range as "min - max", dropping missing sides.
func formatBudget(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%d - %d", *min, *max)
	case min != nil:
		return fmt.Sprintf("%d", *min)
	case max != nil:
		return fmt.Sprintf("%d", *max)
	default:
		return ""
	}
}
