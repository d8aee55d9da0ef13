package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lead-backend/internal/diff"
	"lead-backend/internal/models"
)

const defaultHistoryLimit = 5

type BuyerHistoryRepository struct {
	DB DBTX
}

func NewBuyerHistoryRepository(db DBTX) *BuyerHistoryRepository {
	return &BuyerHistoryRepository{DB: db}
}

func (r *BuyerHistoryRepository) WithTx(tx pgx.Tx) *BuyerHistoryRepository {
	return &BuyerHistoryRepository{DB: tx}
}

// Insert appends one history row. The change timestamp is assigned by the
// database, never by the caller.
func (r *BuyerHistoryRepository) Insert(ctx context.Context, h *models.BuyerHistory) error {
	payload, err := json.Marshal(h.Diff)
	if err != nil {
		return models.NewPersistenceError("marshal history diff", err)
	}

	query := `
		INSERT INTO buyer_history (buyer_id, changed_by, event_type, diff)
		VALUES ($1, $2, $3, $4)
		RETURNING id, changed_at
	`

	return r.DB.QueryRow(ctx, query, h.BuyerID, h.ChangedBy, h.EventType, payload).
		Scan(&h.ID, &h.ChangedAt)
}

// ListByBuyer returns the most recent history rows for one buyer, newest
// first. A non-positive limit falls back to the default of 5.
func (r *BuyerHistoryRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*models.BuyerHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT id, buyer_id, changed_by, event_type, diff, changed_at
		FROM buyer_history
		WHERE buyer_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, query, buyerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// ListAll returns history across all buyers, newest first, for the admin
// audit view.
func (r *BuyerHistoryRepository) ListAll(ctx context.Context, limit int) ([]*models.BuyerHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, buyer_id, changed_by, event_type, diff, changed_at
		FROM buyer_history
		ORDER BY changed_at DESC
		LIMIT $1
	`

	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func scanHistoryRows(rows pgx.Rows) ([]*models.BuyerHistory, error) {
	var entries []*models.BuyerHistory
	for rows.Next() {
		var h models.BuyerHistory
		var payload []byte
		if err := rows.Scan(&h.ID, &h.BuyerID, &h.ChangedBy, &h.EventType, &payload, &h.ChangedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &h.Diff); err != nil {
			// A row we cannot decode still renders: the formatter falls
			// back to the raw payload.
			h.Diff = nil
			h.Summary = diff.Format(payload)
		} else {
			h.Summary = diff.Format(h.Diff)
		}
		entries = append(entries, &h)
	}
	return entries, rows.Err()
}
