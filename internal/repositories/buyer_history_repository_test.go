package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-backend/internal/diff"
	"lead-backend/internal/models"
)

func TestHistoryInsertAssignsServerTimestamp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	changedAt := time.Now()
	mock.ExpectQuery("INSERT INTO buyer_history").
		WillReturnRows(mock.NewRows([]string{"id", "changed_at"}).AddRow(int64(7), changedAt))

	repo := NewBuyerHistoryRepository(mock)
	actor := uuid.New()
	h := &models.BuyerHistory{
		BuyerID:   uuid.New(),
		ChangedBy: &actor,
		EventType: models.HistoryEventUpdated,
		Diff: diff.Entry{
			"status": {Old: "New", New: "Qualified"},
		},
	}

	require.NoError(t, repo.Insert(context.Background(), h))
	assert.Equal(t, int64(7), h.ID)
	assert.Equal(t, changedAt, h.ChangedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryListByBuyerDefaultsToFive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	buyerID := uuid.New()
	mock.ExpectQuery("FROM buyer_history").
		WithArgs(buyerID, 5).
		WillReturnRows(mock.NewRows([]string{"id", "buyer_id", "changed_by", "event_type", "diff", "changed_at"}).
			AddRow(int64(2), buyerID, nil, models.HistoryEventUpdated,
				[]byte(`{"status":{"old":"New","new":"Qualified"}}`), time.Now()).
			AddRow(int64(1), buyerID, nil, models.HistoryEventCreated,
				[]byte(`{"Create":{"old":"did not exist","new":"exists"}}`), time.Now().Add(-time.Hour)))

	repo := NewBuyerHistoryRepository(mock)
	entries, err := repo.ListByBuyer(context.Background(), buyerID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "status: New → Qualified", entries[0].Summary)
	assert.Equal(t, "Create: did not exist → exists", entries[1].Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryListSurvivesMalformedDiff(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	buyerID := uuid.New()
	mock.ExpectQuery("FROM buyer_history").
		WithArgs(buyerID, 5).
		WillReturnRows(mock.NewRows([]string{"id", "buyer_id", "changed_by", "event_type", "diff", "changed_at"}).
			AddRow(int64(1), buyerID, nil, models.HistoryEventUpdated,
				[]byte(`not json at all`), time.Now()))

	repo := NewBuyerHistoryRepository(mock)
	entries, err := repo.ListByBuyer(context.Background(), buyerID, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "not json at all", entries[0].Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
