package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-backend/internal/middleware"
	"lead-backend/internal/services"
)

func authedRequest(r *http.Request, userID uuid.UUID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func mockBuyerRow(mock pgxmock.PgxPoolIface, id, ownerID uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows([]string{
		"id", "full_name", "email", "phone", "city", "property_type", "bhk",
		"purpose", "budget_min", "budget_max", "timeline", "source", "status",
		"notes", "tags", "owner_id", "created_at", "updated_at",
	}).AddRow(
		id, "Rahul Sharma", nil, "9876543210", "Mohali", "Plot", nil,
		"Buy", nil, nil, "0-3m", "Website", "New", nil, []string{},
		ownerID, now, now,
	)
}

func emptyHistoryRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{"id", "buyer_id", "changed_by", "event_type", "diff", "changed_at"})
}

func TestGetReturnsBuyerWithHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery("FROM buyers WHERE id").
		WithArgs(id).
		WillReturnRows(mockBuyerRow(mock, id, ownerID))
	mock.ExpectQuery("FROM buyer_history").
		WillReturnRows(emptyHistoryRows(mock))

	handler := NewBuyerHandler(services.NewBuyerService(mock))

	req := httptest.NewRequest(http.MethodGet, "/api/buyers/"+id.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": id.String()})

	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Buyer struct {
			FullName string `json:"full_name"`
		} `json:"buyer"`
		History []json.RawMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Rahul Sharma", resp.Buyer.FullName)
	assert.Empty(t, resp.History)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	ownerID := uuid.New()
	otherUser := uuid.New()

	// The ownership check rides on the service's single load.
	mock.ExpectQuery("FROM buyers WHERE id").
		WithArgs(id).
		WillReturnRows(mockBuyerRow(mock, id, ownerID))

	handler := NewBuyerHandler(services.NewBuyerService(mock))

	body := `{"full_name":"Rahul Sharma","phone":"9876543210","city":"Mohali","property_type":"Plot","purpose":"Buy","timeline":"0-3m","source":"Website","status":"Qualified"}`
	req := httptest.NewRequest(http.MethodPut, "/api/buyers/"+id.String(), strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id.String()})
	req = authedRequest(req, otherUser, "agent")

	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllowedForAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	ownerID := uuid.New()
	admin := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM buyers WHERE id").
		WithArgs(id).
		WillReturnRows(mockBuyerRow(mock, id, ownerID))
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE buyers SET").
		WillReturnRows(mock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO buyer_history").
		WillReturnRows(mock.NewRows([]string{"id", "changed_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()
	mock.ExpectRollback()

	handler := NewBuyerHandler(services.NewBuyerService(mock))

	body := `{"full_name":"Rahul Sharma","phone":"9876543210","city":"Mohali","property_type":"Plot","purpose":"Buy","timeline":"0-3m","source":"Website","status":"Qualified","tags":[]}`
	req := httptest.NewRequest(http.MethodPut, "/api/buyers/"+id.String(), strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id.String()})
	req = authedRequest(req, admin, "admin")

	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Changed []string `json:"changed_fields"`
		Summary string   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"status"}, resp.Changed)
	assert.Equal(t, "status: New → Qualified", resp.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDefaultsPagination(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM buyers ORDER BY updated_at DESC LIMIT").
		WithArgs(10, 0).
		WillReturnRows(mockBuyerRow(mock, uuid.New(), uuid.New()))

	handler := NewBuyerHandler(services.NewBuyerService(mock))

	req := httptest.NewRequest(http.MethodGet, "/api/buyers", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRejectsMalformedID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	handler := NewBuyerHandler(services.NewBuyerService(mock))

	req := httptest.NewRequest(http.MethodGet, "/api/buyers/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})

	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
