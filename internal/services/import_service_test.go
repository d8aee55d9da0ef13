package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-backend/internal/models"
)

const importCSVHeader = "full_name,email,phone,city,property_type,bhk,purpose,budget_min,budget_max,timeline,source,notes,tags,status"

func TestImportInsertsValidRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO buyers").
			WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(uuid.New(), now, now))
		mock.ExpectQuery("INSERT INTO buyer_history").
			WillReturnRows(mock.NewRows([]string{"id", "changed_at"}).AddRow(int64(i+1), now))
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	csvBody := importCSVHeader + "\n" +
		"Rahul Sharma,rahul@example.com,9876543210,Mohali,Apartment,2,Buy,5000000,7500000,3-6m,Referral,Keen on sector 70,\"hot, nri\",Qualified\n" +
		"Priya Singh,,9998887776,Chandigarh,Plot,,Buy,,,0-3m,Website,,,\n"

	svc := NewImportService(NewBuyerService(mock))
	result, rowErrs, err := svc.Import(context.Background(), strings.NewReader(csvBody), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, 2, result.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportRejectsWholeFileOnOneBadRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	csvBody := importCSVHeader + "\n" +
		"Priya Singh,,9998887776,Chandigarh,Plot,,Buy,,,0-3m,Website,,,\n" +
		"X,,12,Nowhere,Plot,,Buy,,,0-3m,Website,,,\n"

	svc := NewImportService(NewBuyerService(mock))
	result, rowErrs, err := svc.Import(context.Background(), strings.NewReader(csvBody), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, result)
	require.Len(t, rowErrs, 1)
	// Header is row 1, so the second data row reports as row 3.
	assert.Equal(t, 3, rowErrs[0].Row)
	// Nothing may hit the database when any row fails.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportRejectsBHKMissingForApartment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	csvBody := importCSVHeader + "\n" +
		"Rahul Sharma,,9876543210,Mohali,Apartment,,Buy,,,3-6m,Referral,,,\n"

	svc := NewImportService(NewBuyerService(mock))
	_, rowErrs, err := svc.Import(context.Background(), strings.NewReader(csvBody), uuid.New())
	require.NoError(t, err)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 2, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Message, "bhk")
}

func TestImportRejectsOversizedFile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var sb strings.Builder
	sb.WriteString(importCSVHeader + "\n")
	for i := 0; i < maxImportRows+1; i++ {
		sb.WriteString(fmt.Sprintf("Lead %03d,,9876543210,Mohali,Plot,,Buy,,,0-3m,Website,,,\n", i))
	}

	svc := NewImportService(NewBuyerService(mock))
	_, _, err = svc.Import(context.Background(), strings.NewReader(sb.String()), uuid.New())

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "200")
}

func TestImportRejectsWrongHeader(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := NewImportService(NewBuyerService(mock))
	_, _, err = svc.Import(context.Background(),
		strings.NewReader("name,phone\nRahul,9876543210\n"), uuid.New())

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}
