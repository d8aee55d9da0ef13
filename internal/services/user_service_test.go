package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-backend/internal/auth"
	"lead-backend/internal/config"
	"lead-backend/internal/models"
)

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "lead-backend-test"
	return auth.NewJWTManager(cfg)
}

func userRow(mock pgxmock.PgxPoolIface, id uuid.UUID, email, passwordHash string, active bool) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(id, "Test Agent", email, passwordHash, "agent", active, now, now)
}

func TestSignupCreatesAgentWithToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))

	svc := NewUserService(mock, testJWTManager())
	resp, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:     "Test Agent",
		Email:    "Agent@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "agent@example.com", resp.User.Email)
	assert.Equal(t, "agent", resp.User.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsShortPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := NewUserService(mock, testJWTManager())
	_, err = svc.Signup(context.Background(), &models.SignupRequest{
		Name:     "Test Agent",
		Email:    "agent@example.com",
		Password: "short",
	})

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow(mock, uuid.New(), "agent@example.com", hash, true))

	svc := NewUserService(mock, testJWTManager())
	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "agent@example.com",
		Password: "wrong",
	}, "127.0.0.1", "test-agent")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow(mock, uuid.New(), "agent@example.com", hash, false))

	svc := NewUserService(mock, testJWTManager())
	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "agent@example.com",
		Password: "the-real-password",
	}, "127.0.0.1", "test-agent")

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLoginRecordsLoginLog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)

	userID := uuid.New()
	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow(mock, userID, "agent@example.com", hash, true))
	mock.ExpectQuery("INSERT INTO login_logs").
		WillReturnRows(mock.NewRows([]string{"id", "login_at"}).AddRow(int64(1), time.Now()))

	svc := NewUserService(mock, testJWTManager())
	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "agent@example.com",
		Password: "the-real-password",
	}, "10.0.0.5", "Mozilla/5.0")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}
