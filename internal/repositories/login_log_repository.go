package repositories

import (
	"context"

	"lead-backend/internal/models"
)

type LoginLogRepository struct {
	DB DBTX
}

func NewLoginLogRepository(db DBTX) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

func (r *LoginLogRepository) Create(ctx context.Context, l *models.LoginLog) error {
	query := `
		INSERT INTO login_logs (user_id, user_name, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, login_at
	`
	return r.DB.QueryRow(ctx, query, l.UserID, l.UserName, l.IPAddress, l.UserAgent).
		Scan(&l.ID, &l.LoginAt)
}

func (r *LoginLogRepository) List(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, user_name, ip_address, user_agent, login_at
		FROM login_logs ORDER BY login_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.UserName, &l.IPAddress, &l.UserAgent, &l.LoginAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
