package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginLog records a successful login for the admin audit view.
type LoginLog struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	LoginAt   time.Time `json:"login_at"`
}
