package users_models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one signed-in device. A user may hold any number of
// concurrent sessions; tokens reference the session by id and become
// invalid once the row is deleted or expires.
type Session struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id"`
	UserID    uuid.UUID `json:"userId"    gorm:"column:user_id"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"column:expires_at"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
