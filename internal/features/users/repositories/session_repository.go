package users_repositories

import (
	"errors"
	"time"

	users_models "taskdeck-backend/internal/features/users/models"
	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository struct{}

func (r *SessionRepository) CreateSession(session *users_models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(session).Error
}

func (r *SessionRepository) GetSessionByID(sessionID uuid.UUID) (*users_models.Session, error) {
	var session users_models.Session

	err := storage.GetDb().Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *SessionRepository) GetSessionsByUserID(
	userID uuid.UUID,
) ([]*users_models.Session, error) {
	var sessions []*users_models.Session

	err := storage.GetDb().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error

	return sessions, err
}

func (r *SessionRepository) DeleteSession(sessionID uuid.UUID) error {
	return storage.GetDb().
		Where("id = ?", sessionID).
		Delete(&users_models.Session{}).Error
}

// DeleteOtherSessions removes every session of the user except the one
// currently in use. Returns the number of revoked sessions.
func (r *SessionRepository) DeleteOtherSessions(
	userID uuid.UUID,
	currentSessionID uuid.UUID,
) (int64, error) {
	result := storage.GetDb().
		Where("user_id = ? AND id <> ?", userID, currentSessionID).
		Delete(&users_models.Session{})

	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeleteExpiredSessions() (int64, error) {
	result := storage.GetDb().
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&users_models.Session{})

	return result.RowsAffected, result.Error
}
