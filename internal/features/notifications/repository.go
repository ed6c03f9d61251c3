package notifications

import (
	"time"

	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func (r *NotificationRepository) Save(notification *Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(notification).Error
}

func (r *NotificationRepository) FindByUserID(
	userID uuid.UUID,
	workspaceID *uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*Notification, error) {
	var notifications []*Notification

	query := storage.GetDb().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)

	if workspaceID != nil {
		query = query.Where("workspace_id = ?", *workspaceID)
	}

	if unreadOnly {
		query = query.Where("is_read = false")
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *NotificationRepository) CountUnread(
	userID uuid.UUID,
	workspaceID *uuid.UUID,
) (int64, error) {
	var count int64

	query := storage.GetDb().
		Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID)

	if workspaceID != nil {
		query = query.Where("workspace_id = ?", *workspaceID)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// MarkRead flips the read flag with a single UPDATE scoped by both the
// notification id and the owning user, so one user can never touch
// another user's rows. Returns the number of rows matched.
func (r *NotificationRepository) MarkRead(
	notificationID uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	result := storage.GetDb().
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)

	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(
	userID uuid.UUID,
	workspaceID *uuid.UUID,
) (int64, error) {
	query := storage.GetDb().
		Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID)

	if workspaceID != nil {
		query = query.Where("workspace_id = ?", *workspaceID)
	}

	result := query.Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) DeleteByWorkspaceID(workspaceID uuid.UUID) error {
	return storage.GetDb().
		Where("workspace_id = ?", workspaceID).
		Delete(&Notification{}).Error
}
