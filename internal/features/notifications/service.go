package notifications

import (
	"errors"
	"fmt"
	"log/slog"

	users_models "taskdeck-backend/internal/features/users/models"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	notificationRepository *NotificationRepository
	logger                 *slog.Logger
}

// SendNotification creates a notification row for the given user. It is
// called in-process by the task and share services.
func (s *NotificationService) SendNotification(
	userID uuid.UUID,
	workspaceID *uuid.UUID,
	notificationType NotificationType,
	title string,
	message *string,
) error {
	if !notificationType.IsValid() {
		return fmt.Errorf("invalid notification type: %s", notificationType)
	}

	if title == "" {
		return errors.New("notification title is required")
	}

	return s.notificationRepository.Save(&Notification{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Type:        notificationType,
		Title:       title,
		Message:     message,
	})
}

func (s *NotificationService) ListNotifications(
	user *users_models.User,
	workspaceID *uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*Notification, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	return s.notificationRepository.FindByUserID(user.ID, workspaceID, unreadOnly, limit)
}

func (s *NotificationService) GetUnreadCount(
	user *users_models.User,
	workspaceID *uuid.UUID,
) (int64, error) {
	return s.notificationRepository.CountUnread(user.ID, workspaceID)
}

// MarkRead marks a single notification as read. Marking an already-read
// notification succeeds; marking a missing notification or one owned by
// another user returns ErrNotificationNotFound.
func (s *NotificationService) MarkRead(
	user *users_models.User,
	notificationID uuid.UUID,
) error {
	affected, err := s.notificationRepository.MarkRead(notificationID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	if affected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks every unread notification of the user as read in one
// statement. Calling it with nothing unread is a no-op.
func (s *NotificationService) MarkAllRead(
	user *users_models.User,
	workspaceID *uuid.UUID,
) (int64, error) {
	affected, err := s.notificationRepository.MarkAllRead(user.ID, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return affected, nil
}

func (s *NotificationService) OnBeforeWorkspaceDeletion(workspaceID uuid.UUID) error {
	return s.notificationRepository.DeleteByWorkspaceID(workspaceID)
}
