package inbox

import (
	"context"
	"time"

	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/tasks"
	users_models "taskdeck-backend/internal/features/users/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const inboxNotificationLimit = 50

type InboxService struct {
	taskRepository      *tasks.TaskRepository
	notificationService *notifications.NotificationService
}

// GetInbox fans out the three independent reads concurrently and joins
// them. Any failing read fails the whole call; there is no partial
// result.
func (s *InboxService) GetInbox(
	ctx context.Context,
	user *users_models.User,
	workspaceID uuid.UUID,
) (*InboxResponse, error) {
	now := time.Now().UTC()
	response := &InboxResponse{}

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		items, err := s.taskRepository.FindInboxItems(workspaceID, user.ID, user.Email, now)
		if err != nil {
			return err
		}

		response.Items = items
		return nil
	})

	group.Go(func() error {
		snoozed, err := s.taskRepository.FindSnoozedItems(workspaceID, user.ID, user.Email, now)
		if err != nil {
			return err
		}

		response.Snoozed = snoozed
		return nil
	})

	group.Go(func() error {
		notificationList, err := s.notificationService.ListNotifications(
			user,
			&workspaceID,
			false,
			inboxNotificationLimit,
		)
		if err != nil {
			return err
		}

		response.Notifications = notificationList
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return response, nil
}
