package notifications

import (
	"testing"

	users_enums "taskdeck-backend/internal/features/users/enums"
	users_testing "taskdeck-backend/internal/features/users/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sendTestNotification(t *testing.T, userID uuid.UUID, workspaceID *uuid.UUID, title string) {
	t.Helper()

	message := "test notification body"
	err := GetNotificationService().SendNotification(
		userID,
		workspaceID,
		NotificationTypeAssignment,
		title,
		&message,
	)
	assert.NoError(t, err)
}

func Test_SendNotification_RejectsInvalidInput(t *testing.T) {
	service := GetNotificationService()
	userID := uuid.New()

	err := service.SendNotification(userID, nil, NotificationType("BOGUS"), "Title", nil)
	assert.Error(t, err)

	err = service.SendNotification(userID, nil, NotificationTypeComment, "", nil)
	assert.Error(t, err)
}

func Test_ListNotifications_NewestFirstAndWorkspaceScoped(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace1ID, workspace2ID := uuid.New(), uuid.New()

	sendTestNotification(t, user.ID, &workspace1ID, "first")
	sendTestNotification(t, user.ID, &workspace1ID, "second")
	sendTestNotification(t, user.ID, &workspace2ID, "other workspace")

	all, err := GetNotificationService().ListNotifications(user, nil, false, 10)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(all))
	assert.False(t, all[0].CreatedAt.Before(all[1].CreatedAt))

	scoped, err := GetNotificationService().ListNotifications(user, &workspace1ID, false, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(scoped))
	for _, notification := range scoped {
		assert.Equal(t, &workspace1ID, notification.WorkspaceID)
	}
}

func Test_MarkRead_OwnNotificationSucceeds(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspaceID := uuid.New()
	service := GetNotificationService()

	sendTestNotification(t, user.ID, &workspaceID, "to read")

	unread, err := service.ListNotifications(user, &workspaceID, true, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(unread))

	assert.NoError(t, service.MarkRead(user, unread[0].ID))

	// Marking an already-read notification stays a success.
	assert.NoError(t, service.MarkRead(user, unread[0].ID))

	count, err := service.GetUnreadCount(user, &workspaceID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func Test_MarkRead_OtherUsersNotificationIsNotFound(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	stranger := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspaceID := uuid.New()
	service := GetNotificationService()

	sendTestNotification(t, owner.ID, &workspaceID, "private")

	notificationsList, err := service.ListNotifications(owner, &workspaceID, true, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(notificationsList))

	err = service.MarkRead(stranger, notificationsList[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	// The owner's notification is untouched.
	count, err := service.GetUnreadCount(owner, &workspaceID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_MarkRead_MissingNotificationIsNotFound(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	err := GetNotificationService().MarkRead(user, uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func Test_MarkAllRead_IsAtomicAndIdempotent(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspaceID := uuid.New()
	service := GetNotificationService()

	for i := 0; i < 3; i++ {
		sendTestNotification(t, user.ID, &workspaceID, "bulk")
	}

	affected, err := service.MarkAllRead(user, &workspaceID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	// Nothing left unread, so the second call is a no-op.
	affected, err = service.MarkAllRead(user, &workspaceID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	count, err := service.GetUnreadCount(user, &workspaceID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func Test_OnBeforeWorkspaceDeletion_RemovesWorkspaceNotifications(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspaceID := uuid.New()
	service := GetNotificationService()

	sendTestNotification(t, user.ID, &workspaceID, "doomed")
	sendTestNotification(t, user.ID, nil, "survivor")

	assert.NoError(t, service.OnBeforeWorkspaceDeletion(workspaceID))

	remaining, err := service.ListNotifications(user, nil, false, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(remaining))
	assert.Equal(t, "survivor", remaining[0].Title)
}
