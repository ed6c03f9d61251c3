package inbox

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/shares"
	"taskdeck-backend/internal/features/tasks"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_testing "taskdeck-backend/internal/features/users/testing"
	workspaces_testing "taskdeck-backend/internal/features/workspaces/testing"

	"github.com/stretchr/testify/assert"
)

var setupOnce sync.Once

func setupInboxTestDependencies() {
	setupOnce.Do(func() {
		access.SetupDependencies()
		shares.SetupDependencies()
		tasks.SetupDependencies()
	})
}

func Test_GetInbox_AssemblesItemsSnoozedAndNotifications(t *testing.T) {
	setupInboxTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace, err := workspaces_testing.CreateTestWorkspaceDirect("Inbox Workspace", owner.ID)
	assert.NoError(t, err)

	taskService := tasks.GetTaskService()

	_, err = taskService.CreateTask(owner, workspace.ID, &tasks.CreateTaskRequest{
		Title:      "Active item",
		AssigneeID: &owner.ID,
	})
	assert.NoError(t, err)

	snoozedTask, err := taskService.CreateTask(owner, workspace.ID, &tasks.CreateTaskRequest{
		Title:      "Deferred item",
		AssigneeID: &owner.ID,
	})
	assert.NoError(t, err)

	wakeUp := time.Now().UTC().Add(3 * time.Hour)
	_, err = taskService.SnoozeTask(owner, snoozedTask.ID, &tasks.SnoozeTaskRequest{
		SnoozedUntil: &wakeUp,
	})
	assert.NoError(t, err)

	message := "inbox test notification"
	err = notifications.GetNotificationService().SendNotification(
		owner.ID,
		&workspace.ID,
		notifications.NotificationTypeMention,
		"You were mentioned",
		&message,
	)
	assert.NoError(t, err)

	response, err := GetInboxService().GetInbox(context.Background(), owner, workspace.ID)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(response.Items))
	assert.Equal(t, "Active item", response.Items[0].Title)

	assert.Equal(t, 1, len(response.Snoozed))
	assert.Equal(t, "Deferred item", response.Snoozed[0].Title)

	assert.Equal(t, 1, len(response.Notifications))
	assert.Equal(t, "You were mentioned", response.Notifications[0].Title)
}

func Test_GetInbox_EmptyWorkspaceReturnsEmptySlices(t *testing.T) {
	setupInboxTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace, err := workspaces_testing.CreateTestWorkspaceDirect("Empty Inbox", owner.ID)
	assert.NoError(t, err)

	response, err := GetInboxService().GetInbox(context.Background(), owner, workspace.ID)
	assert.NoError(t, err)
	assert.Empty(t, response.Items)
	assert.Empty(t, response.Snoozed)
	assert.Empty(t, response.Notifications)
}

func Test_GetInbox_SnoozedItemMovesBackWhenTimestampPasses(t *testing.T) {
	setupInboxTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace, err := workspaces_testing.CreateTestWorkspaceDirect("Waking Inbox", owner.ID)
	assert.NoError(t, err)

	taskService := tasks.GetTaskService()

	task, err := taskService.CreateTask(owner, workspace.ID, &tasks.CreateTaskRequest{
		Title:      "Barely deferred",
		AssigneeID: &owner.ID,
	})
	assert.NoError(t, err)

	wakeUp := time.Now().UTC().Add(50 * time.Millisecond)
	_, err = taskService.SnoozeTask(owner, task.ID, &tasks.SnoozeTaskRequest{
		SnoozedUntil: &wakeUp,
	})
	assert.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	response, err := GetInboxService().GetInbox(context.Background(), owner, workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(response.Items))
	assert.Empty(t, response.Snoozed)
}
