package shares

import (
	"fmt"
	"strings"
	"testing"

	"taskdeck-backend/internal/features/notifications"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
	users_testing "taskdeck-backend/internal/features/users/testing"
	"taskdeck-backend/internal/util/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubItemSource struct {
	target *ShareTarget
}

func (s *stubItemSource) GetTaskShareTarget(taskID uuid.UUID) (*ShareTarget, error) {
	return s.target, nil
}

func (s *stubItemSource) GetNoteShareTarget(noteID uuid.UUID) (*ShareTarget, error) {
	return s.target, nil
}

type stubAccessChecker struct {
	allow bool
}

func (c *stubAccessChecker) CanUserEditTask(_ *users_models.User, _ uuid.UUID) (bool, error) {
	return c.allow, nil
}

func (c *stubAccessChecker) CanUserEditNote(_ *users_models.User, _ uuid.UUID) (bool, error) {
	return c.allow, nil
}

func newTestShareService(target *ShareTarget, allowManage bool) *ShareService {
	source := &stubItemSource{target: target}

	service := &ShareService{
		shareRepository:     shareRepository,
		userRepository:      users_repositories.GetUserRepository(),
		notificationService: notifications.GetNotificationService(),
		logger:              logger.GetLogger(),
	}
	service.SetTaskSource(source)
	service.SetNoteSource(source)
	service.SetAccessChecker(&stubAccessChecker{allow: allowManage})

	return service
}

func Test_UpsertTaskShare_SharingTwiceKeepsSingleGrantWithLatestPermission(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Quarterly report"},
		true,
	)
	inviteeEmail := fmt.Sprintf("invitee-%s@example.com", uuid.NewString()[:8])

	_, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      inviteeEmail,
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	_, err = service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      inviteeEmail,
		Permission: SharePermissionEdit,
	})
	assert.NoError(t, err)

	sharesList, err := service.ListTaskShares(owner, taskID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(sharesList))
	assert.Equal(t, SharePermissionEdit, sharesList[0].Permission)
}

func Test_UpsertTaskShare_EmailIsNormalized(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Roadmap"},
		true,
	)
	localPart := fmt.Sprintf("Mixed-Case-%s", uuid.NewString()[:8])

	_, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      "  " + localPart + "@Example.COM ",
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	_, err = service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      localPart + "@example.com",
		Permission: SharePermissionEdit,
	})
	assert.NoError(t, err)

	sharesList, err := service.ListTaskShares(owner, taskID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(sharesList))
	assert.Equal(t, strings.ToLower(localPart)+"@example.com", sharesList[0].Email)
}

func Test_UpsertTaskShare_UnknownTaskReturnsItemNotFound(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	service := newTestShareService(nil, true)

	_, err := service.UpsertTaskShare(owner, uuid.New(), &UpsertShareRequest{
		Email:      "someone@example.com",
		Permission: SharePermissionView,
	})
	assert.ErrorIs(t, err, ErrSharedItemNotFound)
}

func Test_UpsertTaskShare_WithoutEditRightsIsRejected(t *testing.T) {
	user := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Locked task"},
		false,
	)

	_, err := service.UpsertTaskShare(user, uuid.New(), &UpsertShareRequest{
		Email:      "someone@example.com",
		Permission: SharePermissionView,
	})
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
}

func Test_UpsertTaskShare_RegisteredInviteeGetsNotified(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	invitee := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	workspaceID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: workspaceID, Title: "Launch checklist"},
		true,
	)

	share, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      invitee.Email,
		Permission: SharePermissionEdit,
	})
	assert.NoError(t, err)
	assert.NotNil(t, share.UserID)
	assert.Equal(t, invitee.ID, *share.UserID)

	inviteeNotifications, err := notifications.GetNotificationService().
		ListNotifications(invitee, &workspaceID, true, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(inviteeNotifications))
	assert.Equal(t, notifications.NotificationTypeTaskShared, inviteeNotifications[0].Type)
	assert.Contains(t, inviteeNotifications[0].Title, owner.Email)
}

func Test_UpsertNoteShare_SharingWithYourselfSendsNoNotification(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspaceID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: workspaceID, Title: "Private note"},
		true,
	)

	_, err := service.UpsertNoteShare(owner, uuid.New(), &UpsertShareRequest{
		Email:      owner.Email,
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	ownerNotifications, err := notifications.GetNotificationService().
		ListNotifications(owner, &workspaceID, true, 10)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(ownerNotifications))
}

func Test_RemoveTaskShare_RemovingAbsentShareFails(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Some task"},
		true,
	)

	err := service.RemoveTaskShare(owner, uuid.New(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func Test_RemoveTaskShare_RemovesExistingGrant(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Some task"},
		true,
	)
	inviteeEmail := fmt.Sprintf("invitee-%s@example.com", uuid.NewString()[:8])

	_, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      inviteeEmail,
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	assert.NoError(t, service.RemoveTaskShare(owner, taskID, inviteeEmail))

	sharesList, err := service.ListTaskShares(owner, taskID)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(sharesList))

	// Second removal reports the grant as gone.
	assert.ErrorIs(t, service.RemoveTaskShare(owner, taskID, inviteeEmail), ErrShareNotFound)
}

func Test_ClaimSharesForUser_AttachesPendingSharesOnSignUp(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	noteID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Pending item"},
		true,
	)
	pendingEmail := fmt.Sprintf("pending-%s@example.com", uuid.NewString()[:8])

	taskShare, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      pendingEmail,
		Permission: SharePermissionEdit,
	})
	assert.NoError(t, err)
	assert.Nil(t, taskShare.UserID)

	_, err = service.UpsertNoteShare(owner, noteID, &UpsertShareRequest{
		Email:      pendingEmail,
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	newUserID := uuid.New()
	assert.NoError(t, service.ClaimSharesForUser(newUserID, pendingEmail))

	claimedTaskShare, err := shareRepository.FindTaskShareForUser(
		taskID, newUserID, "unrelated@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, claimedTaskShare)

	claimedNoteShare, err := shareRepository.FindNoteShareForUser(
		noteID, newUserID, "unrelated@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, claimedNoteShare)
}

func Test_GetTaskSharePermission_MatchesByEmailWhenUnclaimed(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	taskID := uuid.New()
	service := newTestShareService(
		&ShareTarget{WorkspaceID: uuid.New(), Title: "Email matched"},
		true,
	)
	pendingEmail := fmt.Sprintf("pending-%s@example.com", uuid.NewString()[:8])

	_, err := service.UpsertTaskShare(owner, taskID, &UpsertShareRequest{
		Email:      pendingEmail,
		Permission: SharePermissionView,
	})
	assert.NoError(t, err)

	permission, err := service.GetTaskSharePermission(taskID, uuid.New(), pendingEmail)
	assert.NoError(t, err)
	assert.NotNil(t, permission)
	assert.Equal(t, SharePermissionView, *permission)

	absent, err := service.GetTaskSharePermission(taskID, uuid.New(), "other@example.com")
	assert.NoError(t, err)
	assert.Nil(t, absent)
}
