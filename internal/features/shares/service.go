package shares

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"taskdeck-backend/internal/features/notifications"
	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"

	"github.com/google/uuid"
)

var (
	ErrShareNotFound           = errors.New("share not found")
	ErrSharedItemNotFound      = errors.New("shared item not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions to manage shares")
)

type ShareService struct {
	shareRepository     *ShareRepository
	userRepository      *users_repositories.UserRepository
	notificationService *notifications.NotificationService
	logger              *slog.Logger

	taskSource    TaskSource
	noteSource    NoteSource
	accessChecker ShareAccessChecker
}

func (s *ShareService) SetTaskSource(source TaskSource) {
	s.taskSource = source
}

func (s *ShareService) SetNoteSource(source NoteSource) {
	s.noteSource = source
}

func (s *ShareService) SetAccessChecker(checker ShareAccessChecker) {
	s.accessChecker = checker
}

// UpsertTaskShare grants or updates access to a task for an email address.
// Sharing twice with the same email keeps a single grant holding the
// latest permission.
func (s *ShareService) UpsertTaskShare(
	user *users_models.User,
	taskID uuid.UUID,
	request *UpsertShareRequest,
) (*TaskShare, error) {
	email, err := normalizeShareEmail(request.Email)
	if err != nil {
		return nil, err
	}

	if !request.Permission.IsValid() {
		return nil, fmt.Errorf("invalid share permission: %s", request.Permission)
	}

	target, err := s.taskSource.GetTaskShareTarget(taskID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrSharedItemNotFound
	}

	if err := s.ensureCanManageTaskShares(user, taskID); err != nil {
		return nil, err
	}

	invitee, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}

	share := &TaskShare{
		TaskID:     taskID,
		Email:      email,
		Permission: request.Permission,
	}
	if invitee != nil {
		share.UserID = &invitee.ID
	}

	if err := s.shareRepository.UpsertTaskShare(share); err != nil {
		return nil, fmt.Errorf("failed to save task share: %w", err)
	}

	s.notifyInvitee(
		invitee,
		user,
		target,
		notifications.NotificationTypeTaskShared,
		fmt.Sprintf("%s shared a task with you", user.Email),
		fmt.Sprintf("You were given %s access to task \"%s\"", request.Permission, target.Title),
	)

	return share, nil
}

func (s *ShareService) UpsertNoteShare(
	user *users_models.User,
	noteID uuid.UUID,
	request *UpsertShareRequest,
) (*NoteShare, error) {
	email, err := normalizeShareEmail(request.Email)
	if err != nil {
		return nil, err
	}

	if !request.Permission.IsValid() {
		return nil, fmt.Errorf("invalid share permission: %s", request.Permission)
	}

	target, err := s.noteSource.GetNoteShareTarget(noteID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrSharedItemNotFound
	}

	if err := s.ensureCanManageNoteShares(user, noteID); err != nil {
		return nil, err
	}

	invitee, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}

	share := &NoteShare{
		NoteID:     noteID,
		Email:      email,
		Permission: request.Permission,
	}
	if invitee != nil {
		share.UserID = &invitee.ID
	}

	if err := s.shareRepository.UpsertNoteShare(share); err != nil {
		return nil, fmt.Errorf("failed to save note share: %w", err)
	}

	s.notifyInvitee(
		invitee,
		user,
		target,
		notifications.NotificationTypeNoteShared,
		fmt.Sprintf("%s shared a note with you", user.Email),
		fmt.Sprintf("You were given %s access to note \"%s\"", request.Permission, target.Title),
	)

	return share, nil
}

func (s *ShareService) ListTaskShares(
	user *users_models.User,
	taskID uuid.UUID,
) ([]*TaskShare, error) {
	if err := s.ensureCanManageTaskShares(user, taskID); err != nil {
		return nil, err
	}

	return s.shareRepository.FindTaskShares(taskID)
}

func (s *ShareService) ListNoteShares(
	user *users_models.User,
	noteID uuid.UUID,
) ([]*NoteShare, error) {
	if err := s.ensureCanManageNoteShares(user, noteID); err != nil {
		return nil, err
	}

	return s.shareRepository.FindNoteShares(noteID)
}

// RemoveTaskShare revokes a grant. Removing a grant that does not exist
// is reported as ErrShareNotFound rather than treated as success.
func (s *ShareService) RemoveTaskShare(
	user *users_models.User,
	taskID uuid.UUID,
	email string,
) error {
	normalized, err := normalizeShareEmail(email)
	if err != nil {
		return err
	}

	if err := s.ensureCanManageTaskShares(user, taskID); err != nil {
		return err
	}

	affected, err := s.shareRepository.DeleteTaskShare(taskID, normalized)
	if err != nil {
		return fmt.Errorf("failed to remove task share: %w", err)
	}

	if affected == 0 {
		return ErrShareNotFound
	}

	return nil
}

func (s *ShareService) RemoveNoteShare(
	user *users_models.User,
	noteID uuid.UUID,
	email string,
) error {
	normalized, err := normalizeShareEmail(email)
	if err != nil {
		return err
	}

	if err := s.ensureCanManageNoteShares(user, noteID); err != nil {
		return err
	}

	affected, err := s.shareRepository.DeleteNoteShare(noteID, normalized)
	if err != nil {
		return fmt.Errorf("failed to remove note share: %w", err)
	}

	if affected == 0 {
		return ErrShareNotFound
	}

	return nil
}

// GetTaskSharePermission returns the share permission a user holds on a
// task, either through an attached user id or a matching email. Nil when
// no share exists.
func (s *ShareService) GetTaskSharePermission(
	taskID uuid.UUID,
	userID uuid.UUID,
	email string,
) (*SharePermission, error) {
	share, err := s.shareRepository.FindTaskShareForUser(taskID, userID, email)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, nil
	}

	return &share.Permission, nil
}

func (s *ShareService) GetNoteSharePermission(
	noteID uuid.UUID,
	userID uuid.UUID,
	email string,
) (*SharePermission, error) {
	share, err := s.shareRepository.FindNoteShareForUser(noteID, userID, email)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, nil
	}

	return &share.Permission, nil
}

// ClaimSharesForUser attaches pending shares for the email to a freshly
// registered user. Called by the user service on sign-up and OAuth
// provisioning.
func (s *ShareService) ClaimSharesForUser(userID uuid.UUID, email string) error {
	return s.shareRepository.AttachUserToShares(userID, email)
}

func (s *ShareService) OnTaskDeleted(taskID uuid.UUID) error {
	return s.shareRepository.DeleteSharesForTask(taskID)
}

func (s *ShareService) OnNotesDeleted(noteIDs []uuid.UUID) error {
	return s.shareRepository.DeleteSharesForNotes(noteIDs)
}

func (s *ShareService) ensureCanManageTaskShares(
	user *users_models.User,
	taskID uuid.UUID,
) error {
	canEdit, err := s.accessChecker.CanUserEditTask(user, taskID)
	if err != nil {
		return err
	}
	if !canEdit {
		return ErrInsufficientPermissions
	}
	return nil
}

func (s *ShareService) ensureCanManageNoteShares(
	user *users_models.User,
	noteID uuid.UUID,
) error {
	canEdit, err := s.accessChecker.CanUserEditNote(user, noteID)
	if err != nil {
		return err
	}
	if !canEdit {
		return ErrInsufficientPermissions
	}
	return nil
}

func (s *ShareService) notifyInvitee(
	invitee *users_models.User,
	sharer *users_models.User,
	target *ShareTarget,
	notificationType notifications.NotificationType,
	title string,
	message string,
) {
	if invitee == nil || invitee.ID == sharer.ID {
		return
	}

	workspaceID := target.WorkspaceID
	if err := s.notificationService.SendNotification(
		invitee.ID,
		&workspaceID,
		notificationType,
		title,
		&message,
	); err != nil {
		s.logger.Error("Failed to send share notification", "error", err)
	}
}

func normalizeShareEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !strings.Contains(normalized, "@") {
		return "", errors.New("invalid email address")
	}

	return normalized, nil
}
