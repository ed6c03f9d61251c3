package access

import (
	"errors"
	"fmt"

	"taskdeck-backend/internal/features/shares"
	users_models "taskdeck-backend/internal/features/users/models"
	workspaces_repositories "taskdeck-backend/internal/features/workspaces/repositories"

	"github.com/google/uuid"
)

var ErrItemNotFound = errors.New("item not found")

// AccessService loads the role and share context around an item and runs
// the resolver over it.
type AccessService struct {
	membershipRepository *workspaces_repositories.MembershipRepository
	shareService         *shares.ShareService

	taskSource TaskAccessSource
	noteSource NoteAccessSource
}

func (s *AccessService) SetTaskSource(source TaskAccessSource) {
	s.taskSource = source
}

func (s *AccessService) SetNoteSource(source NoteAccessSource) {
	s.noteSource = source
}

func (s *AccessService) ResolveTaskAccess(
	user *users_models.User,
	taskID uuid.UUID,
	forceReadOnly bool,
) (*Decision, error) {
	attributes, err := s.taskSource.GetTaskAccessAttributes(taskID)
	if err != nil {
		return nil, err
	}
	if attributes == nil {
		return nil, ErrItemNotFound
	}

	sharePermission, err := s.shareService.GetTaskSharePermission(taskID, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load task share: %w", err)
	}

	return s.resolve(user, attributes, sharePermission, forceReadOnly)
}

func (s *AccessService) ResolveNoteAccess(
	user *users_models.User,
	noteID uuid.UUID,
	forceReadOnly bool,
) (*Decision, error) {
	attributes, err := s.noteSource.GetNoteAccessAttributes(noteID)
	if err != nil {
		return nil, err
	}
	if attributes == nil {
		return nil, ErrItemNotFound
	}

	sharePermission, err := s.shareService.GetNoteSharePermission(noteID, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load note share: %w", err)
	}

	return s.resolve(user, attributes, sharePermission, forceReadOnly)
}

// CanUserEditTask reports whether a user may modify a task, which also
// gates managing its shares.
func (s *AccessService) CanUserEditTask(
	user *users_models.User,
	taskID uuid.UUID,
) (bool, error) {
	decision, err := s.ResolveTaskAccess(user, taskID, false)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return false, nil
		}
		return false, err
	}

	return decision.CanEdit, nil
}

func (s *AccessService) CanUserEditNote(
	user *users_models.User,
	noteID uuid.UUID,
) (bool, error) {
	decision, err := s.ResolveNoteAccess(user, noteID, false)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return false, nil
		}
		return false, err
	}

	return decision.CanEdit, nil
}

func (s *AccessService) resolve(
	user *users_models.User,
	attributes *ItemAttributes,
	sharePermission *shares.SharePermission,
	forceReadOnly bool,
) (*Decision, error) {
	role, err := s.membershipRepository.GetUserWorkspaceRole(attributes.WorkspaceID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace role: %w", err)
	}

	decision := Resolve(ResolveInput{
		Role:            role,
		IsCreator:       attributes.CreatorID == user.ID,
		IsAssignee:      attributes.AssigneeID != nil && *attributes.AssigneeID == user.ID,
		SharePermission: sharePermission,
		ForceReadOnly:   forceReadOnly,
	})

	return &decision, nil
}
