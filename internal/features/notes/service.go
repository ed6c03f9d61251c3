package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/audit_logs"
	"taskdeck-backend/internal/features/shares"
	users_models "taskdeck-backend/internal/features/users/models"
	workspaces_services "taskdeck-backend/internal/features/workspaces/services"

	"github.com/google/uuid"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrNoteInTrash   = errors.New("note is in the trash")
	ErrAccessDenied  = errors.New("insufficient permissions")
	ErrInvalidParent = errors.New("invalid parent note")
)

type NoteService struct {
	noteRepository   *NoteRepository
	workspaceService *workspaces_services.WorkspaceService
	accessService    *access.AccessService
	shareService     *shares.ShareService
	auditLogService  *audit_logs.AuditLogService
	trashRetention   time.Duration
	logger           *slog.Logger
}

func (s *NoteService) CreateNote(
	user *users_models.User,
	workspaceID uuid.UUID,
	request *CreateNoteRequest,
) (*Note, error) {
	if err := s.ensureCanCreateContent(user, workspaceID); err != nil {
		return nil, err
	}

	if request.ParentID != nil {
		if err := s.validateParent(workspaceID, *request.ParentID); err != nil {
			return nil, err
		}
	}

	note := &Note{
		WorkspaceID: workspaceID,
		CreatorID:   user.ID,
		ParentID:    request.ParentID,
		Title:       request.Title,
		Content:     request.Content,
	}

	if err := s.noteRepository.Save(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *NoteService) GetNote(
	user *users_models.User,
	noteID uuid.UUID,
	forceReadOnly bool,
) (*NoteWithAccessResponse, error) {
	note, err := s.noteRepository.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.IsTrashed() {
		return nil, ErrNoteNotFound
	}

	decision, err := s.accessService.ResolveNoteAccess(user, noteID, forceReadOnly)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, ErrAccessDenied
	}

	return &NoteWithAccessResponse{Note: note, Access: *decision}, nil
}

func (s *NoteService) UpdateNote(
	user *users_models.User,
	noteID uuid.UUID,
	request *UpdateNoteRequest,
) (*Note, error) {
	note, err := s.getEditableNote(user, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = request.Title
	note.Content = request.Content

	if err := s.noteRepository.Save(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// MoveNote reparents a note. Moving under nil makes it a root. A note
// can never be moved under itself or one of its descendants.
func (s *NoteService) MoveNote(
	user *users_models.User,
	noteID uuid.UUID,
	request *MoveNoteRequest,
) (*Note, error) {
	note, err := s.getEditableNote(user, noteID)
	if err != nil {
		return nil, err
	}

	if request.ParentID != nil {
		newParentID := *request.ParentID

		if newParentID == noteID {
			return nil, ErrInvalidParent
		}

		if err := s.validateParent(note.WorkspaceID, newParentID); err != nil {
			return nil, err
		}

		isDescendant, err := s.noteRepository.IsDescendant(noteID, newParentID)
		if err != nil {
			return nil, err
		}
		if isDescendant {
			return nil, ErrInvalidParent
		}
	}

	note.ParentID = request.ParentID

	if err := s.noteRepository.Save(note); err != nil {
		return nil, fmt.Errorf("failed to move note: %w", err)
	}

	return note, nil
}

// TrashNote soft-deletes the note and its whole subtree in one update.
func (s *NoteService) TrashNote(
	user *users_models.User,
	noteID uuid.UUID,
) error {
	note, err := s.getEditableNote(user, noteID)
	if err != nil {
		return err
	}

	subtreeIDs, err := s.noteRepository.CollectSubtreeIDs(noteID)
	if err != nil {
		return err
	}

	if _, err := s.noteRepository.SoftDeleteByIDs(subtreeIDs, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to trash note: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Note \"%s\" moved to trash", note.Title),
		&user.ID,
		&note.WorkspaceID,
	)

	return nil
}

// RestoreNote brings a trashed note and its subtree back. When the
// note's former parent is itself still in the trash, the note comes
// back as a root.
func (s *NoteService) RestoreNote(
	user *users_models.User,
	noteID uuid.UUID,
) (*Note, error) {
	note, err := s.getTrashedNoteForManage(user, noteID)
	if err != nil {
		return nil, err
	}

	subtreeIDs, err := s.noteRepository.CollectSubtreeIDs(noteID)
	if err != nil {
		return nil, err
	}

	if _, err := s.noteRepository.RestoreByIDs(subtreeIDs); err != nil {
		return nil, fmt.Errorf("failed to restore note: %w", err)
	}

	if note.ParentID != nil {
		parent, err := s.noteRepository.FindByID(*note.ParentID)
		if err != nil {
			return nil, err
		}

		if parent == nil || parent.IsTrashed() {
			if err := s.noteRepository.ClearParent(noteID); err != nil {
				return nil, err
			}
			note.ParentID = nil
		}
	}

	note.DeletedAt = nil
	return note, nil
}

func (s *NoteService) ListRoots(
	user *users_models.User,
	workspaceID uuid.UUID,
) ([]*Note, error) {
	if err := s.ensureCanAccessWorkspace(user, workspaceID); err != nil {
		return nil, err
	}

	return s.noteRepository.FindRoots(workspaceID)
}

func (s *NoteService) ListChildren(
	user *users_models.User,
	noteID uuid.UUID,
) ([]*Note, error) {
	decision, err := s.accessService.ResolveNoteAccess(user, noteID, false)
	if err != nil {
		if errors.Is(err, access.ErrItemNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if !decision.CanView {
		return nil, ErrAccessDenied
	}

	return s.noteRepository.FindChildren(noteID)
}

func (s *NoteService) ListTrash(
	user *users_models.User,
	workspaceID uuid.UUID,
) ([]*Note, error) {
	if err := s.ensureCanAccessWorkspace(user, workspaceID); err != nil {
		return nil, err
	}

	return s.noteRepository.FindTrash(workspaceID)
}

// PermanentlyDeleteNote purges a trashed note and its subtree along with
// any shares pointing at them.
func (s *NoteService) PermanentlyDeleteNote(
	user *users_models.User,
	noteID uuid.UUID,
) error {
	note, err := s.getTrashedNoteForManage(user, noteID)
	if err != nil {
		return err
	}

	subtreeIDs, err := s.noteRepository.CollectSubtreeIDs(noteID)
	if err != nil {
		return err
	}

	if err := s.shareService.OnNotesDeleted(subtreeIDs); err != nil {
		return fmt.Errorf("failed to remove note shares: %w", err)
	}

	if _, err := s.noteRepository.DeleteByIDs(subtreeIDs); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Note \"%s\" permanently deleted", note.Title),
		&user.ID,
		&note.WorkspaceID,
	)

	return nil
}

// EmptyTrash purges every trashed note in the workspace. Reserved for
// workspace owners and admins since it destroys other members' notes.
func (s *NoteService) EmptyTrash(
	user *users_models.User,
	workspaceID uuid.UUID,
) (int64, error) {
	canManage, err := s.workspaceService.CanUserManageWorkspace(workspaceID, user)
	if err != nil {
		return 0, err
	}
	if !canManage {
		return 0, ErrAccessDenied
	}

	trashed, err := s.noteRepository.FindTrash(workspaceID)
	if err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, len(trashed))
	for i, note := range trashed {
		ids[i] = note.ID
	}

	if err := s.shareService.OnNotesDeleted(ids); err != nil {
		return 0, fmt.Errorf("failed to remove note shares: %w", err)
	}

	purged, err := s.noteRepository.DeleteByIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("failed to empty trash: %w", err)
	}

	s.auditLogService.WriteAuditLog("Trash emptied", &user.ID, &workspaceID)

	return purged, nil
}

// PurgeExpiredTrash deletes notes that have been in the trash longer
// than the retention window. Called by the background sweeper.
func (s *NoteService) PurgeExpiredTrash() (int64, error) {
	cutoff := time.Now().UTC().Add(-s.trashRetention)

	ids, err := s.noteRepository.FindExpiredTrashIDs(cutoff)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.shareService.OnNotesDeleted(ids); err != nil {
		return 0, err
	}

	return s.noteRepository.DeleteByIDs(ids)
}

// GetNoteAccessAttributes feeds the access resolver. Trashed notes are
// reported as absent so normal access paths cannot reach them.
func (s *NoteService) GetNoteAccessAttributes(
	noteID uuid.UUID,
) (*access.ItemAttributes, error) {
	note, err := s.noteRepository.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.IsTrashed() {
		return nil, nil
	}

	return &access.ItemAttributes{
		WorkspaceID: note.WorkspaceID,
		CreatorID:   note.CreatorID,
	}, nil
}

// GetNoteShareTarget feeds the share service.
func (s *NoteService) GetNoteShareTarget(
	noteID uuid.UUID,
) (*shares.ShareTarget, error) {
	note, err := s.noteRepository.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.IsTrashed() {
		return nil, nil
	}

	return &shares.ShareTarget{
		WorkspaceID: note.WorkspaceID,
		Title:       note.Title,
	}, nil
}

func (s *NoteService) OnBeforeWorkspaceDeletion(workspaceID uuid.UUID) error {
	noteIDs, err := s.noteRepository.FindIDsByWorkspaceID(workspaceID)
	if err != nil {
		return err
	}

	if err := s.shareService.OnNotesDeleted(noteIDs); err != nil {
		return err
	}

	return s.noteRepository.DeleteByWorkspaceID(workspaceID)
}

func (s *NoteService) getEditableNote(
	user *users_models.User,
	noteID uuid.UUID,
) (*Note, error) {
	note, err := s.noteRepository.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	if note.IsTrashed() {
		return nil, ErrNoteInTrash
	}

	decision, err := s.accessService.ResolveNoteAccess(user, noteID, false)
	if err != nil {
		return nil, err
	}
	if !decision.CanEdit {
		return nil, ErrAccessDenied
	}

	return note, nil
}

// getTrashedNoteForManage gates trash operations: the resolver cannot
// see trashed notes, so they fall back to creator or content-editing
// workspace role.
func (s *NoteService) getTrashedNoteForManage(
	user *users_models.User,
	noteID uuid.UUID,
) (*Note, error) {
	note, err := s.noteRepository.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	if !note.IsTrashed() {
		return nil, errors.New("note is not in the trash")
	}

	if note.CreatorID == user.ID {
		return note, nil
	}

	canAccess, role, err := s.workspaceService.CanUserAccessWorkspace(note.WorkspaceID, user)
	if err != nil {
		return nil, err
	}
	if !canAccess || role == nil || !role.CanEditContent() {
		return nil, ErrAccessDenied
	}

	return note, nil
}

func (s *NoteService) ensureCanCreateContent(
	user *users_models.User,
	workspaceID uuid.UUID,
) error {
	canAccess, role, err := s.workspaceService.CanUserAccessWorkspace(workspaceID, user)
	if err != nil {
		return err
	}
	if !canAccess || role == nil || !role.CanEditContent() {
		return ErrAccessDenied
	}

	return nil
}

func (s *NoteService) ensureCanAccessWorkspace(
	user *users_models.User,
	workspaceID uuid.UUID,
) error {
	canAccess, _, err := s.workspaceService.CanUserAccessWorkspace(workspaceID, user)
	if err != nil {
		return err
	}
	if !canAccess {
		return ErrAccessDenied
	}

	return nil
}

func (s *NoteService) validateParent(
	workspaceID uuid.UUID,
	parentID uuid.UUID,
) error {
	parent, err := s.noteRepository.FindByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil || parent.IsTrashed() || parent.WorkspaceID != workspaceID {
		return ErrInvalidParent
	}

	return nil
}
