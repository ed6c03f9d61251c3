package shares

import (
	users_models "taskdeck-backend/internal/features/users/models"

	"github.com/google/uuid"
)

// ShareTarget is what the share service needs to know about the item
// being shared.
type ShareTarget struct {
	WorkspaceID uuid.UUID
	Title       string
}

type TaskSource interface {
	GetTaskShareTarget(taskID uuid.UUID) (*ShareTarget, error)
}

type NoteSource interface {
	GetNoteShareTarget(noteID uuid.UUID) (*ShareTarget, error)
}

// ShareAccessChecker decides whether a user may manage shares on an item.
type ShareAccessChecker interface {
	CanUserEditTask(user *users_models.User, taskID uuid.UUID) (bool, error)
	CanUserEditNote(user *users_models.User, noteID uuid.UUID) (bool, error)
}
