package access

import (
	"github.com/google/uuid"
)

// ItemAttributes is the slice of a task or note the resolver cares about.
type ItemAttributes struct {
	WorkspaceID uuid.UUID
	CreatorID   uuid.UUID
	AssigneeID  *uuid.UUID
}

type TaskAccessSource interface {
	// GetTaskAccessAttributes returns nil, nil when the task does not exist.
	GetTaskAccessAttributes(taskID uuid.UUID) (*ItemAttributes, error)
}

type NoteAccessSource interface {
	// GetNoteAccessAttributes returns nil, nil when the note does not
	// exist or sits in the trash.
	GetNoteAccessAttributes(noteID uuid.UUID) (*ItemAttributes, error)
}
