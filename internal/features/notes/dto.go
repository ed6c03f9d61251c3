package notes

import (
	"taskdeck-backend/internal/features/access"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string     `json:"title" binding:"required"`
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentId"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type MoveNoteRequest struct {
	// ParentID nil moves the note to the workspace root.
	ParentID *uuid.UUID `json:"parentId"`
}

type NoteWithAccessResponse struct {
	Note   *Note           `json:"note"`
	Access access.Decision `json:"access"`
}

type EmptyTrashResponse struct {
	PurgedCount int64 `json:"purgedCount"`
}
