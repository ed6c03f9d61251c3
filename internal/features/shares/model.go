package shares

import (
	"time"

	"github.com/google/uuid"
)

type SharePermission string

const (
	SharePermissionView SharePermission = "VIEW"
	SharePermissionEdit SharePermission = "EDIT"
)

func (p SharePermission) IsValid() bool {
	return p == SharePermissionView || p == SharePermissionEdit
}

func (p SharePermission) CanEdit() bool {
	return p == SharePermissionEdit
}

// TaskShare grants a single email address access to a task. UserID stays
// nil until the invitee registers, at which point pending shares are
// claimed and the user id attached.
type TaskShare struct {
	ID         uuid.UUID       `json:"id"         gorm:"column:id;primaryKey"`
	TaskID     uuid.UUID       `json:"taskId"     gorm:"column:task_id;not null;uniqueIndex:idx_task_shares_task_email"`
	Email      string          `json:"email"      gorm:"column:email;not null;uniqueIndex:idx_task_shares_task_email"`
	UserID     *uuid.UUID      `json:"userId"     gorm:"column:user_id"`
	Permission SharePermission `json:"permission" gorm:"column:permission;not null"`
	CreatedAt  time.Time       `json:"createdAt"  gorm:"column:created_at;not null"`
	UpdatedAt  time.Time       `json:"updatedAt"  gorm:"column:updated_at;not null"`
}

func (TaskShare) TableName() string {
	return "task_shares"
}

type NoteShare struct {
	ID         uuid.UUID       `json:"id"         gorm:"column:id;primaryKey"`
	NoteID     uuid.UUID       `json:"noteId"     gorm:"column:note_id;not null;uniqueIndex:idx_note_shares_note_email"`
	Email      string          `json:"email"      gorm:"column:email;not null;uniqueIndex:idx_note_shares_note_email"`
	UserID     *uuid.UUID      `json:"userId"     gorm:"column:user_id"`
	Permission SharePermission `json:"permission" gorm:"column:permission;not null"`
	CreatedAt  time.Time       `json:"createdAt"  gorm:"column:created_at;not null"`
	UpdatedAt  time.Time       `json:"updatedAt"  gorm:"column:updated_at;not null"`
}

func (NoteShare) TableName() string {
	return "note_shares"
}
