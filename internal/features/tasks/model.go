package tasks

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// IsOpen reports whether the task still shows up in triage views.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress
}

type Task struct {
	ID           uuid.UUID  `json:"id"           gorm:"column:id;primaryKey"`
	WorkspaceID  uuid.UUID  `json:"workspaceId"  gorm:"column:workspace_id;not null"`
	CreatorID    uuid.UUID  `json:"creatorId"    gorm:"column:creator_id;not null"`
	AssigneeID   *uuid.UUID `json:"assigneeId"   gorm:"column:assignee_id"`
	Title        string     `json:"title"        gorm:"column:title;not null"`
	Description  string     `json:"description"  gorm:"column:description;type:text"`
	Status       TaskStatus `json:"status"       gorm:"column:status;not null"`
	DueDate      *time.Time `json:"dueDate"      gorm:"column:due_date"`
	SnoozedUntil *time.Time `json:"snoozedUntil" gorm:"column:snoozed_until"`
	CreatedAt    time.Time  `json:"createdAt"    gorm:"column:created_at;not null"`
	UpdatedAt    time.Time  `json:"updatedAt"    gorm:"column:updated_at;not null"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsSnoozed reports whether the task is deferred past the given moment.
func (t *Task) IsSnoozed(now time.Time) bool {
	return t.SnoozedUntil != nil && t.SnoozedUntil.After(now)
}
