package tasks

import (
	"time"

	"taskdeck-backend/internal/features/access"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

type AssignTaskRequest struct {
	// AssigneeID nil clears the assignment.
	AssigneeID *uuid.UUID `json:"assigneeId"`
}

type ChangeTaskStatusRequest struct {
	Status TaskStatus `json:"status" binding:"required"`
}

type SnoozeTaskRequest struct {
	// SnoozedUntil nil wakes the task up immediately.
	SnoozedUntil *time.Time `json:"snoozedUntil"`
}

// TaskWithAccessResponse pairs a task with the caller's resolved rights
// so the client can render the right controls without a second call.
type TaskWithAccessResponse struct {
	Task   *Task           `json:"task"`
	Access access.Decision `json:"access"`
}
