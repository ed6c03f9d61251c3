package tasks

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/audit_logs"
	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/shares"
	users_models "taskdeck-backend/internal/features/users/models"
	workspaces_services "taskdeck-backend/internal/features/workspaces/services"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAccessDenied = errors.New("insufficient permissions")
)

type TaskService struct {
	taskRepository      *TaskRepository
	workspaceService    *workspaces_services.WorkspaceService
	accessService       *access.AccessService
	shareService        *shares.ShareService
	notificationService *notifications.NotificationService
	auditLogService     *audit_logs.AuditLogService
	logger              *slog.Logger
}

func (s *TaskService) CreateTask(
	user *users_models.User,
	workspaceID uuid.UUID,
	request *CreateTaskRequest,
) (*Task, error) {
	if err := s.ensureCanCreateContent(user, workspaceID); err != nil {
		return nil, err
	}

	if request.AssigneeID != nil {
		if err := s.validateAssignee(workspaceID, *request.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &Task{
		WorkspaceID: workspaceID,
		CreatorID:   user.ID,
		AssigneeID:  request.AssigneeID,
		Title:       request.Title,
		Description: request.Description,
		Status:      TaskStatusTodo,
		DueDate:     request.DueDate,
	}

	if err := s.taskRepository.Save(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if task.AssigneeID != nil && *task.AssigneeID != user.ID {
		s.notifyAssignee(task, user)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task \"%s\" created", task.Title),
		&user.ID,
		&workspaceID,
	)

	return task, nil
}

// GetTask resolves the caller's rights and returns the task together
// with the decision. forceReadOnly drops edit rights for view-mode
// links without affecting visibility.
func (s *TaskService) GetTask(
	user *users_models.User,
	taskID uuid.UUID,
	forceReadOnly bool,
) (*TaskWithAccessResponse, error) {
	task, err := s.taskRepository.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	decision, err := s.accessService.ResolveTaskAccess(user, taskID, forceReadOnly)
	if err != nil {
		return nil, err
	}
	if !decision.CanView {
		return nil, ErrAccessDenied
	}

	return &TaskWithAccessResponse{Task: task, Access: *decision}, nil
}

func (s *TaskService) UpdateTask(
	user *users_models.User,
	taskID uuid.UUID,
	request *UpdateTaskRequest,
) (*Task, error) {
	task, err := s.getEditableTask(user, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = request.Title
	task.Description = request.Description
	task.DueDate = request.DueDate

	if err := s.taskRepository.Save(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// AssignTask sets or clears the assignee and notifies the new assignee.
func (s *TaskService) AssignTask(
	user *users_models.User,
	taskID uuid.UUID,
	request *AssignTaskRequest,
) (*Task, error) {
	task, err := s.getEditableTask(user, taskID)
	if err != nil {
		return nil, err
	}

	if request.AssigneeID != nil {
		if err := s.validateAssignee(task.WorkspaceID, *request.AssigneeID); err != nil {
			return nil, err
		}
	}

	previousAssignee := task.AssigneeID
	task.AssigneeID = request.AssigneeID

	if err := s.taskRepository.Save(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	isNewAssignee := task.AssigneeID != nil &&
		(previousAssignee == nil || *previousAssignee != *task.AssigneeID)
	if isNewAssignee && *task.AssigneeID != user.ID {
		s.notifyAssignee(task, user)
	}

	return task, nil
}

func (s *TaskService) ChangeTaskStatus(
	user *users_models.User,
	taskID uuid.UUID,
	request *ChangeTaskStatusRequest,
) (*Task, error) {
	if !request.Status.IsValid() {
		return nil, fmt.Errorf("invalid task status: %s", request.Status)
	}

	task, err := s.getEditableTask(user, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = request.Status

	if err := s.taskRepository.Save(task); err != nil {
		return nil, fmt.Errorf("failed to change task status: %w", err)
	}

	return task, nil
}

// SnoozeTask defers the task until the given timestamp, or wakes it up
// when the timestamp is nil.
func (s *TaskService) SnoozeTask(
	user *users_models.User,
	taskID uuid.UUID,
	request *SnoozeTaskRequest,
) (*Task, error) {
	if request.SnoozedUntil != nil && !request.SnoozedUntil.After(time.Now().UTC()) {
		return nil, errors.New("snooze timestamp must be in the future")
	}

	task, err := s.getEditableTask(user, taskID)
	if err != nil {
		return nil, err
	}

	task.SnoozedUntil = request.SnoozedUntil

	if err := s.taskRepository.Save(task); err != nil {
		return nil, fmt.Errorf("failed to snooze task: %w", err)
	}

	return task, nil
}

func (s *TaskService) DeleteTask(
	user *users_models.User,
	taskID uuid.UUID,
) error {
	task, err := s.getEditableTask(user, taskID)
	if err != nil {
		return err
	}

	if err := s.shareService.OnTaskDeleted(taskID); err != nil {
		return fmt.Errorf("failed to remove task shares: %w", err)
	}

	if err := s.taskRepository.DeleteByID(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task \"%s\" deleted", task.Title),
		&user.ID,
		&task.WorkspaceID,
	)

	return nil
}

func (s *TaskService) GetWorkspaceTasks(
	user *users_models.User,
	workspaceID uuid.UUID,
) ([]*Task, error) {
	canAccess, _, err := s.workspaceService.CanUserAccessWorkspace(workspaceID, user)
	if err != nil {
		return nil, err
	}
	if !canAccess {
		return nil, ErrAccessDenied
	}

	return s.taskRepository.FindByWorkspaceID(workspaceID)
}

// GetTaskAccessAttributes feeds the access resolver.
func (s *TaskService) GetTaskAccessAttributes(
	taskID uuid.UUID,
) (*access.ItemAttributes, error) {
	task, err := s.taskRepository.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	return &access.ItemAttributes{
		WorkspaceID: task.WorkspaceID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
	}, nil
}

// GetTaskShareTarget feeds the share service.
func (s *TaskService) GetTaskShareTarget(
	taskID uuid.UUID,
) (*shares.ShareTarget, error) {
	task, err := s.taskRepository.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	return &shares.ShareTarget{
		WorkspaceID: task.WorkspaceID,
		Title:       task.Title,
	}, nil
}

func (s *TaskService) OnBeforeWorkspaceDeletion(workspaceID uuid.UUID) error {
	taskIDs, err := s.taskRepository.FindIDsByWorkspaceID(workspaceID)
	if err != nil {
		return err
	}

	for _, taskID := range taskIDs {
		if err := s.shareService.OnTaskDeleted(taskID); err != nil {
			return err
		}
	}

	return s.taskRepository.DeleteByWorkspaceID(workspaceID)
}

func (s *TaskService) getEditableTask(
	user *users_models.User,
	taskID uuid.UUID,
) (*Task, error) {
	task, err := s.taskRepository.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	decision, err := s.accessService.ResolveTaskAccess(user, taskID, false)
	if err != nil {
		return nil, err
	}
	if !decision.CanEdit {
		return nil, ErrAccessDenied
	}

	return task, nil
}

func (s *TaskService) ensureCanCreateContent(
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

func (s *TaskService) validateAssignee(
	workspaceID uuid.UUID,
	assigneeID uuid.UUID,
) error {
	role, err := s.workspaceService.GetUserWorkspaceRole(workspaceID, assigneeID)
	if err != nil {
		return err
	}
	if role == nil {
		return errors.New("assignee is not a member of this workspace")
	}

	return nil
}

func (s *TaskService) notifyAssignee(task *Task, actor *users_models.User) {
	message := fmt.Sprintf("%s assigned task \"%s\" to you", actor.Email, task.Title)

	if err := s.notificationService.SendNotification(
		*task.AssigneeID,
		&task.WorkspaceID,
		notifications.NotificationTypeAssignment,
		"You were assigned a task",
		&message,
	); err != nil {
		s.logger.Error("Failed to send assignment notification", "error", err)
	}
}
