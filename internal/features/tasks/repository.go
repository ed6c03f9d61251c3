package tasks

import (
	"time"

	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct{}

func (r *TaskRepository) Save(task *Task) error {
	now := time.Now().UTC()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	return storage.GetDb().Save(task).Error
}

func (r *TaskRepository) FindByID(taskID uuid.UUID) (*Task, error) {
	var task Task

	err := storage.GetDb().Where("id = ?", taskID).First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepository) FindByWorkspaceID(workspaceID uuid.UUID) ([]*Task, error) {
	var result []*Task

	if err := storage.GetDb().
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *TaskRepository) DeleteByID(taskID uuid.UUID) error {
	return storage.GetDb().Where("id = ?", taskID).Delete(&Task{}).Error
}

func (r *TaskRepository) FindIDsByWorkspaceID(workspaceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	if err := storage.GetDb().
		Model(&Task{}).
		Where("workspace_id = ?", workspaceID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *TaskRepository) DeleteByWorkspaceID(workspaceID uuid.UUID) error {
	return storage.GetDb().
		Where("workspace_id = ?", workspaceID).
		Delete(&Task{}).Error
}

// FindInboxItems returns the user's active triage tasks: assigned to
// them or explicitly shared with them, not done or archived, and not
// snoozed into the future. Ordered by due date, undated tasks last.
func (r *TaskRepository) FindInboxItems(
	workspaceID uuid.UUID,
	userID uuid.UUID,
	email string,
	now time.Time,
) ([]*Task, error) {
	var result []*Task

	err := r.inboxBaseQuery(workspaceID, userID, email).
		Where("snoozed_until IS NULL OR snoozed_until <= ?", now).
		Order("due_date ASC NULLS LAST, created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FindSnoozedItems is the complement of FindInboxItems: the same filter
// but with the snooze timestamp in the future, soonest wake-up first.
func (r *TaskRepository) FindSnoozedItems(
	workspaceID uuid.UUID,
	userID uuid.UUID,
	email string,
	now time.Time,
) ([]*Task, error) {
	var result []*Task

	err := r.inboxBaseQuery(workspaceID, userID, email).
		Where("snoozed_until > ?", now).
		Order("snoozed_until ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *TaskRepository) inboxBaseQuery(
	workspaceID uuid.UUID,
	userID uuid.UUID,
	email string,
) *gorm.DB {
	sharedTaskIDs := storage.GetDb().
		Table("task_shares").
		Select("task_id").
		Where("user_id = ? OR LOWER(email) = LOWER(?)", userID, email)

	return storage.GetDb().
		Model(&Task{}).
		Where("workspace_id = ?", workspaceID).
		Where("assignee_id = ? OR id IN (?)", userID, sharedTaskIDs).
		Where("status NOT IN ?", []TaskStatus{TaskStatusDone, TaskStatusArchived})
}
