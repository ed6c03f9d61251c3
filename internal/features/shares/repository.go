package shares

import (
	"time"

	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShareRepository struct{}

// UpsertTaskShare writes the grant with a single INSERT .. ON CONFLICT
// DO UPDATE on (task_id, email), so concurrent upserts for the same
// invitee collapse into one row holding the latest permission.
func (r *ShareRepository) UpsertTaskShare(share *TaskShare) error {
	now := time.Now().UTC()

	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}
	if share.CreatedAt.IsZero() {
		share.CreatedAt = now
	}
	share.UpdatedAt = now

	return storage.GetDb().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "user_id", "updated_at"}),
	}).Create(share).Error
}

func (r *ShareRepository) UpsertNoteShare(share *NoteShare) error {
	now := time.Now().UTC()

	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}
	if share.CreatedAt.IsZero() {
		share.CreatedAt = now
	}
	share.UpdatedAt = now

	return storage.GetDb().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "user_id", "updated_at"}),
	}).Create(share).Error
}

func (r *ShareRepository) FindTaskShares(taskID uuid.UUID) ([]*TaskShare, error) {
	var result []*TaskShare

	if err := storage.GetDb().
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ShareRepository) FindNoteShares(noteID uuid.UUID) ([]*NoteShare, error) {
	var result []*NoteShare

	if err := storage.GetDb().
		Where("note_id = ?", noteID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ShareRepository) FindTaskShareForUser(
	taskID uuid.UUID,
	userID uuid.UUID,
	email string,
) (*TaskShare, error) {
	var share TaskShare

	err := storage.GetDb().
		Where("task_id = ? AND (user_id = ? OR LOWER(email) = LOWER(?))", taskID, userID, email).
		First(&share).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

func (r *ShareRepository) FindNoteShareForUser(
	noteID uuid.UUID,
	userID uuid.UUID,
	email string,
) (*NoteShare, error) {
	var share NoteShare

	err := storage.GetDb().
		Where("note_id = ? AND (user_id = ? OR LOWER(email) = LOWER(?))", noteID, userID, email).
		First(&share).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &share, nil
}

func (r *ShareRepository) DeleteTaskShare(taskID uuid.UUID, email string) (int64, error) {
	result := storage.GetDb().
		Where("task_id = ? AND LOWER(email) = LOWER(?)", taskID, email).
		Delete(&TaskShare{})

	return result.RowsAffected, result.Error
}

func (r *ShareRepository) DeleteNoteShare(noteID uuid.UUID, email string) (int64, error) {
	result := storage.GetDb().
		Where("note_id = ? AND LOWER(email) = LOWER(?)", noteID, email).
		Delete(&NoteShare{})

	return result.RowsAffected, result.Error
}

// AttachUserToShares claims all pending shares for the email in one
// transaction.
func (r *ShareRepository) AttachUserToShares(userID uuid.UUID, email string) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&TaskShare{}).
			Where("user_id IS NULL AND LOWER(email) = LOWER(?)", email).
			Update("user_id", userID).Error; err != nil {
			return err
		}

		return tx.Model(&NoteShare{}).
			Where("user_id IS NULL AND LOWER(email) = LOWER(?)", email).
			Update("user_id", userID).Error
	})
}

func (r *ShareRepository) DeleteSharesForTask(taskID uuid.UUID) error {
	return storage.GetDb().
		Where("task_id = ?", taskID).
		Delete(&TaskShare{}).Error
}

func (r *ShareRepository) DeleteSharesForNotes(noteIDs []uuid.UUID) error {
	if len(noteIDs) == 0 {
		return nil
	}

	return storage.GetDb().
		Where("note_id IN ?", noteIDs).
		Delete(&NoteShare{}).Error
}
