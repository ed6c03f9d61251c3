package notes

import (
	"time"

	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct{}

func (r *NoteRepository) Save(note *Note) error {
	now := time.Now().UTC()

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	return storage.GetDb().Save(note).Error
}

// FindByID returns the note regardless of trash state; callers decide
// how to treat trashed notes.
func (r *NoteRepository) FindByID(noteID uuid.UUID) (*Note, error) {
	var note Note

	err := storage.GetDb().Where("id = ?", noteID).First(&note).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &note, nil
}

func (r *NoteRepository) FindRoots(workspaceID uuid.UUID) ([]*Note, error) {
	var result []*Note

	if err := storage.GetDb().
		Where("workspace_id = ? AND parent_id IS NULL AND deleted_at IS NULL", workspaceID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *NoteRepository) FindChildren(parentID uuid.UUID) ([]*Note, error) {
	var result []*Note

	if err := storage.GetDb().
		Where("parent_id = ? AND deleted_at IS NULL", parentID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *NoteRepository) FindTrash(workspaceID uuid.UUID) ([]*Note, error) {
	var result []*Note

	if err := storage.GetDb().
		Where("workspace_id = ? AND deleted_at IS NOT NULL", workspaceID).
		Order("deleted_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// CollectSubtreeIDs walks the tree below (and including) the given note
// with a recursive CTE.
func (r *NoteRepository) CollectSubtreeIDs(noteID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	err := storage.GetDb().Raw(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM notes WHERE id = ?
			UNION ALL
			SELECT n.id FROM notes n JOIN subtree s ON n.parent_id = s.id
		)
		SELECT id FROM subtree`, noteID).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// IsDescendant reports whether candidateID sits in the subtree below
// ancestorID (the ancestor itself does not count).
func (r *NoteRepository) IsDescendant(
	ancestorID uuid.UUID,
	candidateID uuid.UUID,
) (bool, error) {
	ids, err := r.CollectSubtreeIDs(ancestorID)
	if err != nil {
		return false, err
	}

	for _, id := range ids {
		if id == candidateID && id != ancestorID {
			return true, nil
		}
	}

	return false, nil
}

func (r *NoteRepository) SoftDeleteByIDs(noteIDs []uuid.UUID, deletedAt time.Time) (int64, error) {
	if len(noteIDs) == 0 {
		return 0, nil
	}

	result := storage.GetDb().
		Model(&Note{}).
		Where("id IN ? AND deleted_at IS NULL", noteIDs).
		Update("deleted_at", deletedAt)

	return result.RowsAffected, result.Error
}

func (r *NoteRepository) RestoreByIDs(noteIDs []uuid.UUID) (int64, error) {
	if len(noteIDs) == 0 {
		return 0, nil
	}

	result := storage.GetDb().
		Model(&Note{}).
		Where("id IN ? AND deleted_at IS NOT NULL", noteIDs).
		Update("deleted_at", nil)

	return result.RowsAffected, result.Error
}

func (r *NoteRepository) ClearParent(noteID uuid.UUID) error {
	return storage.GetDb().
		Model(&Note{}).
		Where("id = ?", noteID).
		Update("parent_id", nil).Error
}

func (r *NoteRepository) DeleteByIDs(noteIDs []uuid.UUID) (int64, error) {
	if len(noteIDs) == 0 {
		return 0, nil
	}

	result := storage.GetDb().
		Where("id IN ?", noteIDs).
		Delete(&Note{})

	return result.RowsAffected, result.Error
}

// FindExpiredTrashIDs returns trashed notes whose retention window ended
// before the cutoff.
func (r *NoteRepository) FindExpiredTrashIDs(cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	if err := storage.GetDb().
		Model(&Note{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *NoteRepository) FindIDsByWorkspaceID(workspaceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	if err := storage.GetDb().
		Model(&Note{}).
		Where("workspace_id = ?", workspaceID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *NoteRepository) DeleteByWorkspaceID(workspaceID uuid.UUID) error {
	return storage.GetDb().
		Where("workspace_id = ?", workspaceID).
		Delete(&Note{}).Error
}
