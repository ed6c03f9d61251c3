package notes

import (
	"time"

	"github.com/google/uuid"
)

// Note is a node in a per-workspace tree. ParentID is nil for roots.
// DeletedAt marks the note as trashed; trashed notes stay queryable
// until the retention window expires or they are purged explicitly.
type Note struct {
	ID          uuid.UUID  `json:"id"          gorm:"column:id;primaryKey"`
	WorkspaceID uuid.UUID  `json:"workspaceId" gorm:"column:workspace_id;not null"`
	CreatorID   uuid.UUID  `json:"creatorId"   gorm:"column:creator_id;not null"`
	ParentID    *uuid.UUID `json:"parentId"    gorm:"column:parent_id"`
	Title       string     `json:"title"       gorm:"column:title;not null"`
	Content     string     `json:"content"     gorm:"column:content;type:text"`
	DeletedAt   *time.Time `json:"deletedAt"   gorm:"column:deleted_at"`
	CreatedAt   time.Time  `json:"createdAt"   gorm:"column:created_at;not null"`
	UpdatedAt   time.Time  `json:"updatedAt"   gorm:"column:updated_at;not null"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) IsTrashed() bool {
	return n.DeletedAt != nil
}
