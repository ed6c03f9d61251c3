package workspaces_models

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id"`
	Slug      string    `json:"slug"      gorm:"column:slug"`
	Name      string    `json:"name"      gorm:"column:name"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

func (w *Workspace) UpdateFromDTO(updateDTO *Workspace) {
	w.Name = updateDTO.Name
}
