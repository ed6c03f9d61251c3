package notifications

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeComment    NotificationType = "COMMENT"
	NotificationTypeMention    NotificationType = "MENTION"
	NotificationTypeAssignment NotificationType = "ASSIGNMENT"
	NotificationTypeTaskShared NotificationType = "TASK_SHARED"
	NotificationTypeNoteShared NotificationType = "NOTE_SHARED"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeComment,
		NotificationTypeMention,
		NotificationTypeAssignment,
		NotificationTypeTaskShared,
		NotificationTypeNoteShared:
		return true
	}
	return false
}

// Notification is immutable after creation except for the IsRead flag.
type Notification struct {
	ID          uuid.UUID        `json:"id"          gorm:"column:id;primaryKey"`
	UserID      uuid.UUID        `json:"userId"      gorm:"column:user_id;not null"`
	WorkspaceID *uuid.UUID       `json:"workspaceId" gorm:"column:workspace_id"`
	Type        NotificationType `json:"type"        gorm:"column:type;not null"`
	Title       string           `json:"title"       gorm:"column:title;not null"`
	Message     *string          `json:"message"     gorm:"column:message"`
	IsRead      bool             `json:"isRead"      gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time        `json:"createdAt"   gorm:"column:created_at;not null"`
}

func (Notification) TableName() string {
	return "notifications"
}
