package inbox

import (
	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/tasks"
)

// InboxResponse is the triage view: active items, deferred items and
// recent notifications, assembled only when all three reads succeed.
type InboxResponse struct {
	Items         []*tasks.Task                 `json:"items"`
	Snoozed       []*tasks.Task                 `json:"snoozed"`
	Notifications []*notifications.Notification `json:"notifications"`
}
