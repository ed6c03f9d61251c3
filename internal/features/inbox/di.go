package inbox

import (
	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/tasks"
)

var inboxService = &InboxService{
	taskRepository:      tasks.GetTaskRepository(),
	notificationService: notifications.GetNotificationService(),
}
var inboxController = &InboxController{
	inboxService,
}

func GetInboxService() *InboxService {
	return inboxService
}

func GetInboxController() *InboxController {
	return inboxController
}
