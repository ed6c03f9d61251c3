package notifications

import (
	workspaces_services "taskdeck-backend/internal/features/workspaces/services"
	"taskdeck-backend/internal/util/logger"
)

var notificationRepository = &NotificationRepository{}
var notificationService = &NotificationService{
	notificationRepository,
	logger.GetLogger(),
}
var notificationController = &NotificationController{
	notificationService,
}

func GetNotificationService() *NotificationService {
	return notificationService
}

func GetNotificationController() *NotificationController {
	return notificationController
}

func SetupDependencies() {
	workspaces_services.GetWorkspaceService().AddWorkspaceDeletionListener(notificationService)
}
