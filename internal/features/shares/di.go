package shares

import (
	"taskdeck-backend/internal/features/notifications"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
	users_services "taskdeck-backend/internal/features/users/services"
	"taskdeck-backend/internal/util/logger"
)

var shareRepository = &ShareRepository{}
var shareService = &ShareService{
	shareRepository:     shareRepository,
	userRepository:      users_repositories.GetUserRepository(),
	notificationService: notifications.GetNotificationService(),
	logger:              logger.GetLogger(),
}
var shareController = &ShareController{
	shareService,
}

func GetShareService() *ShareService {
	return shareService
}

func GetShareController() *ShareController {
	return shareController
}

func SetupDependencies() {
	users_services.GetUserService().SetShareClaimer(shareService)
}
