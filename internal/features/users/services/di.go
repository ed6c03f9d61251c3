package users_services

import (
	"taskdeck-backend/internal/features/encryption/secrets"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
	"taskdeck-backend/internal/util/logger"
)

var log = logger.GetLogger()

var settingsService = &SettingsService{
	users_repositories.GetUsersSettingsRepository(),
}

var userService = &UserService{
	users_repositories.GetUserRepository(),
	users_repositories.GetSessionRepository(),
	secrets.GetSecretKeyService(),
	settingsService,
	nil,
	nil,
}

var sessionBackgroundService = &SessionBackgroundService{
	users_repositories.GetSessionRepository(),
	log,
}

func GetUserService() *UserService {
	return userService
}

func GetSettingsService() *SettingsService {
	return settingsService
}

func GetSessionBackgroundService() *SessionBackgroundService {
	return sessionBackgroundService
}
