package users_repositories

var userRepository = &UserRepository{}
var sessionRepository = &SessionRepository{}
var usersSettingsRepository = &UsersSettingsRepository{}

func GetUserRepository() *UserRepository {
	return userRepository
}

func GetSessionRepository() *SessionRepository {
	return sessionRepository
}

func GetUsersSettingsRepository() *UsersSettingsRepository {
	return usersSettingsRepository
}
