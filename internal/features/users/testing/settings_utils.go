package users_testing

import (
	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
)

func EnableMemberInvitations() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsAllowMemberInvitations = true
	})
}

func DisableMemberInvitations() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsAllowMemberInvitations = false
	})
}

func EnableExternalRegistrations() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsAllowExternalRegistrations = true
	})
}

func DisableExternalRegistrations() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsAllowExternalRegistrations = false
	})
}

func EnableMemberWorkspaceCreation() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsMemberAllowedToCreateWorkspaces = true
	})
}

func DisableMemberWorkspaceCreation() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsMemberAllowedToCreateWorkspaces = false
	})
}

func ResetSettingsToDefaults() {
	updateUsersSettings(func(s *users_models.UsersSettings) {
		s.IsAllowExternalRegistrations = true
		s.IsAllowMemberInvitations = true
		s.IsMemberAllowedToCreateWorkspaces = true
	})
}

func updateUsersSettings(mutate func(*users_models.UsersSettings)) {
	repository := users_repositories.GetUsersSettingsRepository()

	settings, err := repository.GetSettings()
	if err != nil {
		panic(err)
	}

	mutate(settings)

	if err := repository.UpdateSettings(settings); err != nil {
		panic(err)
	}
}
