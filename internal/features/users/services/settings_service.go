package users_services

import (
	"fmt"

	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
)

type SettingsService struct {
	settingsRepository *users_repositories.UsersSettingsRepository
}

func (s *SettingsService) GetSettings() (*users_models.UsersSettings, error) {
	return s.settingsRepository.GetSettings()
}

func (s *SettingsService) UpdateSettings(settings *users_models.UsersSettings) error {
	existing, err := s.settingsRepository.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	settings.ID = existing.ID

	return s.settingsRepository.UpdateSettings(settings)
}
