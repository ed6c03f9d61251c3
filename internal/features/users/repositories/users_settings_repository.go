package users_repositories

import (
	"errors"

	users_models "taskdeck-backend/internal/features/users/models"
	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsersSettingsRepository struct{}

// GetSettings returns the single settings row, creating it with defaults
// on first access.
func (r *UsersSettingsRepository) GetSettings() (*users_models.UsersSettings, error) {
	var settings users_models.UsersSettings

	err := storage.GetDb().First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = users_models.UsersSettings{
				ID:                                uuid.New(),
				IsAllowExternalRegistrations:      true,
				IsAllowMemberInvitations:          true,
				IsMemberAllowedToCreateWorkspaces: true,
			}

			if err := storage.GetDb().Create(&settings).Error; err != nil {
				return nil, err
			}

			return &settings, nil
		}

		return nil, err
	}

	return &settings, nil
}

func (r *UsersSettingsRepository) UpdateSettings(settings *users_models.UsersSettings) error {
	return storage.GetDb().Save(settings).Error
}
