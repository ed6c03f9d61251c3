package users_models

import (
	"github.com/google/uuid"
)

// UsersSettings is the single-row instance configuration.
type UsersSettings struct {
	ID                                uuid.UUID `json:"id"                                gorm:"column:id"`
	IsAllowExternalRegistrations      bool      `json:"isAllowExternalRegistrations"      gorm:"column:is_allow_external_registrations"`
	IsAllowMemberInvitations          bool      `json:"isAllowMemberInvitations"          gorm:"column:is_allow_member_invitations"`
	IsMemberAllowedToCreateWorkspaces bool      `json:"isMemberAllowedToCreateWorkspaces" gorm:"column:is_member_allowed_to_create_workspaces"`
}

func (UsersSettings) TableName() string {
	return "users_settings"
}
