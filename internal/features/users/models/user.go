package users_models

import (
	"time"

	users_enums "taskdeck-backend/internal/features/users/enums"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID              `json:"id"                   gorm:"column:id"`
	Email                string                 `json:"email"                gorm:"column:email"`
	Name                 string                 `json:"name"                 gorm:"column:name"`
	Image                *string                `json:"image"                gorm:"column:image"`
	HashedPassword       *string                `json:"-"                    gorm:"column:hashed_password"`
	PasswordCreationTime time.Time              `json:"-"                    gorm:"column:password_creation_time"`
	Role                 users_enums.UserRole   `json:"role"                 gorm:"column:role"`
	Status               users_enums.UserStatus `json:"status"               gorm:"column:status"`
	GitHubOAuthID        *string                `json:"-"                    gorm:"column:github_oauth_id"`
	GoogleOAuthID        *string                `json:"-"                    gorm:"column:google_oauth_id"`
	CreatedAt            time.Time              `json:"createdAt"            gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveUser() bool {
	return u.Status == users_enums.UserStatusActive
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

func (u *User) CanCreateWorkspaces(settings *UsersSettings) bool {
	if u.Role == users_enums.UserRoleAdmin {
		return true
	}

	return settings.IsMemberAllowedToCreateWorkspaces
}

func (u *User) CanInviteUsers(settings *UsersSettings) bool {
	if u.Role == users_enums.UserRoleAdmin {
		return true
	}

	return settings.IsAllowMemberInvitations
}
