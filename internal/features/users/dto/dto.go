package users_dto

import (
	"time"

	users_enums "taskdeck-backend/internal/features/users/enums"

	"github.com/google/uuid"
)

type SignUpRequestDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"     binding:"required"`
}

type SignInRequestDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignInResponseDTO struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	SessionID uuid.UUID `json:"sessionId"`
	Token     string    `json:"token"`
}

type ChangePasswordRequestDTO struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type UpdateUserInfoRequestDTO struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Image *string `json:"image"`
}

type InviteUserRequestDTO struct {
	Email                 string                     `json:"email"                 binding:"required,email"`
	IntendedWorkspaceID   *uuid.UUID                 `json:"intendedWorkspaceId"`
	IntendedWorkspaceRole *users_enums.WorkspaceRole `json:"intendedWorkspaceRole"`
}

type InviteUserResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserProfileResponseDTO struct {
	ID        uuid.UUID            `json:"id"`
	Email     string               `json:"email"`
	Name      string               `json:"name"`
	Image     *string              `json:"image"`
	Role      users_enums.UserRole `json:"role"`
	IsActive  bool                 `json:"isActive"`
	CreatedAt time.Time            `json:"createdAt"`
}

type OAuthCallbackRequestDTO struct {
	Code        string `json:"code"        binding:"required"`
	RedirectUri string `json:"redirectUri" binding:"required"`
}

type OAuthCallbackResponseDTO struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	IsNewUser bool      `json:"isNewUser"`
}

type SessionResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	IsCurrent bool      `json:"isCurrent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListSessionsResponseDTO struct {
	Sessions []SessionResponseDTO `json:"sessions"`
}

type RevokeSessionsResponseDTO struct {
	RevokedCount int64 `json:"revokedCount"`
}
