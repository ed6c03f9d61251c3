package users_testing

import (
	"fmt"
	"time"

	users_dto "taskdeck-backend/internal/features/users/dto"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
	users_services "taskdeck-backend/internal/features/users/services"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testUserPassword = "test-password-123"

// CreateTestUser inserts an active user with a random email and opens a
// session for it.
func CreateTestUser(role users_enums.UserRole) *users_dto.SignInResponseDTO {
	user := CreateTestUserModel(role)

	response, err := users_services.GetUserService().CreateSessionWithToken(user)
	if err != nil {
		panic(err)
	}

	return response
}

func CreateTestUserModel(role users_enums.UserRole) *users_models.User {
	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(testUserPassword),
		bcrypt.DefaultCost,
	)
	if err != nil {
		panic(err)
	}

	hashedPasswordStr := string(hashedPassword)
	user := &users_models.User{
		ID:                   uuid.New(),
		Email:                fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8]),
		Name:                 "Test User",
		HashedPassword:       &hashedPasswordStr,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 role,
		Status:               users_enums.UserStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	if err := users_repositories.GetUserRepository().CreateUser(user); err != nil {
		panic(err)
	}

	return user
}
