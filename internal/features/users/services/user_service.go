package users_services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"taskdeck-backend/internal/config"
	"taskdeck-backend/internal/features/encryption/secrets"
	users_dto "taskdeck-backend/internal/features/users/dto"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_interfaces "taskdeck-backend/internal/features/users/interfaces"
	users_models "taskdeck-backend/internal/features/users/models"
	users_repositories "taskdeck-backend/internal/features/users/repositories"
	"taskdeck-backend/internal/storage"
)

type UserService struct {
	userRepository    *users_repositories.UserRepository
	sessionRepository *users_repositories.SessionRepository
	secretKeyService  *secrets.SecretKeyService
	settingsService   *SettingsService
	auditLogWriter    users_interfaces.AuditLogWriter
	shareClaimer      users_interfaces.ShareClaimer
}

func (s *UserService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *UserService) SetShareClaimer(claimer users_interfaces.ShareClaimer) {
	s.shareClaimer = claimer
}

func (s *UserService) SignUp(request *users_dto.SignUpRequestDTO) error {
	email := strings.ToLower(request.Email)

	existingUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil && existingUser.Status != users_enums.UserStatusInvited {
		return errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashedPasswordStr := string(hashedPassword)

	// An invited user completes registration by setting a password
	if existingUser != nil && existingUser.Status == users_enums.UserStatusInvited {
		if err := s.userRepository.UpdateUserPassword(existingUser.ID, hashedPasswordStr); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}

		if err := s.userRepository.UpdateUserStatus(existingUser.ID, users_enums.UserStatusActive); err != nil {
			return fmt.Errorf("failed to activate user: %w", err)
		}

		name := request.Name
		if err := s.userRepository.UpdateUserInfo(existingUser.ID, &name, nil, nil); err != nil {
			return fmt.Errorf("failed to update name: %w", err)
		}

		s.claimPendingShares(existingUser.ID, email)

		s.auditLogWriter.WriteAuditLog(
			fmt.Sprintf("Invited user completed registration: %s", existingUser.Email),
			&existingUser.ID,
			nil,
		)

		return nil
	}

	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.IsAllowExternalRegistrations {
		return errors.New("external registration is disabled")
	}

	user := &users_models.User{
		ID:                   uuid.New(),
		Email:                email,
		Name:                 request.Name,
		HashedPassword:       &hashedPasswordStr,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleMember,
		Status:               users_enums.UserStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(user); err != nil {
		if storage.IsUniqueViolation(err, "users_email_key") {
			return errors.New("user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.claimPendingShares(user.ID, email)

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User registered with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return nil
}

func (s *UserService) SignIn(
	request *users_dto.SignInRequestDTO,
) (*users_dto.SignInResponseDTO, error) {
	user, err := s.userRepository.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		return nil, errors.New("user with this email does not exist")
	}

	if user.Status == users_enums.UserStatusInvited {
		return nil, errors.New("user account has not completed sign up yet")
	}

	if user.Status != users_enums.UserStatusActive {
		return nil, errors.New("user account is deactivated")
	}

	if !user.HasPassword() {
		return nil, errors.New("password sign-in is not set up for this account")
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(request.Password))
	if err != nil {
		return nil, errors.New("password is incorrect")
	}

	response, err := s.CreateSessionWithToken(user)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User signed in with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return response, nil
}

// CreateSessionWithToken opens a new session row for the user and
// returns a signed token referencing it. Existing sessions stay valid,
// one per device.
func (s *UserService) CreateSessionWithToken(
	user *users_models.User,
) (*users_dto.SignInResponseDTO, error) {
	session := &users_models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL()),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessionRepository.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	secretKey, err := s.secretKeyService.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"sid":  session.ID.String(),
		"exp":  session.ExpiresAt.Unix(),
		"iat":  time.Now().UTC().Unix(),
		"role": string(user.Role),
	})

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &users_dto.SignInResponseDTO{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		Token:     tokenString,
	}, nil
}

// GetUserFromToken validates the token signature and resolves the
// referenced session. A deleted or expired session row invalidates the
// token even when the signature still verifies.
func (s *UserService) GetUserFromToken(
	token string,
) (*users_models.User, uuid.UUID, error) {
	secretKey, err := s.secretKeyService.GetSecretKey()
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, uuid.Nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, uuid.Nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, uuid.Nil, errors.New("invalid token claims")
	}

	sessionIDStr, ok := claims["sid"].(string)
	if !ok {
		return nil, uuid.Nil, errors.New("invalid token claims: missing session")
	}

	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		return nil, uuid.Nil, errors.New("invalid token claims: missing session")
	}

	session, err := s.sessionRepository.GetSessionByID(sessionID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session == nil || session.UserID != userID || session.IsExpired() {
		return nil, uuid.Nil, errors.New("session has been revoked or expired")
	}

	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if !user.IsActiveUser() {
		return nil, uuid.Nil, errors.New("user account is deactivated")
	}

	return user, sessionID, nil
}

func (s *UserService) SignOut(sessionID uuid.UUID) error {
	return s.sessionRepository.DeleteSession(sessionID)
}

func (s *UserService) ListSessions(
	user *users_models.User,
	currentSessionID uuid.UUID,
) (*users_dto.ListSessionsResponseDTO, error) {
	sessions, err := s.sessionRepository.GetSessionsByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	response := &users_dto.ListSessionsResponseDTO{
		Sessions: make([]users_dto.SessionResponseDTO, 0, len(sessions)),
	}

	for _, session := range sessions {
		response.Sessions = append(response.Sessions, users_dto.SessionResponseDTO{
			ID:        session.ID,
			IsCurrent: session.ID == currentSessionID,
			ExpiresAt: session.ExpiresAt,
			CreatedAt: session.CreatedAt,
		})
	}

	return response, nil
}

// RevokeOtherSessions signs the user out everywhere except the device
// making the call. The current session id comes from the validated
// token, so it is never swept up in the revocation.
func (s *UserService) RevokeOtherSessions(
	user *users_models.User,
	currentSessionID uuid.UUID,
) (*users_dto.RevokeSessionsResponseDTO, error) {
	revoked, err := s.sessionRepository.DeleteOtherSessions(user.ID, currentSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Revoked %d other sessions", revoked),
		&user.ID,
		nil,
	)

	return &users_dto.RevokeSessionsResponseDTO{RevokedCount: revoked}, nil
}

func (s *UserService) ChangeUserPassword(userID uuid.UUID, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// all devices must sign in again with the new password
	sessions, err := s.sessionRepository.GetSessionsByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, session := range sessions {
		if err := s.sessionRepository.DeleteSession(session.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	s.auditLogWriter.WriteAuditLog("Password changed", &userID, nil)

	return nil
}

// ChangeUserPasswordByEmail backs the --new-password CLI flag for
// operators locked out of the admin account.
func (s *UserService) ChangeUserPasswordByEmail(email string, newPassword string) error {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return errors.New("user not found")
	}

	return s.ChangeUserPassword(user.ID, newPassword)
}

func (s *UserService) InviteUser(
	request *users_dto.InviteUserRequestDTO,
	invitedBy *users_models.User,
) (*users_dto.InviteUserResponseDTO, error) {
	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if !invitedBy.CanInviteUsers(settings) {
		return nil, errors.New("insufficient permissions to invite users")
	}

	email := strings.ToLower(request.Email)

	existingUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	user := &users_models.User{
		ID:                   uuid.New(),
		Email:                email,
		Name:                 "User",
		HashedPassword:       nil,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleMember,
		Status:               users_enums.UserStatusInvited,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(user); err != nil {
		if storage.IsUniqueViolation(err, "users_email_key") {
			return nil, errors.New("user with this email already exists")
		}
		return nil, fmt.Errorf("failed to create invited user: %w", err)
	}

	message := fmt.Sprintf("User invited: %s", email)
	if request.IntendedWorkspaceID != nil {
		message += fmt.Sprintf(" for workspace %s", request.IntendedWorkspaceID.String())
	}
	s.auditLogWriter.WriteAuditLog(message, &invitedBy.ID, request.IntendedWorkspaceID)

	return &users_dto.InviteUserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *UserService) UpdateUserInfo(
	userID uuid.UUID,
	request *users_dto.UpdateUserInfoRequestDTO,
) error {
	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.Email == "admin" && request.Email != nil && *request.Email != user.Email {
		return errors.New("admin email cannot be changed")
	}

	if request.Email != nil && *request.Email != user.Email {
		existingUser, err := s.userRepository.GetUserByEmail(*request.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existingUser != nil {
			return errors.New("email is already taken by another user")
		}
	}

	if err := s.userRepository.UpdateUserInfo(userID, request.Name, request.Email, request.Image); err != nil {
		return fmt.Errorf("failed to update user info: %w", err)
	}

	s.auditLogWriter.WriteAuditLog("User info updated", &userID, nil)
	return nil
}

func (s *UserService) GetCurrentUserProfile(
	user *users_models.User,
) *users_dto.UserProfileResponseDTO {
	return &users_dto.UserProfileResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		Role:      user.Role,
		IsActive:  user.IsActiveUser(),
		CreatedAt: user.CreatedAt,
	}
}

func (s *UserService) CreateInitialAdmin() error {
	return s.userRepository.CreateInitialAdmin()
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	return s.userRepository.GetUserByID(userID)
}

func (s *UserService) GetUserByEmail(email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(email)
}

func (s *UserService) claimPendingShares(userID uuid.UUID, email string) {
	if s.shareClaimer == nil {
		return
	}

	if err := s.shareClaimer.ClaimSharesForUser(userID, email); err != nil {
		log.Error("Failed to claim pending shares", "error", err, "email", email)
	}
}

func sessionTTL() time.Duration {
	return time.Duration(config.GetEnv().SessionTTLDays) * 24 * time.Hour
}

func (s *UserService) HandleGitHubOAuth(
	code, redirectUri string,
) (*users_dto.OAuthCallbackResponseDTO, error) {
	return s.handleGitHubOAuthWithEndpoint(
		code,
		redirectUri,
		github.Endpoint,
		"https://api.github.com/user",
	)
}

func (s *UserService) handleGitHubOAuthWithEndpoint(
	code, redirectUri string,
	endpoint oauth2.Endpoint,
	userAPIURL string,
) (*users_dto.OAuthCallbackResponseDTO, error) {
	env := config.GetEnv()

	oauthConfig := &oauth2.Config{
		ClientID:     env.GitHubClientID,
		ClientSecret: env.GitHubClientSecret,
		RedirectURL:  redirectUri,
		Endpoint:     endpoint,
		Scopes:       []string{"user:email"},
	}

	token, err := oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := oauthConfig.Client(context.Background(), token)
	resp, err := client.Get(userAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var githubUser struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}

	if err := json.Unmarshal(body, &githubUser); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	if githubUser.Email == "" {
		return nil, errors.New("github account has no public email")
	}

	name := githubUser.Name
	if name == "" {
		name = githubUser.Login
	}

	var image *string
	if githubUser.AvatarURL != "" {
		image = &githubUser.AvatarURL
	}

	oauthID := fmt.Sprintf("%d", githubUser.ID)
	return s.getOrCreateUserFromOAuth(oauthID, githubUser.Email, name, image, "github")
}

func (s *UserService) HandleGoogleOAuth(
	code, redirectUri string,
) (*users_dto.OAuthCallbackResponseDTO, error) {
	return s.handleGoogleOAuthWithEndpoint(
		code,
		redirectUri,
		google.Endpoint,
		"https://www.googleapis.com/oauth2/v2/userinfo",
	)
}

func (s *UserService) handleGoogleOAuthWithEndpoint(
	code, redirectUri string,
	endpoint oauth2.Endpoint,
	userAPIURL string,
) (*users_dto.OAuthCallbackResponseDTO, error) {
	env := config.GetEnv()

	oauthConfig := &oauth2.Config{
		ClientID:     env.GoogleClientID,
		ClientSecret: env.GoogleClientSecret,
		RedirectURL:  redirectUri,
		Endpoint:     endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
	}

	token, err := oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := oauthConfig.Client(context.Background(), token)
	resp, err := client.Get(userAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}

	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	if googleUser.Email == "" {
		return nil, errors.New("google account has no email")
	}

	name := googleUser.Name
	if name == "" {
		name = "User"
	}

	var image *string
	if googleUser.Picture != "" {
		image = &googleUser.Picture
	}

	return s.getOrCreateUserFromOAuth(googleUser.ID, googleUser.Email, name, image, "google")
}

func (s *UserService) getOrCreateUserFromOAuth(
	oauthID, email, name string,
	image *string,
	provider string,
) (*users_dto.OAuthCallbackResponseDTO, error) {
	email = strings.ToLower(email)

	var existingUser *users_models.User
	var err error

	if provider == "github" {
		existingUser, err = s.userRepository.GetUserByGitHubOAuthID(oauthID)
	} else {
		existingUser, err = s.userRepository.GetUserByGoogleOAuthID(oauthID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to check OAuth ID: %w", err)
	}

	if existingUser != nil {
		tokenResponse, err := s.CreateSessionWithToken(existingUser)
		if err != nil {
			return nil, err
		}

		s.auditLogWriter.WriteAuditLog(
			fmt.Sprintf("User signed in via %s", provider),
			&existingUser.ID,
			nil,
		)

		return &users_dto.OAuthCallbackResponseDTO{
			UserID:    existingUser.ID,
			Email:     existingUser.Email,
			Token:     tokenResponse.Token,
			IsNewUser: false,
		}, nil
	}

	userByEmail, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if userByEmail != nil {
		if userByEmail.Status == users_enums.UserStatusInvited {
			if err := s.userRepository.UpdateUserStatus(userByEmail.ID, users_enums.UserStatusActive); err != nil {
				return nil, fmt.Errorf("failed to activate user: %w", err)
			}

			if err := s.userRepository.UpdateUserInfo(userByEmail.ID, &name, nil, image); err != nil {
				return nil, fmt.Errorf("failed to update name: %w", err)
			}

			s.claimPendingShares(userByEmail.ID, email)
		}

		oauthColumn := "github_oauth_id"
		if provider == "google" {
			oauthColumn = "google_oauth_id"
		}

		if err := s.userRepository.LinkOAuthID(userByEmail.ID, oauthColumn, oauthID); err != nil {
			return nil, fmt.Errorf("failed to link OAuth ID: %w", err)
		}

		user, err := s.userRepository.GetUserByID(userByEmail.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get updated user: %w", err)
		}

		tokenResponse, err := s.CreateSessionWithToken(user)
		if err != nil {
			return nil, err
		}

		s.auditLogWriter.WriteAuditLog(
			fmt.Sprintf("%s OAuth linked to existing account", provider),
			&user.ID,
			nil,
		)

		return &users_dto.OAuthCallbackResponseDTO{
			UserID:    user.ID,
			Email:     user.Email,
			Token:     tokenResponse.Token,
			IsNewUser: false,
		}, nil
	}

	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.IsAllowExternalRegistrations {
		return nil, errors.New("external registration is disabled")
	}

	var githubOAuthID *string
	var googleOAuthID *string
	if provider == "github" {
		githubOAuthID = &oauthID
	} else {
		googleOAuthID = &oauthID
	}

	newUser := &users_models.User{
		ID:                   uuid.New(),
		Email:                email,
		Name:                 name,
		Image:                image,
		HashedPassword:       nil,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleMember,
		Status:               users_enums.UserStatusActive,
		GitHubOAuthID:        githubOAuthID,
		GoogleOAuthID:        googleOAuthID,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.claimPendingShares(newUser.ID, email)

	tokenResponse, err := s.CreateSessionWithToken(newUser)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User registered via %s: %s", provider, email),
		&newUser.ID,
		nil,
	)

	return &users_dto.OAuthCallbackResponseDTO{
		UserID:    newUser.ID,
		Email:     newUser.Email,
		Token:     tokenResponse.Token,
		IsNewUser: true,
	}, nil
}
