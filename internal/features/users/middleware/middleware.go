package users_middleware

import (
	"net/http"
	"strings"

	users_models "taskdeck-backend/internal/features/users/models"
	users_services "taskdeck-backend/internal/features/users/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userContextKey    = "currentUser"
	sessionContextKey = "currentSessionID"
)

// AuthMiddleware validates the bearer token and places the resolved
// user and session id into the request context.
func AuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Authorization header is required"},
			)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Bearer token is required"},
			)
			return
		}

		user, sessionID, err := userService.GetUserFromToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Invalid or expired token"},
			)
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Set(sessionContextKey, sessionID)
		ctx.Next()
	}
}

func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	value, exists := ctx.Get(userContextKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*users_models.User)
	return user, ok
}

func GetSessionIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	value, exists := ctx.Get(sessionContextKey)
	if !exists {
		return uuid.Nil, false
	}

	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}
