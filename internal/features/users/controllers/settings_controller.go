package users_controllers

import (
	"net/http"

	users_enums "taskdeck-backend/internal/features/users/enums"
	users_middleware "taskdeck-backend/internal/features/users/middleware"
	users_models "taskdeck-backend/internal/features/users/models"
	users_services "taskdeck-backend/internal/features/users/services"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsService *users_services.SettingsService
}

func (c *SettingsController) RegisterRoutes(router *gin.RouterGroup) {
	settingsRoutes := router.Group("/settings")

	settingsRoutes.GET("", c.GetSettings)
	settingsRoutes.PUT("", c.UpdateSettings)
}

// GetSettings
// @Summary Get instance settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users_models.UsersSettings
// @Failure 401 {object} map[string]string
// @Router /settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	_, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	settings, err := c.settingsService.GetSettings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// UpdateSettings
// @Summary Update instance settings (admin only)
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_models.UsersSettings true "Settings"
// @Success 200 {object} users_models.UsersSettings
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /settings [put]
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if user.Role != users_enums.UserRoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can update settings"})
		return
	}

	var settings users_models.UsersSettings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := c.settingsService.UpdateSettings(&settings); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, settings)
}
