package inbox

import (
	"net/http"

	users_middleware "taskdeck-backend/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InboxController struct {
	inboxService *InboxService
}

func (c *InboxController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/workspaces/:workspaceId/inbox", c.GetInbox)
}

// GetInbox godoc
// @Summary Get the triage inbox
// @Description Get active items, snoozed items and recent notifications
// @Description for the current user in one workspace
// @Tags inbox
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Security BearerAuth
// @Success 200 {object} InboxResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /workspaces/{workspaceId}/inbox [get]
func (c *InboxController) GetInbox(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Param("workspaceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	inboxResponse, err := c.inboxService.GetInbox(ctx.Request.Context(), user, workspaceID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inbox"})
		return
	}

	ctx.JSON(http.StatusOK, inboxResponse)
}
