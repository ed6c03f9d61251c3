package notifications

import (
	"errors"
	"net/http"

	users_middleware "taskdeck-backend/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationController struct {
	notificationService *NotificationService
}

func (c *NotificationController) RegisterRoutes(router *gin.RouterGroup) {
	notificationRoutes := router.Group("/notifications")
	{
		notificationRoutes.GET("", c.ListNotifications)
		notificationRoutes.GET("/unread-count", c.GetUnreadCount)
		notificationRoutes.POST("/:notificationId/read", c.MarkRead)
		notificationRoutes.POST("/read-all", c.MarkAllRead)
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description List the current user's notifications, newest first
// @Tags notifications
// @Produce json
// @Param workspaceId query string false "Filter by workspace ID"
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Maximum number of notifications"
// @Security BearerAuth
// @Success 200 {array} Notification
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request ListNotificationsRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	workspaceID, err := parseOptionalWorkspaceID(request.WorkspaceID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	notifications, err := c.notificationService.ListNotifications(
		user,
		workspaceID,
		request.UnreadOnly,
		request.Limit,
	)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags notifications
// @Produce json
// @Param workspaceId query string false "Filter by workspace ID"
// @Security BearerAuth
// @Success 200 {object} UnreadCountResponse
// @Failure 401 {object} map[string]string
// @Router /notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := parseOptionalWorkspaceID(queryParam(ctx, "workspaceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	count, err := c.notificationService.GetUnreadCount(user, workspaceID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	ctx.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Description Mark one of the current user's notifications as read. Marking
// @Description an already-read notification succeeds; an unknown notification
// @Description is reported as a failure in the response body.
// @Tags notifications
// @Produce json
// @Param notificationId path string true "Notification ID"
// @Security BearerAuth
// @Success 200 {object} MarkReadResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /notifications/{notificationId}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := uuid.Parse(ctx.Param("notificationId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := c.notificationService.MarkRead(user, notificationID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			ctx.JSON(http.StatusOK, MarkReadResponse{Success: false, Error: err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}

	ctx.JSON(http.StatusOK, MarkReadResponse{Success: true})
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Description Mark every unread notification of the current user as read
// @Tags notifications
// @Produce json
// @Param workspaceId query string false "Limit to one workspace"
// @Security BearerAuth
// @Success 200 {object} MarkAllReadResponse
// @Failure 401 {object} map[string]string
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := parseOptionalWorkspaceID(queryParam(ctx, "workspaceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	count, err := c.notificationService.MarkAllRead(user, workspaceID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	ctx.JSON(http.StatusOK, MarkAllReadResponse{MarkedCount: count})
}

func parseOptionalWorkspaceID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func queryParam(ctx *gin.Context, name string) *string {
	if value, exists := ctx.GetQuery(name); exists {
		return &value
	}
	return nil
}
