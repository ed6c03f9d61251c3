package shares

import (
	"errors"
	"net/http"

	users_middleware "taskdeck-backend/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShareController struct {
	shareService *ShareService
}

func (c *ShareController) RegisterRoutes(router *gin.RouterGroup) {
	taskShareRoutes := router.Group("/tasks/:taskId/shares")
	{
		taskShareRoutes.GET("", c.ListTaskShares)
		taskShareRoutes.POST("", c.UpsertTaskShare)
		taskShareRoutes.DELETE("", c.RemoveTaskShare)
	}

	noteShareRoutes := router.Group("/notes/:noteId/shares")
	{
		noteShareRoutes.GET("", c.ListNoteShares)
		noteShareRoutes.POST("", c.UpsertNoteShare)
		noteShareRoutes.DELETE("", c.RemoveNoteShare)
	}
}

// UpsertTaskShare godoc
// @Summary Share a task
// @Description Grant or update access to a task for an email address
// @Tags shares
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body UpsertShareRequest true "Share data"
// @Security BearerAuth
// @Success 200 {object} TaskShare
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{taskId}/shares [post]
func (c *ShareController) UpsertTaskShare(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(ctx.Param("taskId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var request UpsertShareRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	share, err := c.shareService.UpsertTaskShare(user, taskID, &request)
	if err != nil {
		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, share)
}

// ListTaskShares godoc
// @Summary List task shares
// @Description List all share grants on a task, newest first
// @Tags shares
// @Produce json
// @Param taskId path string true "Task ID"
// @Security BearerAuth
// @Success 200 {array} TaskShare
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tasks/{taskId}/shares [get]
func (c *ShareController) ListTaskShares(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(ctx.Param("taskId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	sharesList, err := c.shareService.ListTaskShares(user, taskID)
	if err != nil {
		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sharesList)
}

// RemoveTaskShare godoc
// @Summary Revoke a task share
// @Description Remove the share grant for an email address. Removing a
// @Description grant that does not exist is reported as a failure in the
// @Description response body.
// @Tags shares
// @Produce json
// @Param taskId path string true "Task ID"
// @Param email query string true "Invitee email"
// @Security BearerAuth
// @Success 200 {object} RemoveShareResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tasks/{taskId}/shares [delete]
func (c *ShareController) RemoveTaskShare(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := uuid.Parse(ctx.Param("taskId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	email := ctx.Query("email")
	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := c.shareService.RemoveTaskShare(user, taskID, email); err != nil {
		if errors.Is(err, ErrShareNotFound) {
			ctx.JSON(http.StatusOK, RemoveShareResponse{Success: false, Error: err.Error()})
			return
		}

		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, RemoveShareResponse{Success: true})
}

// UpsertNoteShare godoc
// @Summary Share a note
// @Description Grant or update access to a note for an email address
// @Tags shares
// @Accept json
// @Produce json
// @Param noteId path string true "Note ID"
// @Param request body UpsertShareRequest true "Share data"
// @Security BearerAuth
// @Success 200 {object} NoteShare
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId}/shares [post]
func (c *ShareController) UpsertNoteShare(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	noteID, err := uuid.Parse(ctx.Param("noteId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	var request UpsertShareRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	share, err := c.shareService.UpsertNoteShare(user, noteID, &request)
	if err != nil {
		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, share)
}

// ListNoteShares godoc
// @Summary List note shares
// @Tags shares
// @Produce json
// @Param noteId path string true "Note ID"
// @Security BearerAuth
// @Success 200 {array} NoteShare
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /notes/{noteId}/shares [get]
func (c *ShareController) ListNoteShares(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	noteID, err := uuid.Parse(ctx.Param("noteId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	sharesList, err := c.shareService.ListNoteShares(user, noteID)
	if err != nil {
		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sharesList)
}

// RemoveNoteShare godoc
// @Summary Revoke a note share
// @Tags shares
// @Produce json
// @Param noteId path string true "Note ID"
// @Param email query string true "Invitee email"
// @Security BearerAuth
// @Success 200 {object} RemoveShareResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /notes/{noteId}/shares [delete]
func (c *ShareController) RemoveNoteShare(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	noteID, err := uuid.Parse(ctx.Param("noteId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	email := ctx.Query("email")
	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := c.shareService.RemoveNoteShare(user, noteID, email); err != nil {
		if errors.Is(err, ErrShareNotFound) {
			ctx.JSON(http.StatusOK, RemoveShareResponse{Success: false, Error: err.Error()})
			return
		}

		respondShareError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, RemoveShareResponse{Success: true})
}

func respondShareError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSharedItemNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientPermissions):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case err.Error() == "invalid email address":
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
