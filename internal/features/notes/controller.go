package notes

import (
	"errors"
	"net/http"
	"strconv"

	users_middleware "taskdeck-backend/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoteController struct {
	noteService *NoteService
}

func (c *NoteController) RegisterRoutes(router *gin.RouterGroup) {
	workspaceNoteRoutes := router.Group("/workspaces/:workspaceId/notes")
	{
		workspaceNoteRoutes.GET("", c.ListRoots)
		workspaceNoteRoutes.POST("", c.CreateNote)
		workspaceNoteRoutes.GET("/trash", c.ListTrash)
		workspaceNoteRoutes.DELETE("/trash", c.EmptyTrash)
	}

	noteRoutes := router.Group("/notes")
	{
		noteRoutes.GET("/:noteId", c.GetNote)
		noteRoutes.PUT("/:noteId", c.UpdateNote)
		noteRoutes.GET("/:noteId/children", c.ListChildren)
		noteRoutes.POST("/:noteId/move", c.MoveNote)
		noteRoutes.DELETE("/:noteId", c.TrashNote)
		noteRoutes.POST("/:noteId/restore", c.RestoreNote)
		noteRoutes.DELETE("/:noteId/permanent", c.PermanentlyDeleteNote)
	}
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param request body CreateNoteRequest true "Note data"
// @Security BearerAuth
// @Success 201 {object} Note
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /workspaces/{workspaceId}/notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
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

	var request CreateNoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	note, err := c.noteService.CreateNote(user, workspaceID, &request)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, note)
}

// GetNote godoc
// @Summary Get a note
// @Description Get a note together with the caller's resolved access.
// @Description Pass readOnly=true to force view mode regardless of rights.
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID"
// @Param readOnly query bool false "Force read-only access"
// @Security BearerAuth
// @Success 200 {object} NoteWithAccessResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
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

	forceReadOnly, _ := strconv.ParseBool(ctx.DefaultQuery("readOnly", "false"))

	response, err := c.noteService.GetNote(user, noteID, forceReadOnly)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateNote godoc
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Param noteId path string true "Note ID"
// @Param request body UpdateNoteRequest true "Note data"
// @Security BearerAuth
// @Success 200 {object} Note
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId} [put]
func (c *NoteController) UpdateNote(ctx *gin.Context) {
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

	var request UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	note, err := c.noteService.UpdateNote(user, noteID, &request)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, note)
}

// MoveNote godoc
// @Summary Move a note
// @Description Reparent a note. A null parent makes the note a root. A
// @Description note cannot be moved under itself or one of its descendants.
// @Tags notes
// @Accept json
// @Produce json
// @Param noteId path string true "Note ID"
// @Param request body MoveNoteRequest true "New parent"
// @Security BearerAuth
// @Success 200 {object} Note
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId}/move [post]
func (c *NoteController) MoveNote(ctx *gin.Context) {
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

	var request MoveNoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	note, err := c.noteService.MoveNote(user, noteID, &request)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, note)
}

// ListChildren godoc
// @Summary List child notes
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID"
// @Security BearerAuth
// @Success 200 {array} Note
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId}/children [get]
func (c *NoteController) ListChildren(ctx *gin.Context) {
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

	children, err := c.noteService.ListChildren(user, noteID)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, children)
}

// ListRoots godoc
// @Summary List root notes
// @Tags notes
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Security BearerAuth
// @Success 200 {array} Note
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /workspaces/{workspaceId}/notes [get]
func (c *NoteController) ListRoots(ctx *gin.Context) {
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

	roots, err := c.noteService.ListRoots(user, workspaceID)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, roots)
}

// TrashNote godoc
// @Summary Move a note to the trash
// @Description Soft-delete the note and its whole subtree. Trashed notes
// @Description can be restored until the retention window expires.
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId} [delete]
func (c *NoteController) TrashNote(ctx *gin.Context) {
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

	if err := c.noteService.TrashNote(user, noteID); err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Note moved to trash"})
}

// RestoreNote godoc
// @Summary Restore a note from the trash
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID"
// @Security BearerAuth
// @Success 200 {object} Note
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId}/restore [post]
func (c *NoteController) RestoreNote(ctx *gin.Context) {
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

	note, err := c.noteService.RestoreNote(user, noteID)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, note)
}

// ListTrash godoc
// @Summary List trashed notes
// @Tags notes
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Security BearerAuth
// @Success 200 {array} Note
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /workspaces/{workspaceId}/notes/trash [get]
func (c *NoteController) ListTrash(ctx *gin.Context) {
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

	trash, err := c.noteService.ListTrash(user, workspaceID)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, trash)
}

// PermanentlyDeleteNote godoc
// @Summary Permanently delete a trashed note
// @Tags notes
// @Produce json
// @Param noteId path string true "Note ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notes/{noteId}/permanent [delete]
func (c *NoteController) PermanentlyDeleteNote(ctx *gin.Context) {
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

	if err := c.noteService.PermanentlyDeleteNote(user, noteID); err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Note permanently deleted"})
}

// EmptyTrash godoc
// @Summary Empty the workspace trash
// @Tags notes
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Security BearerAuth
// @Success 200 {object} EmptyTrashResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /workspaces/{workspaceId}/notes/trash [delete]
func (c *NoteController) EmptyTrash(ctx *gin.Context) {
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

	purged, err := c.noteService.EmptyTrash(user, workspaceID)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, EmptyTrashResponse{PurgedCount: purged})
}

func respondNoteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAccessDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoteInTrash),
		errors.Is(err, ErrInvalidParent),
		err.Error() == "note is not in the trash":
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
