package notes

import (
	"time"

	"taskdeck-backend/internal/config"
	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/audit_logs"
	"taskdeck-backend/internal/features/shares"
	workspaces_services "taskdeck-backend/internal/features/workspaces/services"
	"taskdeck-backend/internal/util/logger"
)

var noteRepository = &NoteRepository{}
var noteService = &NoteService{
	noteRepository:   noteRepository,
	workspaceService: workspaces_services.GetWorkspaceService(),
	accessService:    access.GetAccessService(),
	shareService:     shares.GetShareService(),
	auditLogService:  audit_logs.GetAuditLogService(),
	trashRetention:   time.Duration(config.GetEnv().TrashRetentionDays) * 24 * time.Hour,
	logger:           logger.GetLogger(),
}
var noteController = &NoteController{
	noteService,
}
var trashBackgroundService = &TrashBackgroundService{
	noteService,
	logger.GetLogger(),
}

func GetNoteService() *NoteService {
	return noteService
}

func GetNoteRepository() *NoteRepository {
	return noteRepository
}

func GetNoteController() *NoteController {
	return noteController
}

func GetTrashBackgroundService() *TrashBackgroundService {
	return trashBackgroundService
}

func SetupDependencies() {
	access.GetAccessService().SetNoteSource(noteService)
	shares.GetShareService().SetNoteSource(noteService)
	workspaces_services.GetWorkspaceService().AddWorkspaceDeletionListener(noteService)
}
