package tasks

import (
	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/audit_logs"
	"taskdeck-backend/internal/features/notifications"
	"taskdeck-backend/internal/features/shares"
	workspaces_services "taskdeck-backend/internal/features/workspaces/services"
	"taskdeck-backend/internal/util/logger"
)

var taskRepository = &TaskRepository{}
var taskService = &TaskService{
	taskRepository:      taskRepository,
	workspaceService:    workspaces_services.GetWorkspaceService(),
	accessService:       access.GetAccessService(),
	shareService:        shares.GetShareService(),
	notificationService: notifications.GetNotificationService(),
	auditLogService:     audit_logs.GetAuditLogService(),
	logger:              logger.GetLogger(),
}
var taskController = &TaskController{
	taskService,
}

func GetTaskService() *TaskService {
	return taskService
}

func GetTaskRepository() *TaskRepository {
	return taskRepository
}

func GetTaskController() *TaskController {
	return taskController
}

func SetupDependencies() {
	access.GetAccessService().SetTaskSource(taskService)
	shares.GetShareService().SetTaskSource(taskService)
	workspaces_services.GetWorkspaceService().AddWorkspaceDeletionListener(taskService)
}
