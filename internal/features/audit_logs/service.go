package audit_logs

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	logger             *slog.Logger
}

// WriteAuditLog appends an entry to the trail. Failures are logged and
// swallowed so auditing never blocks the operation being audited.
func (s *AuditLogService) WriteAuditLog(
	message string,
	userID *uuid.UUID,
	workspaceID *uuid.UUID,
) {
	auditLog := &AuditLog{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Message:     message,
	}

	if err := s.auditLogRepository.Save(auditLog); err != nil {
		s.logger.Error("Failed to write audit log", "error", err, "message", message)
	}
}

func (s *AuditLogService) GetWorkspaceAuditLogs(
	workspaceID uuid.UUID,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := request.Offset
	if offset < 0 {
		offset = 0
	}

	logs, total, err := s.auditLogRepository.GetWorkspaceAuditLogs(
		workspaceID,
		limit,
		offset,
		request.BeforeDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return &GetAuditLogsResponse{
		AuditLogs: logs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// OnBeforeWorkspaceDeletion removes the workspace's audit trail.
func (s *AuditLogService) OnBeforeWorkspaceDeletion(workspaceID uuid.UUID) error {
	return s.auditLogRepository.DeleteByWorkspaceID(workspaceID)
}
