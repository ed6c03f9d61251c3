package audit_logs

import (
	"time"

	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
)

type AuditLogRepository struct{}

func (r *AuditLogRepository) Save(auditLog *AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	if auditLog.CreatedAt.IsZero() {
		auditLog.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(auditLog).Error
}

func (r *AuditLogRepository) GetWorkspaceAuditLogs(
	workspaceID uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLogDTO, int64, error) {
	var logs []*AuditLogDTO
	var total int64

	countQuery := storage.GetDb().
		Model(&AuditLog{}).
		Where("workspace_id = ?", workspaceID)
	if beforeDate != nil {
		countQuery = countQuery.Where("created_at < ?", *beforeDate)
	}

	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dataQuery := storage.GetDb().
		Table("audit_logs al").
		Select(`al.id, al.user_id, al.workspace_id, al.message, al.created_at,
			u.email as user_email, u.name as user_name, w.name as workspace_name`).
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Joins("LEFT JOIN workspaces w ON al.workspace_id = w.id").
		Where("al.workspace_id = ?", workspaceID).
		Order("al.created_at DESC").
		Limit(limit).
		Offset(offset)

	if beforeDate != nil {
		dataQuery = dataQuery.Where("al.created_at < ?", *beforeDate)
	}

	if err := dataQuery.Scan(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *AuditLogRepository) DeleteByWorkspaceID(workspaceID uuid.UUID) error {
	return storage.GetDb().
		Where("workspace_id = ?", workspaceID).
		Delete(&AuditLog{}).Error
}
