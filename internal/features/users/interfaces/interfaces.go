package users_interfaces

import (
	"github.com/google/uuid"
)

type AuditLogWriter interface {
	WriteAuditLog(message string, userID *uuid.UUID, workspaceID *uuid.UUID)
}

// ShareClaimer attaches pending email-keyed share grants to a user once
// the email resolves to a registered account.
type ShareClaimer interface {
	ClaimSharesForUser(userID uuid.UUID, email string) error
}
