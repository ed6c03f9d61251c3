package access

import (
	"taskdeck-backend/internal/features/shares"
	users_enums "taskdeck-backend/internal/features/users/enums"
)

// Decision is the outcome of resolving a user's access to a single item.
type Decision struct {
	CanView bool `json:"canView"`
	CanEdit bool `json:"canEdit"`
}

// ResolveInput carries everything the resolver needs, already loaded.
type ResolveInput struct {
	// Role is the user's workspace role, nil when not a member.
	Role *users_enums.WorkspaceRole
	// IsCreator is true when the user created the item.
	IsCreator bool
	// IsAssignee is true when the user is the task's assignee. Always
	// false for notes.
	IsAssignee bool
	// SharePermission is the explicit email-keyed grant, nil when none.
	SharePermission *shares.SharePermission
	// ForceReadOnly drops edit rights regardless of the clauses below.
	// It never affects visibility.
	ForceReadOnly bool
}

// Resolve applies the precedence order: explicit share, then
// ownership/assignment, then workspace role. Visibility is the OR of all
// clauses; edit rights come from the first matching clause, except that
// ownership always dominates a weaker share grant. GUEST members can
// view but never edit.
func Resolve(in ResolveInput) Decision {
	canView := in.SharePermission != nil ||
		in.IsCreator ||
		in.IsAssignee ||
		in.Role != nil

	if !canView {
		return Decision{}
	}

	var canEdit bool
	switch {
	case in.IsCreator || in.IsAssignee:
		canEdit = true
	case in.SharePermission != nil:
		canEdit = in.SharePermission.CanEdit()
	case in.Role != nil:
		canEdit = in.Role.CanEditContent()
	}

	if in.ForceReadOnly {
		canEdit = false
	}

	return Decision{CanView: canView, CanEdit: canEdit}
}
