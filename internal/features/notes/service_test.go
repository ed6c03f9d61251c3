package notes

import (
	"sync"
	"testing"
	"time"

	"taskdeck-backend/internal/features/access"
	"taskdeck-backend/internal/features/shares"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_models "taskdeck-backend/internal/features/users/models"
	users_testing "taskdeck-backend/internal/features/users/testing"
	workspaces_models "taskdeck-backend/internal/features/workspaces/models"
	workspaces_repositories "taskdeck-backend/internal/features/workspaces/repositories"
	workspaces_testing "taskdeck-backend/internal/features/workspaces/testing"
	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var setupOnce sync.Once

func setupNoteTestDependencies() {
	setupOnce.Do(func() {
		access.SetupDependencies()
		shares.SetupDependencies()
		SetupDependencies()
	})
}

func createNoteTestWorkspace(
	t *testing.T,
	owner *users_models.User,
) *workspaces_models.Workspace {
	t.Helper()

	workspace, err := workspaces_testing.CreateTestWorkspaceDirect("Note Test Workspace", owner.ID)
	assert.NoError(t, err)

	return workspace
}

func createNote(
	t *testing.T,
	user *users_models.User,
	workspaceID uuid.UUID,
	title string,
	parentID *uuid.UUID,
) *Note {
	t.Helper()

	note, err := GetNoteService().CreateNote(user, workspaceID, &CreateNoteRequest{
		Title:    title,
		Content:  "content of " + title,
		ParentID: parentID,
	})
	assert.NoError(t, err)

	return note
}

func Test_MoveNote_RejectsSelfAndDescendantParents(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	root := createNote(t, owner, workspace.ID, "Root", nil)
	child := createNote(t, owner, workspace.ID, "Child", &root.ID)
	grandchild := createNote(t, owner, workspace.ID, "Grandchild", &child.ID)

	_, err := GetNoteService().MoveNote(owner, root.ID, &MoveNoteRequest{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = GetNoteService().MoveNote(owner, root.ID, &MoveNoteRequest{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)

	// Reparenting within the tree but outside the subtree is fine.
	moved, err := GetNoteService().MoveNote(owner, grandchild.ID, &MoveNoteRequest{
		ParentID: &root.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, &root.ID, moved.ParentID)

	// And nil makes it a root again.
	moved, err = GetNoteService().MoveNote(owner, grandchild.ID, &MoveNoteRequest{})
	assert.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func Test_MoveNote_RejectsParentFromAnotherWorkspace(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace1 := createNoteTestWorkspace(t, owner)
	workspace2 := createNoteTestWorkspace(t, owner)

	note := createNote(t, owner, workspace1.ID, "Homeless", nil)
	foreignParent := createNote(t, owner, workspace2.ID, "Foreign", nil)

	_, err := GetNoteService().MoveNote(owner, note.ID, &MoveNoteRequest{
		ParentID: &foreignParent.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func Test_TrashNote_TrashesWholeSubtree(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	root := createNote(t, owner, workspace.ID, "Trash root", nil)
	child := createNote(t, owner, workspace.ID, "Trash child", &root.ID)
	sibling := createNote(t, owner, workspace.ID, "Survivor", nil)

	assert.NoError(t, GetNoteService().TrashNote(owner, root.ID))

	// Trashed notes disappear from normal reads.
	_, err := GetNoteService().GetNote(owner, root.ID, false)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = GetNoteService().GetNote(owner, child.ID, false)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// Editing a trashed note is refused explicitly.
	_, err = GetNoteService().UpdateNote(owner, child.ID, &UpdateNoteRequest{Title: "New title"})
	assert.ErrorIs(t, err, ErrNoteInTrash)

	trash, err := GetNoteService().ListTrash(owner, workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(trash))

	survivor, err := GetNoteService().GetNote(owner, sibling.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, "Survivor", survivor.Note.Title)
}

func Test_RestoreNote_RestoresSubtree(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	root := createNote(t, owner, workspace.ID, "Restorable", nil)
	child := createNote(t, owner, workspace.ID, "Restorable child", &root.ID)

	assert.NoError(t, GetNoteService().TrashNote(owner, root.ID))

	restored, err := GetNoteService().RestoreNote(owner, root.ID)
	assert.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	childBack, err := GetNoteService().GetNote(owner, child.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, &root.ID, childBack.Note.ParentID)
}

func Test_RestoreNote_ReparentsToRootWhenParentStillTrashed(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	parent := createNote(t, owner, workspace.ID, "Trashed parent", nil)
	child := createNote(t, owner, workspace.ID, "Orphaned child", &parent.ID)

	assert.NoError(t, GetNoteService().TrashNote(owner, parent.ID))

	restored, err := GetNoteService().RestoreNote(owner, child.ID)
	assert.NoError(t, err)
	assert.Nil(t, restored.ParentID)

	// The parent is still in the trash.
	_, err = GetNoteService().GetNote(owner, parent.ID, false)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func Test_PermanentlyDeleteNote_PurgesSubtreeAndShares(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	invitee := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	root := createNote(t, owner, workspace.ID, "Purge root", nil)
	child := createNote(t, owner, workspace.ID, "Purge child", &root.ID)

	_, err := shares.GetShareService().UpsertNoteShare(owner, child.ID,
		&shares.UpsertShareRequest{
			Email:      invitee.Email,
			Permission: shares.SharePermissionView,
		})
	assert.NoError(t, err)

	// Live notes cannot be purged directly.
	err = GetNoteService().PermanentlyDeleteNote(owner, root.ID)
	assert.Error(t, err)

	assert.NoError(t, GetNoteService().TrashNote(owner, root.ID))
	assert.NoError(t, GetNoteService().PermanentlyDeleteNote(owner, root.ID))

	trash, err := GetNoteService().ListTrash(owner, workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(trash))

	permission, err := shares.GetShareService().GetNoteSharePermission(
		child.ID, invitee.ID, invitee.Email)
	assert.NoError(t, err)
	assert.Nil(t, permission)
}

func Test_EmptyTrash_RequiresWorkspaceManager(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	member := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	membershipRepo := &workspaces_repositories.MembershipRepository{}
	err := membershipRepo.CreateMembership(&workspaces_models.WorkspaceMembership{
		WorkspaceID: workspace.ID,
		UserID:      member.ID,
		Role:        users_enums.WorkspaceRoleMember,
	})
	assert.NoError(t, err)

	note := createNote(t, owner, workspace.ID, "Trash me", nil)
	assert.NoError(t, GetNoteService().TrashNote(owner, note.ID))

	_, err = GetNoteService().EmptyTrash(member, workspace.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	purged, err := GetNoteService().EmptyTrash(owner, workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func Test_PurgeExpiredTrash_RemovesOnlyExpiredNotes(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	expired := createNote(t, owner, workspace.ID, "Long forgotten", nil)
	fresh := createNote(t, owner, workspace.ID, "Recently trashed", nil)

	assert.NoError(t, GetNoteService().TrashNote(owner, expired.ID))
	assert.NoError(t, GetNoteService().TrashNote(owner, fresh.ID))

	// Age the first note past the retention window.
	longAgo := time.Now().UTC().Add(-GetNoteService().trashRetention - time.Hour)
	err := storage.GetDb().Model(&Note{}).
		Where("id = ?", expired.ID).
		Update("deleted_at", longAgo).Error
	assert.NoError(t, err)

	_, err = GetNoteService().PurgeExpiredTrash()
	assert.NoError(t, err)

	trash, err := GetNoteService().ListTrash(owner, workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(trash))
	assert.Equal(t, "Recently trashed", trash[0].Title)
}

func Test_SharedNote_InTrashIsInvisibleToShareHolder(t *testing.T) {
	setupNoteTestDependencies()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	invitee := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	workspace := createNoteTestWorkspace(t, owner)

	note := createNote(t, owner, workspace.ID, "Shared then trashed", nil)

	_, err := shares.GetShareService().UpsertNoteShare(owner, note.ID,
		&shares.UpsertShareRequest{
			Email:      invitee.Email,
			Permission: shares.SharePermissionEdit,
		})
	assert.NoError(t, err)

	shared, err := GetNoteService().GetNote(invitee, note.ID, false)
	assert.NoError(t, err)
	assert.True(t, shared.Access.CanEdit)

	assert.NoError(t, GetNoteService().TrashNote(owner, note.ID))

	_, err = GetNoteService().GetNote(invitee, note.ID, false)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}
