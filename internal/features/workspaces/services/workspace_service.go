package workspaces_services

import (
	"errors"
	"fmt"
	"time"

	audit_logs "taskdeck-backend/internal/features/audit_logs"
	users_enums "taskdeck-backend/internal/features/users/enums"
	users_models "taskdeck-backend/internal/features/users/models"
	users_services "taskdeck-backend/internal/features/users/services"
	workspaces_dto "taskdeck-backend/internal/features/workspaces/dto"
	workspaces_interfaces "taskdeck-backend/internal/features/workspaces/interfaces"
	workspaces_models "taskdeck-backend/internal/features/workspaces/models"
	workspaces_repositories "taskdeck-backend/internal/features/workspaces/repositories"
	"taskdeck-backend/internal/storage"

	"github.com/google/uuid"
)

type WorkspaceService struct {
	workspaceRepository        *workspaces_repositories.WorkspaceRepository
	membershipRepository       *workspaces_repositories.MembershipRepository
	userService                *users_services.UserService
	auditLogService            *audit_logs.AuditLogService
	settingsService            *users_services.SettingsService
	workspaceDeletionListeners []workspaces_interfaces.WorkspaceDeletionListener
}

func (s *WorkspaceService) AddWorkspaceDeletionListener(
	listener workspaces_interfaces.WorkspaceDeletionListener,
) {
	s.workspaceDeletionListeners = append(s.workspaceDeletionListeners, listener)
}

func (s *WorkspaceService) CreateWorkspace(
	request *workspaces_dto.CreateWorkspaceRequestDTO,
	creator *users_models.User,
) (*workspaces_dto.WorkspaceResponseDTO, error) {
	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if !creator.CanCreateWorkspaces(settings) {
		return nil, errors.New("insufficient permissions to create workspaces")
	}

	workspace, err := s.createWorkspaceWithUniqueSlug(request.Name)
	if err != nil {
		return nil, err
	}

	membership := &workspaces_models.WorkspaceMembership{
		UserID:      creator.ID,
		WorkspaceID: workspace.ID,
		Role:        users_enums.WorkspaceRoleOwner,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.membershipRepository.CreateMembership(membership); err != nil {
		return nil, fmt.Errorf("failed to create workspace membership: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Workspace created: %s", workspace.Name),
		&creator.ID,
		&workspace.ID,
	)

	ownerRole := users_enums.WorkspaceRoleOwner
	return &workspaces_dto.WorkspaceResponseDTO{
		ID:        workspace.ID,
		Slug:      workspace.Slug,
		Name:      workspace.Name,
		CreatedAt: workspace.CreatedAt,
		UserRole:  &ownerRole,
	}, nil
}

// createWorkspaceWithUniqueSlug derives a URL-safe slug from the name
// and inserts the workspace, appending a numeric suffix and retrying
// when a concurrent create takes the same slug.
func (s *WorkspaceService) createWorkspaceWithUniqueSlug(
	name string,
) (*workspaces_models.Workspace, error) {
	base := workspaces_models.Slugify(name)

	slug := base
	for suffix := 2; ; suffix++ {
		existing, err := s.workspaceRepository.GetWorkspaceBySlug(slug)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			workspace := &workspaces_models.Workspace{
				ID:        uuid.New(),
				Slug:      slug,
				Name:      name,
				CreatedAt: time.Now().UTC(),
			}

			err := s.workspaceRepository.CreateWorkspace(workspace)
			if err == nil {
				return workspace, nil
			}
			if !storage.IsUniqueViolation(err, "workspaces_slug_key") {
				return nil, fmt.Errorf("failed to create workspace: %w", err)
			}
			// Lost the race for this slug, try the next suffix.
		}

		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func (s *WorkspaceService) GetWorkspace(
	workspaceID uuid.UUID,
	user *users_models.User,
) (*workspaces_models.Workspace, error) {
	canView, _, err := s.CanUserAccessWorkspace(workspaceID, user)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, errors.New("insufficient permissions to view workspace")
	}

	return s.workspaceRepository.GetWorkspaceByID(workspaceID)
}

func (s *WorkspaceService) GetWorkspaceBySlug(
	slug string,
	user *users_models.User,
) (*workspaces_models.Workspace, error) {
	workspace, err := s.workspaceRepository.GetWorkspaceBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace == nil {
		return nil, errors.New("workspace not found")
	}

	canView, _, err := s.CanUserAccessWorkspace(workspace.ID, user)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, errors.New("insufficient permissions to view workspace")
	}

	return workspace, nil
}

func (s *WorkspaceService) GetUserWorkspaces(
	user *users_models.User,
) (*workspaces_dto.ListWorkspacesResponseDTO, error) {
	workspaces, err := s.membershipRepository.GetWorkspacesWithRolesByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user workspaces: %w", err)
	}

	return &workspaces_dto.ListWorkspacesResponseDTO{
		Workspaces: workspaces,
	}, nil
}

func (s *WorkspaceService) UpdateWorkspace(
	workspaceID uuid.UUID,
	updateDTO *workspaces_models.Workspace,
	user *users_models.User,
) (*workspaces_models.Workspace, error) {
	canManage, err := s.CanUserManageWorkspace(workspaceID, user)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, errors.New("insufficient permissions to update workspace")
	}

	existingWorkspace, err := s.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	existingWorkspace.UpdateFromDTO(updateDTO)

	if err := s.workspaceRepository.UpdateWorkspace(existingWorkspace); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Workspace updated: %s", existingWorkspace.Name),
		&user.ID,
		&workspaceID,
	)

	return existingWorkspace, nil
}

func (s *WorkspaceService) DeleteWorkspace(workspaceID uuid.UUID, user *users_models.User) error {
	if user.Role != users_enums.UserRoleAdmin {
		userWorkspaceRole, err := s.GetUserWorkspaceRole(workspaceID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get user role: %w", err)
		}

		if userWorkspaceRole == nil || *userWorkspaceRole != users_enums.WorkspaceRoleOwner {
			return errors.New("only workspace owner or admin can delete workspace")
		}
	}

	workspace, err := s.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	for _, listener := range s.workspaceDeletionListeners {
		if err := listener.OnBeforeWorkspaceDeletion(workspaceID); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
	}

	if err := s.workspaceRepository.DeleteWorkspace(workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Workspace deleted: %s", workspace.Name),
		&user.ID,
		&workspaceID,
	)

	return nil
}

func (s *WorkspaceService) GetUserWorkspaceRole(
	workspaceID uuid.UUID,
	userID uuid.UUID,
) (*users_enums.WorkspaceRole, error) {
	return s.membershipRepository.GetUserWorkspaceRole(workspaceID, userID)
}

// CanUserAccessWorkspace reports whether the user has baseline
// visibility into the workspace, and with which role. Any membership,
// including GUEST, grants visibility.
func (s *WorkspaceService) CanUserAccessWorkspace(
	workspaceID uuid.UUID,
	user *users_models.User,
) (bool, *users_enums.WorkspaceRole, error) {
	if user.Role == users_enums.UserRoleAdmin {
		adminRole := users_enums.WorkspaceRoleOwner
		return true, &adminRole, nil
	}

	role, err := s.membershipRepository.GetUserWorkspaceRole(workspaceID, user.ID)
	if err != nil {
		return false, nil, err
	}

	return role != nil, role, nil
}

func (s *WorkspaceService) CanUserManageWorkspace(
	workspaceID uuid.UUID,
	user *users_models.User,
) (bool, error) {
	if user.Role == users_enums.UserRoleAdmin {
		return true, nil
	}

	role, err := s.membershipRepository.GetUserWorkspaceRole(workspaceID, user.ID)
	if err != nil {
		return false, err
	}

	if role == nil {
		return false, nil
	}

	return *role == users_enums.WorkspaceRoleOwner ||
		*role == users_enums.WorkspaceRoleAdmin, nil
}

func (s *WorkspaceService) CanUserManageMembership(
	workspaceID uuid.UUID,
	user *users_models.User,
) (bool, error) {
	return s.CanUserManageWorkspace(workspaceID, user)
}

func (s *WorkspaceService) CanUserManageAdmins(
	workspaceID uuid.UUID,
	user *users_models.User,
) (bool, error) {
	if user.Role == users_enums.UserRoleAdmin {
		return true, nil
	}

	role, err := s.membershipRepository.GetUserWorkspaceRole(workspaceID, user.ID)
	if err != nil {
		return false, err
	}

	if role == nil {
		return false, nil
	}

	return *role == users_enums.WorkspaceRoleOwner, nil
}

func (s *WorkspaceService) GetWorkspaceAuditLogs(
	workspaceID uuid.UUID,
	user *users_models.User,
	request *audit_logs.GetAuditLogsRequest,
) (*audit_logs.GetAuditLogsResponse, error) {
	canView, _, err := s.CanUserAccessWorkspace(workspaceID, user)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, errors.New("insufficient permissions to view workspace audit logs")
	}

	return s.auditLogService.GetWorkspaceAuditLogs(workspaceID, request)
}

func (s *WorkspaceService) GetWorkspaceByID(
	workspaceID uuid.UUID,
) (*workspaces_models.Workspace, error) {
	return s.workspaceRepository.GetWorkspaceByID(workspaceID)
}
