package access

import (
	"taskdeck-backend/internal/features/shares"
	workspaces_repositories "taskdeck-backend/internal/features/workspaces/repositories"
)

var accessService = &AccessService{
	membershipRepository: &workspaces_repositories.MembershipRepository{},
	shareService:         shares.GetShareService(),
}

func GetAccessService() *AccessService {
	return accessService
}

func SetupDependencies() {
	shares.GetShareService().SetAccessChecker(accessService)
}
