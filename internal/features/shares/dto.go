package shares

type UpsertShareRequest struct {
	Email      string          `json:"email"      binding:"required,email"`
	Permission SharePermission `json:"permission" binding:"required"`
}

type RemoveShareResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
