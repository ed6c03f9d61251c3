package notifications

type ListNotificationsRequest struct {
	WorkspaceID *string `form:"workspaceId"`
	UnreadOnly  bool    `form:"unreadOnly"`
	Limit       int     `form:"limit"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkReadResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"markedCount"`
}
