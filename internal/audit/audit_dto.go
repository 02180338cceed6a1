package audit

type ListAuditFilter struct {
	Action       string
	ResourceType string
	ActorID      string
}

type AuditLogResponse struct {
	ID           string `json:"id"`
	ActorID      string `json:"actor_id,omitempty"`
	ActorRole    string `json:"actor_role,omitempty"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	Description  string `json:"description,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}
