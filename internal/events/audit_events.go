package events

import "time"

const AuditTopic = "gatepass.audit.v1"

// AuditEvent records who did what to which resource. It is written to the
// outbox in the same transaction as the state change it describes.
type AuditEvent struct {
	EventType    string    `json:"event_type"`
	ActorID      string    `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Description  string    `json:"description"`
	OccurredAt   time.Time `json:"occurred_at"`
}
