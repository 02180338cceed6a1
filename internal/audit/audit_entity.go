package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is append-only; rows are written by the consumer from audit
// events and never updated.
type AuditLog struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID      string    `gorm:"column:actor_id;type:varchar(50);index"`
	ActorRole    string    `gorm:"column:actor_role;type:varchar(20)"`
	Action       string    `gorm:"column:action;type:varchar(50);not null;index"`
	ResourceType string    `gorm:"column:resource_type;type:varchar(50);not null;index:idx_audit_resource"`
	ResourceID   string    `gorm:"column:resource_id;type:varchar(50);index:idx_audit_resource"`
	Description  string    `gorm:"column:description;type:text"`
	OccurredAt   time.Time `gorm:"column:occurred_at;type:timestamptz;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
