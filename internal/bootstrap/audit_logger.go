package bootstrap

import "context"

// AuditLog is a process-level audit entry (startup, shutdown). Domain-level
// audit events flow through the outbox instead.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
