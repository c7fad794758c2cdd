package audit

import (
	"fmt"
	"time"
)

// AuditEvent represents an audit-write or seeding outcome.
type AuditEvent struct {
	Timestamp time.Time
	EventType string // e.g., "AuditWrite", "SeedRecord"
	EntityID  string // asset id the event refers to
	Result    string // "success" or "failure"
	Reason    string // error message or reason code
	Metadata  map[string]string
}

// AuditLogger is the interface for logging audit events.
type AuditLogger interface {
	LogEvent(event AuditEvent)
}

// StdoutAuditLogger is a simple implementation that logs to stdout.
type StdoutAuditLogger struct{}

func (l *StdoutAuditLogger) LogEvent(event AuditEvent) {
	fmt.Printf("[%s] [%s] Entity: %s, Result: %s, Reason: %s, Metadata: %+v\n",
		event.Timestamp.Format(time.RFC3339), event.EventType, event.EntityID, event.Result, event.Reason, event.Metadata)
}

// NewStdoutAuditLogger returns a new StdoutAuditLogger.
func NewStdoutAuditLogger() AuditLogger {
	return &StdoutAuditLogger{}
}
