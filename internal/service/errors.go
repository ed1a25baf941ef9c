package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrForbidden is returned when the caller's role does not permit the
// operation. Handlers translate it to 403.
var ErrForbidden = errors.New("forbidden: insufficient permissions")

// ValidationError aggregates every invalid field of a command so the
// client sees them all in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// AuditEntry is the service-level description of an auditable action,
// persisted asynchronously by AuditService.
type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	StatusCode   int
	Changes      string
}
