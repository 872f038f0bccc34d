package gates

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError rejects a write before it reaches the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GateAViolation means a session is missing its mandatory end status.
type GateAViolation struct {
	SessionID uuid.UUID
}

func (e *GateAViolation) Error() string {
	return fmt.Sprintf("session %s missing end status (Gate A violation)", e.SessionID)
}

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrAuditLogNotFound = errors.New("audit log not found")
)
