package lifecycle

import (
	"errors"

	"civictrack/backend/internal/storage"
)

// Every failure mode of a requested transition maps to one of these. All are
// recoverable at the caller; only ErrConflict warrants a re-read-and-retry.
var (
	ErrNotFound       = storage.ErrNotFound
	ErrConflict       = storage.ErrConflict
	ErrDeadlinePassed = errors.New("deadline has passed, escalate or extend instead")
	ErrMaxEscalation  = errors.New("complaint already at maximum escalation level")
	ErrForbidden      = errors.New("actor role not permitted for this transition")
	ErrValidation     = errors.New("invalid or missing field")
)
