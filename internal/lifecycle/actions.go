package lifecycle

import (
	"context"
	"fmt"

	"civictrack/backend/internal/models"
)

// Action names an actor-invoked transition for the generic dispatch entry
// point used by the API layer.
type Action string

const (
	ActionClaim    Action = "claim"
	ActionResolve  Action = "resolve"
	ActionConsent  Action = "consent"
	ActionReject   Action = "reject"
	ActionEscalate Action = "escalate"
	ActionExtend   Action = "extend_deadline"
)

// TransitionPayload is the union of per-action inputs. Only the fields the
// requested action reads are consulted.
type TransitionPayload struct {
	Description string
	Proof       []string
	Reason      string
	Hours       int
	Consent     ConsentInput
}

// Transition dispatches a named action against a complaint on behalf of an
// actor.
func (s *Service) Transition(ctx context.Context, actor models.Actor, id string, action Action, payload TransitionPayload) (*models.Complaint, error) {
	switch action {
	case ActionClaim:
		return s.Claim(ctx, actor, id)
	case ActionResolve:
		return s.Resolve(ctx, actor, id, payload.Description, payload.Proof)
	case ActionConsent:
		return s.Consent(ctx, actor, id, payload.Consent)
	case ActionReject:
		return s.Reject(ctx, actor, id)
	case ActionEscalate:
		return s.Escalate(ctx, actor, id, payload.Reason)
	case ActionExtend:
		return s.ExtendDeadline(ctx, actor, id, payload.Hours)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}
