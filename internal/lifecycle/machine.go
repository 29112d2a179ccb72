// Package lifecycle implements the complaint state machine and the service
// that drives it. The transition functions in this file are pure: they take a
// complaint snapshot plus inputs and either mutate the snapshot in place or
// return an error, leaving persistence and side effects to the caller.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"civictrack/backend/internal/config"
	"civictrack/backend/internal/models"
)

// actorTier maps an actor role to the escalation tier it operates at.
// Citizens have no tier.
func actorTier(role models.Role) int {
	switch role {
	case models.RoleDepartment:
		return 1
	case models.RoleL2Officer:
		return 2
	case models.RoleL3Officer:
		return 3
	default:
		return 0
	}
}

// Claim moves a pending complaint to in_progress for a working actor at the
// complaint's current tier, assigning it if unassigned.
func Claim(c *models.Complaint, actor models.Actor, now time.Time) error {
	tier := actorTier(actor.Role)
	if tier == 0 || tier != c.EscalationLevel {
		return ErrForbidden
	}
	if actor.Role == models.RoleDepartment && actor.Department != c.Department {
		return ErrForbidden
	}
	if c.Status != models.StatusPending && c.Status != models.StatusEscalated {
		return fmt.Errorf("%w: cannot claim complaint in status %q", ErrValidation, c.Status)
	}
	if c.Deadline.Before(now) {
		return ErrDeadlinePassed
	}

	c.Status = models.StatusInProgress
	if c.AssignedTo == nil {
		id := actor.ID
		c.AssignedTo = &id
	}
	return nil
}

// Resolve moves an in_progress complaint to resolved, populating the
// resolution substructure. A non-empty description is required. Only an actor
// at the complaint's current tier may resolve it.
func Resolve(c *models.Complaint, actor models.Actor, description string, proof []string, now time.Time) error {
	tier := actorTier(actor.Role)
	if tier == 0 || tier != c.EscalationLevel {
		return ErrForbidden
	}
	if actor.Role == models.RoleDepartment && actor.Department != c.Department {
		return ErrForbidden
	}
	if c.Status != models.StatusInProgress {
		return fmt.Errorf("%w: cannot resolve complaint in status %q", ErrValidation, c.Status)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: resolution description is required", ErrValidation)
	}
	if c.Deadline.Before(now) {
		return ErrDeadlinePassed
	}

	c.Status = models.StatusResolved
	c.Resolution = &models.Resolution{
		Description: description,
		Proof:       proof,
		ResolvedAt:  now,
		ResolvedBy:  actor.ID,
	}
	return nil
}

// ConsentInput is the owning citizen's sign-off payload.
type ConsentInput struct {
	Given    bool
	Feedback string
	Rating   int
}

// Consent moves a resolved complaint to verified on the owning citizen's
// approval.
func Consent(c *models.Complaint, actor models.Actor, in ConsentInput, now time.Time) error {
	if actor.Role != models.RoleCitizen || actor.ID != c.UserID {
		return ErrForbidden
	}
	if c.Status != models.StatusResolved {
		return fmt.Errorf("%w: consent requires a resolved complaint", ErrValidation)
	}
	if c.Resolution == nil {
		return fmt.Errorf("%w: resolution is missing", ErrValidation)
	}
	if !in.Given {
		return fmt.Errorf("%w: consent not given", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	c.Status = models.StatusVerified
	c.UserConsent = &models.UserConsent{
		Given:    true,
		GivenAt:  now,
		Feedback: in.Feedback,
		Rating:   in.Rating,
	}
	return nil
}

// Reject marks a complaint rejected. Terminal, retained as historical record.
func Reject(c *models.Complaint, actor models.Actor, now time.Time) error {
	if actorTier(actor.Role) == 0 {
		return ErrForbidden
	}
	if c.Status.IsTerminal() || c.Status == models.StatusResolved {
		return fmt.Errorf("%w: cannot reject complaint in status %q", ErrValidation, c.Status)
	}
	if c.Deadline.Before(now) {
		return ErrDeadlinePassed
	}

	c.Status = models.StatusRejected
	return nil
}

// Escalate raises the complaint one tier: appends the history entry, clears
// the previous assignment, hands the complaint to the designated officer for
// the new tier (nil if none is registered) and grants 24 hours of deadline.
// escalatedBy is nil for automatic escalations.
func Escalate(c *models.Complaint, escalatedBy *string, reason string, officer *models.User, now time.Time) error {
	if c.Status.IsTerminal() {
		return fmt.Errorf("%w: complaint is in terminal status %q", ErrValidation, c.Status)
	}
	if c.EscalationLevel >= config.MaxEscalationLevel {
		return ErrMaxEscalation
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: escalation reason is required", ErrValidation)
	}

	c.EscalationLevel++
	c.EscalationHistory = append(c.EscalationHistory, models.EscalationEvent{
		Level:       c.EscalationLevel,
		EscalatedAt: now,
		Reason:      reason,
		EscalatedBy: escalatedBy,
	})

	// Assignment is never inherited across tiers.
	c.AssignedTo = nil
	if officer != nil {
		id := officer.ID
		c.AssignedTo = &id
	}

	// Deadline never decreases over a complaint's life, so a grant landing
	// before an already generous deadline is a no-op.
	granted := now.Add(config.EscalationGrant)
	if granted.After(c.Deadline) {
		c.Deadline = granted
	}
	c.Status = models.StatusEscalated
	return nil
}

// ExtendDeadline adds the requested hour count to the current deadline.
// Officer-only; hour counts at or below zero fall back to the default grant.
func ExtendDeadline(c *models.Complaint, actor models.Actor, hours int, now time.Time) error {
	if !actor.Role.IsOfficer() {
		return ErrForbidden
	}
	if c.Status.IsTerminal() {
		return fmt.Errorf("%w: complaint is in terminal status %q", ErrValidation, c.Status)
	}

	extension := time.Duration(hours) * time.Hour
	if hours <= 0 {
		extension = config.DefaultExtension
	}
	c.Deadline = c.Deadline.Add(extension)
	return nil
}

// PublicEscalate is the terminal transition onto the public-pressure channel.
// Only reachable at the maximum escalation level.
func PublicEscalate(c *models.Complaint, now time.Time) error {
	if c.Status.IsTerminal() || c.Status == models.StatusResolved {
		return fmt.Errorf("%w: complaint in status %q is not eligible", ErrValidation, c.Status)
	}
	if c.EscalationLevel < config.MaxEscalationLevel {
		return fmt.Errorf("%w: public escalation requires level %d", ErrValidation, config.MaxEscalationLevel)
	}

	c.Status = models.StatusSocialMedia
	return nil
}

// RecordWarning appends a deadline-approaching notice to the audit trail.
func RecordWarning(c *models.Complaint, recipientID string, now time.Time) {
	c.Warnings = append(c.Warnings, models.Warning{
		Kind:   config.WarningKindDeadline,
		SentAt: now,
		SentTo: recipientID,
	})
}

// WarningDue reports whether the complaint qualifies for a deadline warning
// at the given instant: inside the approaching window, not yet warned for the
// current deadline, and worked by someone who can receive the notice.
func WarningDue(c *models.Complaint, now time.Time) bool {
	if c.AssignedTo == nil {
		return false
	}
	if c.Status.IsTerminal() || c.Status == models.StatusResolved {
		return false
	}
	if c.Deadline.Before(now) || c.Deadline.After(now.Add(config.WarningWindow)) {
		return false
	}
	// The deadline only moves forward, so a warning sent inside the current
	// window pins this deadline as already-notified.
	if w := c.LatestWarning(); w != nil && !w.SentAt.Before(c.Deadline.Add(-config.WarningWindow)) {
		return false
	}
	return true
}
