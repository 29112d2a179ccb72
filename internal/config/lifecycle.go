package config

import "time"

const (
	// Deadlines
	MinDeadlineHours     = 4
	DefaultDeadlineHours = 4
	EscalationGrant      = 24 * time.Hour
	DefaultExtension     = 24 * time.Hour

	// Escalation
	MaxEscalationLevel = 3
	AutoEscalateReason = "missed deadline"

	// Sweep
	SweepInterval         = 1 * time.Hour
	WarningWindow         = 2 * time.Hour
	PublicEscalationGrace = 24 * time.Hour

	// WarningKindDeadline is the only warning kind emitted today.
	WarningKindDeadline = "deadline_approaching"
)
