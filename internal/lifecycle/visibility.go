package lifecycle

import (
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"
)

// VisibilityFor derives the single read predicate an actor's role grants:
// citizens see their own complaints, department staff see level-1 complaints
// of their department that they work or could claim, and L2/L3 officers see
// their whole tier.
func VisibilityFor(actor models.Actor) storage.Filter {
	switch actor.Role {
	case models.RoleCitizen:
		owner := actor.ID
		return storage.Filter{OwnerID: &owner}

	case models.RoleDepartment:
		level := 1
		dept := actor.Department
		claimable := actor.ID
		return storage.Filter{
			EscalationLevel: &level,
			Department:      &dept,
			ClaimableBy:     &claimable,
		}

	case models.RoleL2Officer:
		level := 2
		return storage.Filter{EscalationLevel: &level}

	case models.RoleL3Officer:
		level := 3
		return storage.Filter{EscalationLevel: &level}

	default:
		// Unknown roles see nothing; an impossible owner id keeps the
		// predicate closed instead of open.
		none := ""
		return storage.Filter{OwnerID: &none}
	}
}

// CanView reports whether a single complaint falls inside the actor's
// visibility predicate.
func CanView(actor models.Actor, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleCitizen:
		return c.UserID == actor.ID
	case models.RoleDepartment:
		if c.EscalationLevel != 1 || c.Department != actor.Department {
			return false
		}
		if c.AssignedTo != nil {
			return *c.AssignedTo == actor.ID
		}
		return c.Status == models.StatusPending
	case models.RoleL2Officer:
		return c.EscalationLevel == 2
	case models.RoleL3Officer:
		return c.EscalationLevel == 3
	default:
		return false
	}
}
