package lifecycle_test

import (
	"testing"
	"time"

	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVisibilityFor_Citizen verifies citizens only see their own complaints.
func TestVisibilityFor_Citizen(t *testing.T) {
	filter := lifecycle.VisibilityFor(models.Actor{ID: "citizen-1", Role: models.RoleCitizen})

	require.NotNil(t, filter.OwnerID)
	assert.Equal(t, "citizen-1", *filter.OwnerID)
	assert.Nil(t, filter.EscalationLevel)
}

// TestVisibilityFor_Department verifies the level-1 assigned-or-unclaimed
// predicate for department staff.
func TestVisibilityFor_Department(t *testing.T) {
	actor := models.Actor{ID: "worker-1", Role: models.RoleDepartment, Department: models.DepartmentWater}

	filter := lifecycle.VisibilityFor(actor)

	require.NotNil(t, filter.EscalationLevel)
	assert.Equal(t, 1, *filter.EscalationLevel)
	require.NotNil(t, filter.Department)
	assert.Equal(t, models.DepartmentWater, *filter.Department)
	require.NotNil(t, filter.ClaimableBy)
	assert.Equal(t, "worker-1", *filter.ClaimableBy)
}

// TestVisibilityFor_Officers verifies each officer role sees exactly its
// tier.
func TestVisibilityFor_Officers(t *testing.T) {
	l2 := lifecycle.VisibilityFor(models.Actor{ID: "o2", Role: models.RoleL2Officer})
	require.NotNil(t, l2.EscalationLevel)
	assert.Equal(t, 2, *l2.EscalationLevel)

	l3 := lifecycle.VisibilityFor(models.Actor{ID: "o3", Role: models.RoleL3Officer})
	require.NotNil(t, l3.EscalationLevel)
	assert.Equal(t, 3, *l3.EscalationLevel)
}

// TestVisibilityFor_UnknownRole verifies an unknown role sees nothing.
func TestVisibilityFor_UnknownRole(t *testing.T) {
	filter := lifecycle.VisibilityFor(models.Actor{ID: "x", Role: "auditor"})

	require.NotNil(t, filter.OwnerID)
	assert.Equal(t, "", *filter.OwnerID)
}

// TestCanView covers the single-record visibility checks that mirror the
// list predicate.
func TestCanView(t *testing.T) {
	deadline := time.Now().Add(4 * time.Hour)
	c := newComplaint(models.StatusPending, 1, deadline)

	owner := models.Actor{ID: "citizen-1", Role: models.RoleCitizen}
	stranger := models.Actor{ID: "citizen-2", Role: models.RoleCitizen}
	worker := models.Actor{ID: "worker-1", Role: models.RoleDepartment, Department: models.DepartmentElectricity}
	otherDept := models.Actor{ID: "worker-2", Role: models.RoleDepartment, Department: models.DepartmentWater}
	l2 := models.Actor{ID: "officer-2", Role: models.RoleL2Officer}

	assert.True(t, lifecycle.CanView(owner, c))
	assert.False(t, lifecycle.CanView(stranger, c))
	assert.True(t, lifecycle.CanView(worker, c), "unassigned pending level-1 is claimable")
	assert.False(t, lifecycle.CanView(otherDept, c))
	assert.False(t, lifecycle.CanView(l2, c), "officers do not see level 1")

	// Once assigned, only the assignee's department view keeps it.
	assignee := "worker-1"
	c.AssignedTo = &assignee
	c.Status = models.StatusInProgress
	assert.True(t, lifecycle.CanView(worker, c))
	other := *c
	otherAssignee := "worker-9"
	other.AssignedTo = &otherAssignee
	assert.False(t, lifecycle.CanView(worker, &other))

	// After escalation the tier officer takes over.
	c.EscalationLevel = 2
	c.AssignedTo = nil
	c.Status = models.StatusEscalated
	assert.False(t, lifecycle.CanView(worker, c))
	assert.True(t, lifecycle.CanView(l2, c))
	assert.True(t, lifecycle.CanView(owner, c), "the owner always sees their complaint")
}
