package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaintBeforeCreate_GeneratesID(t *testing.T) {
	c := &Complaint{}

	err := c.BeforeCreate(nil)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(c.ID)
	assert.NoError(t, parseErr, "generated ID should be a valid UUID")
}

func TestComplaintBeforeCreate_KeepsExistingID(t *testing.T) {
	c := &Complaint{ID: "preset-id"}

	err := c.BeforeCreate(nil)

	require.NoError(t, err)
	assert.Equal(t, "preset-id", c.ID)
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusVerified, StatusRejected, StatusSocialMedia}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "status %s", s)
	}

	active := []Status{
		StatusPending, StatusAssigned, StatusInProgress,
		StatusResolved, StatusEscalated,
	}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), "status %s", s)
	}
}

func TestCategoryDepartments_CoversEveryCategory(t *testing.T) {
	categories := []Category{
		CategoryPothole, CategoryGarbage, CategoryWaterLeakage,
		CategoryElectricity, CategoryRoadDamage, CategoryHealthIssue,
		CategoryPublicNuisance,
	}

	for _, cat := range categories {
		dept, ok := CategoryDepartments[cat]
		assert.True(t, ok, "category %s has no department", cat)
		assert.NotEmpty(t, dept)
	}

	assert.Equal(t, DepartmentRoad, CategoryDepartments[CategoryPothole])
	assert.Equal(t, DepartmentWater, CategoryDepartments[CategoryWaterLeakage])
}

func TestLatestWarning(t *testing.T) {
	c := &Complaint{}
	assert.Nil(t, c.LatestWarning())

	first := Warning{Kind: "deadline_approaching", SentAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	second := Warning{Kind: "deadline_approaching", SentAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)}
	c.Warnings = []Warning{first, second}

	latest := c.LatestWarning()
	require.NotNil(t, latest)
	assert.True(t, latest.SentAt.Equal(second.SentAt))
}
