package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Status is the workflow state of a complaint.
type Status string

const (
	StatusPending     Status = "pending"
	StatusAssigned    Status = "assigned"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
	StatusEscalated   Status = "escalated"
	StatusSocialMedia Status = "social_media"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusRejected || s == StatusSocialMedia
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Category string

const (
	CategoryPothole        Category = "pothole"
	CategoryGarbage        Category = "garbage"
	CategoryWaterLeakage   Category = "water_leakage"
	CategoryElectricity    Category = "electricity"
	CategoryRoadDamage     Category = "road_damage"
	CategoryHealthIssue    Category = "health_issue"
	CategoryPublicNuisance Category = "public_nuisance"
)

type Department string

const (
	DepartmentCleanliness  Department = "cleanliness"
	DepartmentConstruction Department = "construction"
	DepartmentHealthcare   Department = "healthcare"
	DepartmentWater        Department = "water"
	DepartmentElectricity  Department = "electricity"
	DepartmentRoad         Department = "road"
)

// CategoryDepartments maps each complaint category to the department
// responsible for it. The department is derived once at creation and is
// immutable afterwards.
var CategoryDepartments = map[Category]Department{
	CategoryPothole:        DepartmentRoad,
	CategoryGarbage:        DepartmentCleanliness,
	CategoryWaterLeakage:   DepartmentWater,
	CategoryElectricity:    DepartmentElectricity,
	CategoryRoadDamage:     DepartmentRoad,
	CategoryHealthIssue:    DepartmentHealthcare,
	CategoryPublicNuisance: DepartmentCleanliness,
}

// Location stores the complaint geolocation. Coordinates follow the GeoJSON
// convention: longitude first, then latitude.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Address   string  `json:"address"`
}

// Resolution is filled in once by the resolving actor and never mutated
// afterwards.
type Resolution struct {
	Description string    `json:"description"`
	Proof       []string  `json:"proof,omitempty"`
	ResolvedAt  time.Time `json:"resolved_at"`
	ResolvedBy  string    `json:"resolved_by"`
}

// UserConsent records the owning citizen's sign-off on a resolution.
type UserConsent struct {
	Given    bool      `json:"given"`
	GivenAt  time.Time `json:"given_at"`
	Feedback string    `json:"feedback,omitempty"`
	Rating   int       `json:"rating"`
}

// EscalationEvent is one entry in the append-only escalation history.
// EscalatedBy is nil for automatic escalations.
type EscalationEvent struct {
	Level       int       `json:"level"`
	EscalatedAt time.Time `json:"escalated_at"`
	Reason      string    `json:"reason"`
	EscalatedBy *string   `json:"escalated_by"`
}

// Warning is one deadline-approaching notice in the audit trail.
type Warning struct {
	Kind   string    `json:"kind"`
	SentAt time.Time `json:"sent_at"`
	SentTo string    `json:"sent_to"`
}

// Complaint is the central entity of the system. Nested substructures are
// persisted as jsonb columns, attachment references as a text array.
type Complaint struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	Category   Category   `gorm:"not null" json:"category"`
	Department Department `gorm:"index;not null" json:"department"`
	Priority   Priority   `json:"priority"`

	Location    Location       `gorm:"type:jsonb;serializer:json" json:"location"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`

	Status          Status  `gorm:"index;not null" json:"status"`
	EscalationLevel int     `gorm:"index;not null;default:1" json:"escalation_level"`
	AssignedTo      *string `gorm:"index" json:"assigned_to,omitempty"`

	Deadline time.Time `gorm:"index;not null" json:"deadline"`

	Resolution        *Resolution       `gorm:"type:jsonb;serializer:json" json:"resolution,omitempty"`
	UserConsent       *UserConsent      `gorm:"type:jsonb;serializer:json" json:"user_consent,omitempty"`
	EscalationHistory []EscalationEvent `gorm:"type:jsonb;serializer:json" json:"escalation_history,omitempty"`
	Warnings          []Warning         `gorm:"type:jsonb;serializer:json" json:"warnings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the complaint ID if it has not been set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// LatestWarning returns the most recent warning, or nil if none was sent.
func (c *Complaint) LatestWarning() *Warning {
	if len(c.Warnings) == 0 {
		return nil
	}
	return &c.Warnings[len(c.Warnings)-1]
}
