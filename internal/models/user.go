package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role tags an actor with its position in the escalation chain. The core
// treats identity as opaque; the role decides which transitions are legal.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleDepartment Role = "department"
	RoleL2Officer  Role = "l2_officer"
	RoleL3Officer  Role = "l3_officer"
)

// IsOfficer reports whether the role sits above department level.
func (r Role) IsOfficer() bool {
	return r == RoleL2Officer || r == RoleL3Officer
}

// User represents any actor known to the system: citizens filing complaints,
// department staff working them, and the L2/L3 override officers.
type User struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Name       string     `json:"name"`
	Email      string     `gorm:"uniqueIndex" json:"email"`
	Role       Role       `gorm:"index;not null" json:"role"`
	Department Department `gorm:"index" json:"department,omitempty"`
	CreatedAt  int64      `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate generates a new UUID for the user if the ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Actor is the authenticated identity attached to a request. It carries just
// enough to evaluate permissions and visibility.
type Actor struct {
	ID         string
	Role       Role
	Department Department
}
