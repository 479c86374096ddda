package model

import (
	"time"
)

type UserRole string

const (
	RoleParticipant   UserRole = "participant"
	RoleMentor        UserRole = "mentor"
	RolePlatformAdmin UserRole = "platform_admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('participant','mentor','platform_admin');default:'participant'" json:"role"`
	Cohort    string    `gorm:"size:100" json:"cohort,omitempty"`
	Plan      string    `gorm:"size:50" json:"plan,omitempty"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Viewer is the identity handed to the access and catalog engine.
// It is derived from authenticated claims and trusted as given.
type Viewer struct {
	ID     string   `json:"id"`
	Role   UserRole `json:"role"`
	Cohort string   `json:"cohort,omitempty"`
	Plan   string   `json:"plan,omitempty"`
}

func (u *User) Viewer() Viewer {
	return Viewer{
		ID:     u.ID,
		Role:   u.Role,
		Cohort: u.Cohort,
		Plan:   u.Plan,
	}
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RolePlatformAdmin
}
