package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

// Profile is an application account. New accounts stay pending until an
// admin approves them; only approved accounts can log in.
type Profile struct {
	UserID       string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email        string `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:text" json:"-"`
	FullName     string `gorm:"column:full_name;type:text" json:"full_name"`

	Role   UserRole      `gorm:"column:role;type:text" json:"role"`
	Status ProfileStatus `gorm:"column:status;type:text;index" json:"status"`

	ApprovedBy *string    `gorm:"column:approved_by;type:uuid" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `gorm:"column:approved_at;type:timestamptz" json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
