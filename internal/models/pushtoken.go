package models

import "time"

// PushToken is a registered device notification target. Delivery itself is
// handled out of band; we only track which tokens belong to which user.
type PushToken struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Token    string `gorm:"column:token;type:text;uniqueIndex" json:"token"`
	Platform string `gorm:"column:platform;type:text" json:"platform"` // ios|android|web
	Active   bool   `gorm:"column:active;default:true" json:"active"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (PushToken) TableName() string { return "push_tokens" }
