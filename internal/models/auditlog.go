package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records a mutation for compliance review.
type AuditLog struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ActorID string `gorm:"column:actor_id;type:uuid;index" json:"actor_id"`

	Action       string `gorm:"column:action;type:text" json:"action"` // create|update|delete|approve|reject
	ResourceType string `gorm:"column:resource_type;type:text;index" json:"resource_type"`
	ResourceID   string `gorm:"column:resource_id;type:text" json:"resource_id"`

	Changes   datatypes.JSON `gorm:"column:changes;type:jsonb" json:"changes,omitempty"`
	IPAddress string         `gorm:"column:ip_address;type:text" json:"ip_address"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
