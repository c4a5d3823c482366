package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Notification is an in-app notification row shown to a user.
type Notification struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Type  string `gorm:"column:type;type:text" json:"type"` // visa_expiry|account_approved|system
	Title string `gorm:"column:title;type:text" json:"title"`
	Body  string `gorm:"column:body;type:text" json:"body"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Read     bool           `gorm:"column:read;index" json:"read"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationLog records one expiry-alert email batch (one row per
// threshold per run, whether it succeeded or not).
type NotificationLog struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ThresholdDays int            `gorm:"column:threshold_days" json:"threshold_days"`
	EmployeeCount int            `gorm:"column:employee_count" json:"employee_count"`
	Recipients    pq.StringArray `gorm:"column:recipients;type:text[]" json:"recipients"`
	Subject       string         `gorm:"column:subject;type:text" json:"subject"`
	Status        string         `gorm:"column:status;type:text" json:"status"` // sent|failed
	Error         string         `gorm:"column:error;type:text" json:"error,omitempty"`
	SentAt        time.Time      `gorm:"column:sent_at;type:timestamptz" json:"sent_at"`
}

func (NotificationLog) TableName() string { return "notification_logs" }
