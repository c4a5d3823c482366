package models

import (
	"time"

	"github.com/lib/pq"
)

type EmployeeDocument struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID string `gorm:"column:employee_id;type:uuid;index" json:"employee_id"`

	DocumentType string `gorm:"column:document_type;type:text;index" json:"document_type"` // visa|passport|labour_card|contract|other
	FileName     string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath     string `gorm:"column:file_path;type:text" json:"file_path"` // B2 object key

	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	UploadedBy string         `gorm:"column:uploaded_by;type:uuid" json:"uploaded_by"`
	Notes      string         `gorm:"column:notes;type:text" json:"notes"`
	Tags       pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`

	UploadedAt time.Time `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
}

func (EmployeeDocument) TableName() string { return "employee_documents" }
