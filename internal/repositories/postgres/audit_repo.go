package postgres

import (
	"context"

	"github.com/cubstechnical/cubs-ems/internal/models"
	"gorm.io/gorm"
)

type AuditListParams struct {
	ActorID      string
	ResourceType string
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Insert(ctx context.Context, l *models.AuditLog) error
	List(ctx context.Context, p AuditListParams) ([]models.AuditLog, int64, error)
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Insert(ctx context.Context, l *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *auditLogRepo) List(ctx context.Context, p AuditListParams) ([]models.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if p.ActorID != "" {
		q = q.Where("actor_id = ?", p.ActorID)
	}
	if p.ResourceType != "" {
		q = q.Where("resource_type = ?", p.ResourceType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	err := q.Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *auditLogRepo) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
