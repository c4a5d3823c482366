package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type AuditService interface {
	// Record is best-effort: a failed audit write is logged, never surfaced.
	Record(ctx context.Context, actorID, action, resourceType, resourceID, ip string, changes any)
	List(ctx context.Context, p pgrepo.AuditListParams) ([]models.AuditLog, int64, error)
}

type auditService struct {
	audits pgrepo.AuditLogRepository
	log    *logrus.Logger
}

func NewAuditService(audits pgrepo.AuditLogRepository, log *logrus.Logger) AuditService {
	return &auditService{audits: audits, log: log}
}

func (s *auditService) Record(ctx context.Context, actorID, action, resourceType, resourceID, ip string, changes any) {
	var payload datatypes.JSON
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			payload = datatypes.JSON(b)
		}
	}

	row := &models.AuditLog{
		ID:           uuid.NewString(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      payload,
		IPAddress:    ip,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.audits.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":        action,
			"resource_type": resourceType,
			"resource_id":   resourceID,
		}).Warn("audit write failed")
	}
}

func (s *auditService) List(ctx context.Context, p pgrepo.AuditListParams) ([]models.AuditLog, int64, error) {
	const op = "AuditService.List"

	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	rows, total, err := s.audits.List(ctx, p)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list audit logs", err)
	}
	return rows, total, nil
}
