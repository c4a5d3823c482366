package services

import (
	"context"
	"errors"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	notifications pgrepo.NotificationRepository
}

func NewNotificationService(notifications pgrepo.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	const op = "NotificationService.List"

	if userID == "" {
		return nil, 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return rows, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	const op = "NotificationService.MarkRead"

	if id == "" || userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id and user_id are required", nil)
	}
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "notification not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to mark notification read", err)
	}
	return nil
}
