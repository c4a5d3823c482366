package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type PushTokenService interface {
	Register(ctx context.Context, userID, token, platform string) (*models.PushToken, error)
	Deactivate(ctx context.Context, userID, token string) error
}

type pushTokenService struct {
	tokens pgrepo.PushTokenRepository
}

func NewPushTokenService(tokens pgrepo.PushTokenRepository) PushTokenService {
	return &pushTokenService{tokens: tokens}
}

func (s *pushTokenService) Register(ctx context.Context, userID, token, platform string) (*models.PushToken, error) {
	const op = "PushTokenService.Register"

	if userID == "" || token == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and token are required", nil)
	}
	switch platform {
	case "ios", "android", "web":
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "platform must be ios, android or web", nil)
	}

	now := time.Now().UTC()
	row := &models.PushToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tokens.Upsert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to register push token", err)
	}
	return row, nil
}

func (s *pushTokenService) Deactivate(ctx context.Context, userID, token string) error {
	const op = "PushTokenService.Deactivate"

	if userID == "" || token == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and token are required", nil)
	}
	if err := s.tokens.Deactivate(ctx, token, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "push token not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to deactivate push token", err)
	}
	return nil
}
