package postgres

import (
	"context"

	"github.com/cubstechnical/cubs-ems/internal/models"
	"github.com/cubstechnical/cubs-ems/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushTokenRepository interface {
	Upsert(ctx context.Context, t *models.PushToken) error
	Deactivate(ctx context.Context, token, userID string) error
	ActiveByUser(ctx context.Context, userID string) ([]models.PushToken, error)
}

type pushTokenRepo struct {
	db *gorm.DB
}

func NewPushTokenRepo(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepo{db: db}
}

func (r *pushTokenRepo) Upsert(ctx context.Context, t *models.PushToken) error {
	// Re-registering an existing token moves it to the current user and
	// reactivates it.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "active", "updated_at"}),
		}).
		Create(t).Error
}

func (r *pushTokenRepo) Deactivate(ctx context.Context, token, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.PushToken{}).
		Where("token = ? AND user_id = ?", token, userID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *pushTokenRepo) ActiveByUser(ctx context.Context, userID string) ([]models.PushToken, error) {
	var rows []models.PushToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = true", userID).
		Find(&rows).Error
	return rows, err
}
