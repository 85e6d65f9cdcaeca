package postgres

import (
	"context"

	"fraudBench/domain"

	"gorm.io/gorm"
)

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{
		DB: db,
	}
}

func (r *ScoreRepository) Create(ctx context.Context, score *domain.Score) error {
	if err := r.DB.WithContext(ctx).Create(score).Error; err != nil {
		return err
	}

	return nil
}

func (r *ScoreRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Score, error) {
	var scores []domain.Score

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *ScoreRepository) FindAll(ctx context.Context) ([]domain.Score, error) {
	var scores []domain.Score

	if err := r.DB.WithContext(ctx).Find(&scores).Error; err != nil {
		return nil, err
	}

	return scores, nil
}
