package repository

import (
	"context"
	"fmt"

	"gamehub/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetByGameAndOrigin(ctx context.Context, gameID int64, ipAddress string) (*models.Review, error)
	GetByGame(ctx context.Context, gameID int64, page, pageSize int) ([]models.Review, int64, error)
	RatingsForGame(ctx context.Context, gameID int64) ([]int, error)
	CountForGame(ctx context.Context, gameID int64) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByGameAndOrigin retrieves the review a given origin address left on
// a game, if any.
func (r *reviewRepository) GetByGameAndOrigin(ctx context.Context, gameID int64, ipAddress string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND ip_address = ?", gameID, ipAddress).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByGame retrieves one page of a game's reviews plus the total count.
func (r *reviewRepository) GetByGame(ctx context.Context, gameID int64, page, pageSize int) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("game_id = ?", gameID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var reviews []models.Review
	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at desc").
		Order("id desc").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("find reviews: %w", err)
	}
	return reviews, total, nil
}

// RatingsForGame returns the raw rating values for a game, the read half
// of a rating recomputation.
func (r *reviewRepository) RatingsForGame(ctx context.Context, gameID int64) ([]int, error) {
	ratings := []int{}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("game_id = ?", gameID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, fmt.Errorf("ratings for game: %w", err)
	}
	return ratings, nil
}

func (r *reviewRepository) CountForGame(ctx context.Context, gameID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("game_id = ?", gameID).
		Count(&count).Error
	return count, err
}
