package service

import (
	"context"
	"errors"
	"math"

	"gamehub/internal/cache"
	"gamehub/internal/dto"
	"gamehub/internal/models"
	"gamehub/internal/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	Submit(ctx context.Context, origin string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Get(ctx context.Context, id int64) (*dto.ReviewResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, id int64) error
	ListForGame(ctx context.Context, gameID int64, page, pageSize int) (*dto.ReviewListResponse, error)
	Recompute(ctx context.Context, gameID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	gameRepo   repository.GameRepository
	catalog    Catalog
}

func NewReviewService(reviewRepo repository.ReviewRepository, gameRepo repository.GameRepository, catalog Catalog) ReviewService {
	if catalog == nil {
		catalog = (*cache.CatalogCache)(nil)
	}
	return &reviewService{
		reviewRepo: reviewRepo,
		gameRepo:   gameRepo,
		catalog:    catalog,
	}
}

// Submit inserts a review for (game, origin) and recomputes the game's
// average rating before returning, so callers observe the new average
// immediately. One review per origin address per game.
func (s *reviewService) Submit(ctx context.Context, origin string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.gameRepo.GetByID(ctx, in.GameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	// Fast-path duplicate check; the composite unique index settles races.
	if _, err := s.reviewRepo.GetByGameAndOrigin(ctx, in.GameID, origin); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := models.Review{
		GameID:    in.GameID,
		IPAddress: origin,
		Rating:    in.Rating,
		Text:      in.Text,
	}
	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// A failed recompute fails the whole operation; the average must
	// never be observed stale after a successful submit.
	if err := s.Recompute(ctx, in.GameID); err != nil {
		return nil, err
	}

	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToReviewResponse(*review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, id int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if in.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Text != nil {
		review.Text = in.Text
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.Recompute(ctx, review.GameID); err != nil {
		return nil, err
	}

	resp := dto.FromModelToReviewResponse(*review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	return s.Recompute(ctx, review.GameID)
}

func (s *reviewService) ListForGame(ctx context.Context, gameID int64, page, pageSize int) (*dto.ReviewListResponse, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByGame(ctx, gameID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, dto.FromModelToReviewResponse(r))
	}
	return dto.NewReviewListResponse(items, total, page, pageSize), nil
}

// Recompute derives the game's average rating from its current reviews:
// the arithmetic mean rounded to one decimal place, 0.0 with no reviews.
// The stored average is a pure function of the reviews and nothing else.
func (s *reviewService) Recompute(ctx context.Context, gameID int64) error {
	ratings, err := s.reviewRepo.RatingsForGame(ctx, gameID)
	if err != nil {
		return err
	}

	avg := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg = roundToOneDecimal(float64(sum) / float64(len(ratings)))
	}

	if err := s.gameRepo.SetAverageRating(ctx, gameID, avg); err != nil {
		return err
	}

	// The new average changes cached top lists and rating-filtered reads.
	s.catalog.Invalidate(ctx)
	return nil
}

func roundToOneDecimal(x float64) float64 {
	return math.Round(x*10) / 10
}
