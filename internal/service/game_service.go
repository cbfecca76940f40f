package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamehub/internal/cache"
	"gamehub/internal/dto"
	"gamehub/internal/repository"

	"gorm.io/gorm"
)

// Catalog is the derived-read cache the services write through.
// *cache.CatalogCache satisfies it; a nil argument disables caching.
type Catalog interface {
	GetJSON(ctx context.Context, key string, dest any) bool
	SetJSON(ctx context.Context, key string, value any)
	Invalidate(ctx context.Context)
}

type GameService interface {
	List(ctx context.Context, filter repository.GameFilter, page, pageSize int) (*dto.GameListResponse, error)
	Get(ctx context.Context, id int64) (*dto.GameDetailResponse, error)
	Create(ctx context.Context, in dto.CreateGameDTO) (*dto.GameResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateGameDTO) (*dto.GameResponse, error)
	Delete(ctx context.Context, id int64) error
	Top(ctx context.Context, limit int) ([]dto.GameResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.GameResponse, error)
	Genres(ctx context.Context) ([]string, error)
	Platforms(ctx context.Context) ([]string, error)
	AttachCover(ctx context.Context, id int64, coverPath string) (*dto.CoverUploadResponse, error)
}

type gameService struct {
	gameRepo   repository.GameRepository
	reviewRepo repository.ReviewRepository
	catalog    Catalog
}

func NewGameService(gameRepo repository.GameRepository, reviewRepo repository.ReviewRepository, catalog Catalog) GameService {
	if catalog == nil {
		catalog = (*cache.CatalogCache)(nil)
	}
	return &gameService{
		gameRepo:   gameRepo,
		reviewRepo: reviewRepo,
		catalog:    catalog,
	}
}

func (s *gameService) List(ctx context.Context, filter repository.GameFilter, page, pageSize int) (*dto.GameListResponse, error) {
	games, total, err := s.gameRepo.Find(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GameResponse, 0, len(games))
	for _, g := range games {
		items = append(items, dto.FromModelToGameResponse(g))
	}
	return dto.NewGameListResponse(items, total, page, pageSize), nil
}

func (s *gameService) Get(ctx context.Context, id int64) (*dto.GameDetailResponse, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	count, err := s.reviewRepo.CountForGame(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.GameDetailResponse{
		GameResponse: dto.FromModelToGameResponse(*game),
		ReviewsCount: count,
	}, nil
}

func (s *gameService) Create(ctx context.Context, in dto.CreateGameDTO) (*dto.GameResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrInvalidTitle
	}

	// Fast-path duplicate check; the unique index settles races.
	if _, err := s.gameRepo.GetByTitle(ctx, in.Title); err == nil {
		return nil, ErrDuplicateTitle
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	game := in.ToModel()
	if err := s.gameRepo.Create(ctx, &game); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}

	s.catalog.Invalidate(ctx)
	resp := dto.FromModelToGameResponse(game)
	return &resp, nil
}

func (s *gameService) Update(ctx context.Context, id int64, in dto.UpdateGameDTO) (*dto.GameResponse, error) {
	if in.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, ErrInvalidTitle
		}
		in.Title = &trimmed
	}

	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	in.ApplyTo(game)
	if err := s.gameRepo.Update(ctx, game); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}

	s.catalog.Invalidate(ctx)
	resp := dto.FromModelToGameResponse(*game)
	return &resp, nil
}

// Delete removes a game; the store cascades deletion of its reviews.
func (s *gameService) Delete(ctx context.Context, id int64) error {
	if err := s.gameRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	s.catalog.Invalidate(ctx)
	return nil
}

func (s *gameService) Top(ctx context.Context, limit int) ([]dto.GameResponse, error) {
	key := fmt.Sprintf("catalog:top:%d", limit)
	var cached []dto.GameResponse
	if s.catalog.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	games, err := s.gameRepo.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, dto.FromModelToGameResponse(g))
	}
	s.catalog.SetJSON(ctx, key, resp)
	return resp, nil
}

func (s *gameService) Recent(ctx context.Context, limit int) ([]dto.GameResponse, error) {
	key := fmt.Sprintf("catalog:recent:%d", limit)
	var cached []dto.GameResponse
	if s.catalog.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	games, err := s.gameRepo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, dto.FromModelToGameResponse(g))
	}
	s.catalog.SetJSON(ctx, key, resp)
	return resp, nil
}

func (s *gameService) Genres(ctx context.Context) ([]string, error) {
	return s.distinctLabels(ctx, "catalog:genres", s.gameRepo.DistinctGenres)
}

func (s *gameService) Platforms(ctx context.Context) ([]string, error) {
	return s.distinctLabels(ctx, "catalog:platforms", s.gameRepo.DistinctPlatforms)
}

func (s *gameService) distinctLabels(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	var cached []string
	if s.catalog.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	labels, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetJSON(ctx, key, labels)
	return labels, nil
}

// AttachCover records the stored cover path on a game.
func (s *gameService) AttachCover(ctx context.Context, id int64, coverPath string) (*dto.CoverUploadResponse, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	game.CoverImagePath = &coverPath
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, err
	}

	s.catalog.Invalidate(ctx)
	return &dto.CoverUploadResponse{
		GameID:         game.ID,
		CoverImagePath: coverPath,
	}, nil
}
