package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gamehub/internal/models"

	"gorm.io/gorm"
)

// GameFilter is the structured filter for catalog listing. Absent fields
// contribute no predicate; predicates are ANDed. Genre and platform
// filtering uses contains-all semantics: the game's label set must be a
// superset of the requested labels.
type GameFilter struct {
	Query     string
	Genres    []string
	Platforms []string
	Developer string
	MinYear   *int
	MaxYear   *int
	MinRating *float64
	MaxRating *float64
}

type GameRepository interface {
	Find(ctx context.Context, filter GameFilter, page, pageSize int) ([]models.Game, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	GetByTitle(ctx context.Context, title string) (*models.Game, error)
	Create(ctx context.Context, g *models.Game) error
	Update(ctx context.Context, g *models.Game) error
	Delete(ctx context.Context, id int64) error
	Top(ctx context.Context, limit int) ([]models.Game, error)
	Recent(ctx context.Context, limit int) ([]models.Game, error)
	DistinctGenres(ctx context.Context) ([]string, error)
	DistinctPlatforms(ctx context.Context) ([]string, error)
	SetAverageRating(ctx context.Context, gameID int64, avg float64) error
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// applyFilter translates the structured filter into query predicates.
func applyFilter(db *gorm.DB, f GameFilter) *gorm.DB {
	if f.Query != "" {
		p := "%" + f.Query + "%"
		// COALESCE so NULL descriptions don't defeat the ILIKE
		db = db.Where("(title ILIKE ? OR COALESCE(description, '') ILIKE ?)", p, p)
	}
	if len(f.Genres) > 0 {
		b, _ := json.Marshal(f.Genres)
		db = db.Where("genres @> ?::jsonb", string(b))
	}
	if len(f.Platforms) > 0 {
		b, _ := json.Marshal(f.Platforms)
		db = db.Where("platforms @> ?::jsonb", string(b))
	}
	if f.Developer != "" {
		db = db.Where("COALESCE(developer, '') ILIKE ?", "%"+f.Developer+"%")
	}
	if f.MinYear != nil {
		db = db.Where("release_year >= ?", *f.MinYear)
	}
	if f.MaxYear != nil {
		db = db.Where("release_year <= ?", *f.MaxYear)
	}
	if f.MinRating != nil {
		db = db.Where("average_rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		db = db.Where("average_rating <= ?", *f.MaxRating)
	}
	return db
}

// Find returns one page of the filtered catalog plus the total count
// across all pages. Ordering is by id ascending so pages are stable
// under a fixed data set.
func (r *gameRepository) Find(ctx context.Context, filter GameFilter, page, pageSize int) ([]models.Game, int64, error) {
	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Game{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	var list []models.Game
	offset := (page - 1) * pageSize
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Game{}), filter).
		Order("id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("find games: %w", err)
	}
	return list, total, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	var g models.Game
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByTitle does a case-sensitive exact match, mirroring the unique
// index on title.
func (r *gameRepository) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	var g models.Game
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) Create(ctx context.Context, g *models.Game) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gameRepository) Update(ctx context.Context, g *models.Game) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gameRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Game{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gameRepository) Top(ctx context.Context, limit int) ([]models.Game, error) {
	var list []models.Game
	if err := r.db.WithContext(ctx).
		Order("average_rating desc").
		Order("id asc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("top games: %w", err)
	}
	return list, nil
}

func (r *gameRepository) Recent(ctx context.Context, limit int) ([]models.Game, error) {
	var list []models.Game
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}
	return list, nil
}

func (r *gameRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, "genres")
}

func (r *gameRepository) DistinctPlatforms(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, "platforms")
}

// distinctLabels flattens a JSONB array column into its distinct string
// elements across all games.
func (r *gameRepository) distinctLabels(ctx context.Context, column string) ([]string, error) {
	labels := []string{}
	query := fmt.Sprintf(
		"SELECT DISTINCT jsonb_array_elements_text(%s) AS label FROM games ORDER BY label ASC",
		column,
	)
	if err := r.db.WithContext(ctx).Raw(query).Scan(&labels).Error; err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return labels, nil
}

func (r *gameRepository) SetAverageRating(ctx context.Context, gameID int64, avg float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", gameID).
		Update("average_rating", avg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
