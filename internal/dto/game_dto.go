package dto

import (
	"time"

	"gamehub/internal/models"

	"gorm.io/datatypes"
)

// CreateGameDTO used for POST /api/v1/games
type CreateGameDTO struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Developer   *string  `json:"developer,omitempty" binding:"omitempty,max=255"`
	Publisher   *string  `json:"publisher,omitempty" binding:"omitempty,max=255"`
	ReleaseYear int      `json:"release_year" binding:"required,min=1900,max=2030"`
}

// UpdateGameDTO used for PATCH /api/v1/games/:id (sparse patch, only
// supplied fields change)
type UpdateGameDTO struct {
	Title          *string  `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description    *string  `json:"description,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	Developer      *string  `json:"developer,omitempty" binding:"omitempty,max=255"`
	Publisher      *string  `json:"publisher,omitempty" binding:"omitempty,max=255"`
	ReleaseYear    *int     `json:"release_year,omitempty" binding:"omitempty,min=1900,max=2030"`
	CoverImagePath *string  `json:"cover_image_path,omitempty" binding:"omitempty,max=512"`
}

// IsEmpty reports whether the patch carries no fields at all. An empty
// patch is rejected at the handler with 422.
func (d UpdateGameDTO) IsEmpty() bool {
	return d.Title == nil && d.Description == nil && d.Genres == nil &&
		d.Platforms == nil && d.Developer == nil && d.Publisher == nil &&
		d.ReleaseYear == nil && d.CoverImagePath == nil
}

// ApplyTo copies the supplied fields onto an existing game.
func (d UpdateGameDTO) ApplyTo(g *models.Game) {
	if d.Title != nil {
		g.Title = *d.Title
	}
	if d.Description != nil {
		g.Description = d.Description
	}
	if d.Genres != nil {
		g.Genres = datatypes.NewJSONSlice(d.Genres)
	}
	if d.Platforms != nil {
		g.Platforms = datatypes.NewJSONSlice(d.Platforms)
	}
	if d.Developer != nil {
		g.Developer = d.Developer
	}
	if d.Publisher != nil {
		g.Publisher = d.Publisher
	}
	if d.ReleaseYear != nil {
		g.ReleaseYear = *d.ReleaseYear
	}
	if d.CoverImagePath != nil {
		g.CoverImagePath = d.CoverImagePath
	}
}

func (d CreateGameDTO) ToModel() models.Game {
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}
	platforms := d.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	return models.Game{
		Title:       d.Title,
		Description: d.Description,
		Genres:      datatypes.NewJSONSlice(genres),
		Platforms:   datatypes.NewJSONSlice(platforms),
		Developer:   d.Developer,
		Publisher:   d.Publisher,
		ReleaseYear: d.ReleaseYear,
	}
}

// GameResponse DTO for responses
type GameResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Genres         []string  `json:"genres"`
	Platforms      []string  `json:"platforms"`
	Developer      *string   `json:"developer,omitempty"`
	Publisher      *string   `json:"publisher,omitempty"`
	ReleaseYear    int       `json:"release_year"`
	CoverImagePath *string   `json:"cover_image_path,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	CreatedAt      time.Time `json:"created_at"`
}

// GameDetailResponse adds the review count for the single-game view.
type GameDetailResponse struct {
	GameResponse
	ReviewsCount int64 `json:"reviews_count"`
}

func FromModelToGameResponse(g models.Game) GameResponse {
	return GameResponse{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		Genres:         []string(g.Genres),
		Platforms:      []string(g.Platforms),
		Developer:      g.Developer,
		Publisher:      g.Publisher,
		ReleaseYear:    g.ReleaseYear,
		CoverImagePath: g.CoverImagePath,
		AverageRating:  g.AverageRating,
		CreatedAt:      g.CreatedAt,
	}
}

// GameListResponse is the paginated envelope for GET /api/v1/games.
type GameListResponse struct {
	Items    []GameResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Pages    int            `json:"pages"`
}

func NewGameListResponse(items []GameResponse, total int64, page, pageSize int) *GameListResponse {
	return &GameListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total/pageSize); 0 for an empty result set.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// CoverUploadResponse for PATCH /api/v1/games/:id/cover
type CoverUploadResponse struct {
	GameID         int64  `json:"game_id"`
	CoverImagePath string `json:"cover_image_path"`
}
