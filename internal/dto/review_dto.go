package dto

import (
	"time"

	"gamehub/internal/models"
)

// CreateReviewDTO used for POST /api/v1/reviews. The origin address is
// taken from the connection, not the body.
type CreateReviewDTO struct {
	GameID int64   `json:"game_id" binding:"required"`
	Rating int     `json:"rating" binding:"required,min=1,max=5"`
	Text   *string `json:"text,omitempty"`
}

// UpdateReviewDTO used for PATCH /api/v1/reviews/:id (partial updates allowed)
type UpdateReviewDTO struct {
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Text   *string `json:"text,omitempty"`
}

func (d UpdateReviewDTO) IsEmpty() bool {
	return d.Rating == nil && d.Text == nil
}

// ReviewResponse for returning review information
type ReviewResponse struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	IPAddress string    `json:"ip_address"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		GameID:    r.GameID,
		IPAddress: r.IPAddress,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// ReviewListResponse is the paginated envelope for a game's reviews.
type ReviewListResponse struct {
	Items    []ReviewResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

func NewReviewListResponse(items []ReviewResponse, total int64, page, pageSize int) *ReviewListResponse {
	return &ReviewListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    TotalPages(total, pageSize),
	}
}
