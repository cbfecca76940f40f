package handler

import (
	"log/slog"
	"net/http"

	"gamehub/internal/dto"
	"gamehub/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc    service.ReviewService
	logger *slog.Logger
}

func NewReviewHandler(svc service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers review routes. writeLimit throttles the
// endpoints that trigger rating recomputation.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("/:review_id", h.Get)
		reviews.GET("/game/:game_id", h.ListForGame)
		reviews.POST("", writeLimit, h.Create)
		reviews.PATCH("/:review_id", writeLimit, h.Update)
		reviews.DELETE("/:review_id", writeLimit, h.Delete)
	}
}

// Create handles POST /api/v1/reviews. The submitter's address is the
// deduplication key: one review per address per game.
func (h *ReviewHandler) Create(c *gin.Context) {
	var in dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Submit(c.Request.Context(), c.ClientIP(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	var in dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListForGame handles GET /api/v1/reviews/game/:game_id with pagination.
func (h *ReviewHandler) ListForGame(c *gin.Context) {
	gameID, ok := parseID(c, "game_id")
	if !ok {
		return
	}

	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListForGame(c.Request.Context(), gameID, page, pageSize)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
