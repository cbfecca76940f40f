package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gamehub/internal/dto"
	"gamehub/internal/repository"
	"gamehub/internal/service"
	"gamehub/internal/storage"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	svc    service.GameService
	covers *storage.CoverStore
	logger *slog.Logger
}

func NewGameHandler(svc service.GameService, covers *storage.CoverStore, logger *slog.Logger) *GameHandler {
	return &GameHandler{svc: svc, covers: covers, logger: logger}
}

func (h *GameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	games := rg.Group("/games")
	{
		games.GET("", h.List)
		games.GET("/top", h.Top)
		games.GET("/recent", h.Recent)
		games.GET("/genres", h.Genres)
		games.GET("/platforms", h.Platforms)
		games.GET("/:game_id", h.Get)
		games.POST("", h.Create)
		games.PATCH("/:game_id", h.Update)
		games.DELETE("/:game_id", h.Delete)
		games.PATCH("/:game_id/cover", h.UploadCover)
	}
}

// List handles GET /api/v1/games with filtering and pagination.
func (h *GameHandler) List(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	filter, ok := parseGameFilter(c)
	if !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "game_id")
	if !ok {
		return
	}

	game, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) Create(c *gin.Context) {
	var in dto.CreateGameDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	game, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "game_id")
	if !ok {
		return
	}

	var in dto.UpdateGameDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	game, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "game_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) Top(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	games, err := h.svc.Top(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) Recent(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	games, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) Genres(c *gin.Context) {
	labels, err := h.svc.Genres(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

func (h *GameHandler) Platforms(c *gin.Context) {
	labels, err := h.svc.Platforms(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

// UploadCover handles PATCH /api/v1/games/:game_id/cover with a
// multipart "cover_image" part.
func (h *GameHandler) UploadCover(c *gin.Context) {
	id, ok := parseID(c, "game_id")
	if !ok {
		return
	}

	// 404 before touching the filesystem
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	file, err := c.FormFile("cover_image")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cover_image file is required"})
		return
	}

	path, err := h.covers.Save(id, file)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp, err := h.svc.AttachCover(c.Request.Context(), id, path)
	if err != nil {
		// the game no longer references this file
		if rmErr := h.covers.Remove(path); rmErr != nil {
			h.logger.Warn("failed to remove orphaned cover", "path", path, "error", rmErr)
		}
		writeError(c, h.logger, err)
		return
	}

	if old := detail.CoverImagePath; old != nil && *old != path {
		if rmErr := h.covers.Remove(*old); rmErr != nil {
			h.logger.Warn("failed to remove replaced cover", "path", *old, "error", rmErr)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// parseGameFilter reads the optional catalog filter from query params.
// Comma-separated genre/platform lists mirror the query string format of
// the public API.
func parseGameFilter(c *gin.Context) (repository.GameFilter, bool) {
	filter := repository.GameFilter{
		Query:     strings.TrimSpace(c.Query("q")),
		Genres:    splitCommaSeparated(c.Query("genres")),
		Platforms: splitCommaSeparated(c.Query("platforms")),
		Developer: strings.TrimSpace(c.Query("developer")),
	}

	for param, dest := range map[string]**int{
		"min_year": &filter.MinYear,
		"max_year": &filter.MaxYear,
	} {
		if raw := c.Query(param); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid " + param})
				return filter, false
			}
			*dest = &v
		}
	}

	for param, dest := range map[string]**float64{
		"min_rating": &filter.MinRating,
		"max_rating": &filter.MaxRating,
	} {
		if raw := c.Query(param); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid " + param})
				return filter, false
			}
			*dest = &v
		}
	}

	return filter, true
}

func splitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parsePagination enforces page >= 1 and 1 <= page_size <= 100.
func parsePagination(c *gin.Context) (page, pageSize int, ok bool) {
	page, pageSize = 1, 10

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "page must be a positive integer"})
			return 0, 0, false
		}
		page = v
	}
	if raw := c.Query("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "page_size must be between 1 and 100"})
			return 0, 0, false
		}
		pageSize = v
	}
	return page, pageSize, true
}

// parseLimit enforces the 1..50 bound on top/recent list sizes.
func parseLimit(c *gin.Context) (int, bool) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 50 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be between 1 and 50"})
			return 0, false
		}
		limit = v
	}
	return limit, true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
