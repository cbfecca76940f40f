package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"gamehub/internal/service"
	"gamehub/internal/storage"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto the API's error taxonomy. Anything
// outside the taxonomy is logged and reported as an opaque 500; store
// detail never leaks to clients.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, storage.ErrUnsupportedImageType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
