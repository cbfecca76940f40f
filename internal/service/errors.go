package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by the services. Handlers translate these
// into HTTP statuses; anything else is an internal error.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateTitle  = errors.New("a game with this title already exists")
	ErrDuplicateReview = errors.New("this address has already reviewed this game")
	ErrEmptyUpdate     = errors.New("no fields supplied for update")
	ErrInvalidTitle    = errors.New("title must not be empty")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). The constraint is the authoritative
// duplicate check; pre-insert lookups are only a fast path.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
