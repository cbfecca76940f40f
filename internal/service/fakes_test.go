package service

import (
	"context"
	"sort"
	"strings"

	"gamehub/internal/models"
	"gamehub/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// In-memory repository fakes. They reproduce the store behaviors the
// services depend on: record-not-found signaling, unique constraint
// violations (SQLSTATE 23505), id ordering and cascade deletes.

type fakeGameRepo struct {
	games  map[int64]models.Game
	nextID int64

	// raceOnCreate makes Create fail with a unique violation even when
	// the pre-insert title check passed, simulating a concurrent writer.
	raceOnCreate bool

	failSetAverage bool
	reviews        *fakeReviewRepo
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[int64]models.Game{}, nextID: 1}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func (f *fakeGameRepo) sorted() []models.Game {
	list := make([]models.Game, 0, len(f.games))
	for _, g := range f.games {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// matchesFilter mirrors the SQL predicates of the real repository:
// case-insensitive substring match on title/description/developer,
// superset containment for genre and platform sets, inclusive ranges
// for year and rating.
func matchesFilter(g models.Game, f repository.GameFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		desc := ""
		if g.Description != nil {
			desc = *g.Description
		}
		if !strings.Contains(strings.ToLower(g.Title), q) &&
			!strings.Contains(strings.ToLower(desc), q) {
			return false
		}
	}
	if !containsAll(g.Genres, f.Genres) {
		return false
	}
	if !containsAll(g.Platforms, f.Platforms) {
		return false
	}
	if f.Developer != "" {
		dev := ""
		if g.Developer != nil {
			dev = *g.Developer
		}
		if !strings.Contains(strings.ToLower(dev), strings.ToLower(f.Developer)) {
			return false
		}
	}
	if f.MinYear != nil && g.ReleaseYear < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && g.ReleaseYear > *f.MaxYear {
		return false
	}
	if f.MinRating != nil && g.AverageRating < *f.MinRating {
		return false
	}
	if f.MaxRating != nil && g.AverageRating > *f.MaxRating {
		return false
	}
	return true
}

func containsAll(have []string, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeGameRepo) Find(ctx context.Context, filter repository.GameFilter, page, pageSize int) ([]models.Game, int64, error) {
	list := []models.Game{}
	for _, g := range f.sorted() {
		if matchesFilter(g, filter) {
			list = append(list, g)
		}
	}
	total := int64(len(list))
	offset := (page - 1) * pageSize
	if offset >= len(list) {
		return []models.Game{}, total, nil
	}
	end := offset + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], total, nil
}

func (f *fakeGameRepo) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (f *fakeGameRepo) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	for _, g := range f.games {
		if g.Title == title {
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGameRepo) Create(ctx context.Context, g *models.Game) error {
	if f.raceOnCreate {
		return uniqueViolation()
	}
	for _, existing := range f.games {
		if existing.Title == g.Title {
			return uniqueViolation()
		}
	}
	g.ID = f.nextID
	f.nextID++
	f.games[g.ID] = *g
	return nil
}

func (f *fakeGameRepo) Update(ctx context.Context, g *models.Game) error {
	if _, ok := f.games[g.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range f.games {
		if existing.ID != g.ID && existing.Title == g.Title {
			return uniqueViolation()
		}
	}
	f.games[g.ID] = *g
	return nil
}

func (f *fakeGameRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.games[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.games, id)
	if f.reviews != nil {
		// cascade
		for rid, r := range f.reviews.reviews {
			if r.GameID == id {
				delete(f.reviews.reviews, rid)
			}
		}
	}
	return nil
}

func (f *fakeGameRepo) Top(ctx context.Context, limit int) ([]models.Game, error) {
	list := f.sorted()
	sort.SliceStable(list, func(i, j int) bool { return list[i].AverageRating > list[j].AverageRating })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeGameRepo) Recent(ctx context.Context, limit int) ([]models.Game, error) {
	list := f.sorted()
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeGameRepo) distinct(pick func(models.Game) []string) []string {
	seen := map[string]bool{}
	for _, g := range f.games {
		for _, label := range pick(g) {
			seen[label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (f *fakeGameRepo) DistinctGenres(ctx context.Context) ([]string, error) {
	return f.distinct(func(g models.Game) []string { return g.Genres }), nil
}

func (f *fakeGameRepo) DistinctPlatforms(ctx context.Context) ([]string, error) {
	return f.distinct(func(g models.Game) []string { return g.Platforms }), nil
}

func (f *fakeGameRepo) SetAverageRating(ctx context.Context, gameID int64, avg float64) error {
	if f.failSetAverage {
		return gorm.ErrInvalidDB
	}
	g, ok := f.games[gameID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.AverageRating = avg
	f.games[gameID] = g
	return nil
}

// fakeCatalog records invalidations so tests can assert that writes
// flush the derived-read cache.
type fakeCatalog struct {
	invalidations int
}

func (f *fakeCatalog) GetJSON(ctx context.Context, key string, dest any) bool { return false }

func (f *fakeCatalog) SetJSON(ctx context.Context, key string, value any) {}

func (f *fakeCatalog) Invalidate(ctx context.Context) { f.invalidations++ }

type fakeReviewRepo struct {
	reviews map[int64]models.Review
	nextID  int64

	// raceOnCreate makes the duplicate pre-check miss so Create hits the
	// unique constraint, simulating a concurrent writer.
	raceOnCreate bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[int64]models.Review{}, nextID: 1}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	for _, existing := range f.reviews {
		if existing.GameID == review.GameID && existing.IPAddress == review.IPAddress {
			return uniqueViolation()
		}
	}
	review.ID = f.nextID
	f.nextID++
	f.reviews[review.ID] = *review
	return nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *models.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.reviews[review.ID] = *review
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeReviewRepo) GetByGameAndOrigin(ctx context.Context, gameID int64, ipAddress string) (*models.Review, error) {
	if f.raceOnCreate {
		return nil, gorm.ErrRecordNotFound
	}
	for _, r := range f.reviews {
		if r.GameID == gameID && r.IPAddress == ipAddress {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) GetByGame(ctx context.Context, gameID int64, page, pageSize int) ([]models.Review, int64, error) {
	var list []models.Review
	for _, r := range f.reviews {
		if r.GameID == gameID {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	total := int64(len(list))
	offset := (page - 1) * pageSize
	if offset >= len(list) {
		return []models.Review{}, total, nil
	}
	end := offset + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], total, nil
}

func (f *fakeReviewRepo) RatingsForGame(ctx context.Context, gameID int64) ([]int, error) {
	ratings := []int{}
	for _, r := range f.reviews {
		if r.GameID == gameID {
			ratings = append(ratings, r.Rating)
		}
	}
	return ratings, nil
}

func (f *fakeReviewRepo) CountForGame(ctx context.Context, gameID int64) (int64, error) {
	var count int64
	for _, r := range f.reviews {
		if r.GameID == gameID {
			count++
		}
	}
	return count, nil
}
