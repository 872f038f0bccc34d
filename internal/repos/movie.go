package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type MovieListFilter struct {
	Genre  string
	Year   int
	SortBy string
	Limit  int
	Offset int
}

type MovieRepo interface {
	Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Movie, error)
	GetByPrimaryGenre(ctx context.Context, tx *gorm.DB, genre string) ([]*types.Movie, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Movie, error)
	List(ctx context.Context, tx *gorm.DB, filter MovieListFilter) ([]*types.Movie, int64, error)
	DistinctPrimaryGenres(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type movieRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieRepo(db *gorm.DB, baseLog *logger.Logger) MovieRepo {
	repoLog := baseLog.With("repo", "MovieRepo")
	return &movieRepo{db: db, log: repoLog}
}

func (r *movieRepo) Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(movies) == 0 {
		return []*types.Movie{}, nil
	}
	for _, m := range movies {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Movie
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *movieRepo) GetByPrimaryGenre(ctx context.Context, tx *gorm.DB, genre string) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Movie
	if genre == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("primary_genre = ?", genre).
		Order("year ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *movieRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Movie
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *movieRepo) List(ctx context.Context, tx *gorm.DB, filter MovieListFilter) ([]*types.Movie, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.Movie{})
	if filter.Genre != "" {
		// Genre can appear as the primary genre or inside the JSON arrays.
		// Containment syntax differs per dialect, so the fallback scans the
		// serialized array text for the quoted value.
		if transaction.Dialector.Name() == "postgres" {
			arr := fmt.Sprintf(`["%s"]`, filter.Genre)
			query = query.Where("primary_genre = ? OR secondary_genres @> ? OR subgenres @> ?", filter.Genre, arr, arr)
		} else {
			pat := fmt.Sprintf(`%%"%s"%%`, filter.Genre)
			query = query.Where("primary_genre = ? OR secondary_genres LIKE ? OR subgenres LIKE ?", filter.Genre, pat, pat)
		}
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "title ASC"
	switch filter.SortBy {
	case "year":
		order = "year DESC"
	case "createdAt":
		order = "created_at DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var results []*types.Movie
	if err := query.Order(order).
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *movieRepo) DistinctPrimaryGenres(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var genres []string
	if err := transaction.WithContext(ctx).
		Model(&types.Movie{}).
		Distinct("primary_genre").
		Order("primary_genre ASC").
		Pluck("primary_genre", &genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
