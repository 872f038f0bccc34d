package services

import (
	"context"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

type MovieBrowseInput struct {
	Genre  string
	Year   int
	SortBy string
	Limit  int
	Offset int
}

type MovieBrowseResult struct {
	Movies          []*types.Movie `json:"movies"`
	Total           int64          `json:"total"`
	Limit           int            `json:"limit"`
	Offset          int            `json:"offset"`
	AvailableGenres []string       `json:"availableGenres"`
}

type MovieCatalog struct {
	log    *logger.Logger
	movies repos.MovieRepo
}

func NewMovieCatalog(movies repos.MovieRepo, baseLog *logger.Logger) *MovieCatalog {
	svcLog := baseLog.With("service", "MovieCatalog")
	return &MovieCatalog{log: svcLog, movies: movies}
}

// Browse lists movies along the genre and year axes, along with the set of
// genres the catalog currently holds.
func (s *MovieCatalog) Browse(ctx context.Context, input MovieBrowseInput) (*MovieBrowseResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	movies, total, err := s.movies.List(ctx, nil, repos.MovieListFilter{
		Genre:  input.Genre,
		Year:   input.Year,
		SortBy: input.SortBy,
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	genres, err := s.movies.DistinctPrimaryGenres(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &MovieBrowseResult{
		Movies:          movies,
		Total:           total,
		Limit:           limit,
		Offset:          input.Offset,
		AvailableGenres: genres,
	}, nil
}
