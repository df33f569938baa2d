package application

import (
	"context"
	"regexp"

	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
)

// datePattern は上映日指定の形式（YYYY-MM-DD）
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const (
	maxSearchQueryLength = 100
	maxGenreLength       = 50
)

// CatalogService は作品・上映スケジュールの照会を提供する
type CatalogService struct {
	repo catalog.Repository
}

// NewCatalogService は新しいCatalogServiceを作成する
func NewCatalogService(repo catalog.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListMoviesInput は作品一覧の絞り込み条件
type ListMoviesInput struct {
	Date        string
	SearchQuery string
	Genre       string
}

// ListMovies はフィルタ条件に合う作品一覧を返す
// 日付形式と文字列長は照会前に検証する
func (s *CatalogService) ListMovies(ctx context.Context, input ListMoviesInput) ([]*catalog.Movie, error) {
	if input.Date != "" && !datePattern.MatchString(input.Date) {
		return nil, ErrInvalidDateFormat
	}
	if len(input.SearchQuery) > maxSearchQueryLength {
		return nil, ErrSearchQueryTooLong
	}
	if len(input.Genre) > maxGenreLength {
		return nil, ErrGenreTooLong
	}
	return s.repo.ListMovies(ctx, catalog.MovieFilter{
		Date:        input.Date,
		SearchQuery: input.SearchQuery,
		Genre:       input.Genre,
	})
}

// GetMovie は作品IDから作品を取得する
func (s *CatalogService) GetMovie(ctx context.Context, movieID string) (*catalog.Movie, error) {
	return s.repo.GetMovie(ctx, movieID)
}

// GetScreening はスケジュールIDから上映回を取得する
func (s *CatalogService) GetScreening(ctx context.Context, scheduleID string) (*catalog.Screening, error) {
	return s.repo.GetScreening(ctx, scheduleID)
}

// FindMovieIDByTitle はタイトル完全一致で作品IDを検索する
func (s *CatalogService) FindMovieIDByTitle(ctx context.Context, title string) (string, error) {
	return s.repo.FindMovieIDByTitle(ctx, title)
}

// ListScreenings はフィルタ条件に合う上映回一覧を返す
func (s *CatalogService) ListScreenings(ctx context.Context, movieID, date string) ([]*catalog.Screening, error) {
	if date != "" && !datePattern.MatchString(date) {
		return nil, ErrInvalidDateFormat
	}
	return s.repo.ListScreenings(ctx, catalog.ScreeningFilter{MovieID: movieID, Date: date})
}
