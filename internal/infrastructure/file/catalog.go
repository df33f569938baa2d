package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
)

// CatalogRepository はJSONファイルから読み込むカタログリポジトリ
// 起動時に movies.json と schedules.json を1回ロードし、以後は読み取り専用
type CatalogRepository struct {
	movies     []*catalog.Movie
	screenings []*catalog.Screening
	movieByID  map[string]*catalog.Movie
	byID       map[string]*catalog.Screening
}

// NewCatalogRepository は2つのJSONファイルからカタログを構築する
func NewCatalogRepository(moviesPath, schedulesPath string) (*CatalogRepository, error) {
	var movies []*catalog.Movie
	if err := loadJSON(moviesPath, &movies); err != nil {
		return nil, fmt.Errorf("作品データの読み込みに失敗: %w", err)
	}
	var screenings []*catalog.Screening
	if err := loadJSON(schedulesPath, &screenings); err != nil {
		return nil, fmt.Errorf("スケジュールデータの読み込みに失敗: %w", err)
	}

	r := &CatalogRepository{
		movies:     movies,
		screenings: screenings,
		movieByID:  make(map[string]*catalog.Movie, len(movies)),
		byID:       make(map[string]*catalog.Screening, len(screenings)),
	}
	for _, m := range movies {
		r.movieByID[m.MovieID] = m
	}
	for _, s := range screenings {
		r.byID[s.ScheduleID] = s
	}
	return r, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// GetMovie は作品IDから作品を取得する
func (r *CatalogRepository) GetMovie(_ context.Context, movieID string) (*catalog.Movie, error) {
	m, ok := r.movieByID[movieID]
	if !ok {
		return nil, catalog.ErrMovieNotFound
	}
	return m, nil
}

// GetScreening はスケジュールIDから上映回を取得する
func (r *CatalogRepository) GetScreening(_ context.Context, scheduleID string) (*catalog.Screening, error) {
	s, ok := r.byID[scheduleID]
	if !ok {
		return nil, catalog.ErrScreeningNotFound
	}
	return s, nil
}

// FindMovieIDByTitle はタイトル完全一致で作品IDを検索する
func (r *CatalogRepository) FindMovieIDByTitle(_ context.Context, title string) (string, error) {
	for _, m := range r.movies {
		if m.Title == title {
			return m.MovieID, nil
		}
	}
	return "", catalog.ErrMovieNotFound
}

// ListMovies はフィルタ条件に合う作品一覧を返す
func (r *CatalogRepository) ListMovies(_ context.Context, filter catalog.MovieFilter) ([]*catalog.Movie, error) {
	var dateMovieIDs map[string]struct{}
	if filter.Date != "" {
		dateMovieIDs = make(map[string]struct{})
		for _, s := range r.screenings {
			if s.Date == filter.Date {
				dateMovieIDs[s.MovieID] = struct{}{}
			}
		}
	}

	query := strings.ToLower(filter.SearchQuery)
	result := make([]*catalog.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		if dateMovieIDs != nil {
			if _, ok := dateMovieIDs[m.MovieID]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		if filter.Genre != "" && m.Genre != filter.Genre {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

// ListScreenings はフィルタ条件に合う上映回一覧を返す
func (r *CatalogRepository) ListScreenings(_ context.Context, filter catalog.ScreeningFilter) ([]*catalog.Screening, error) {
	result := make([]*catalog.Screening, 0, len(r.screenings))
	for _, s := range r.screenings {
		if filter.MovieID != "" && s.MovieID != filter.MovieID {
			continue
		}
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
