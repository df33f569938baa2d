package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
)

func setupCatalog(t *testing.T) *CatalogRepository {
	dir := t.TempDir()
	moviesPath := filepath.Join(dir, "movies.json")
	schedulesPath := filepath.Join(dir, "schedules.json")

	movies := `[
		{"movie_id": "MOV001", "title": "銀河の果ての図書館", "genre": "SF", "duration": 128, "rating": "G", "description": "テスト用"},
		{"movie_id": "MOV002", "title": "真夜中のキッチン", "genre": "ドラマ", "duration": 104, "rating": "G", "description": "テスト用"},
		{"movie_id": "MOV003", "title": "図書館戦記", "genre": "アクション", "duration": 117, "rating": "PG12", "description": "テスト用"}
	]`
	schedules := `[
		{"schedule_id": "SCH001", "movie_id": "MOV001", "date": "2026-09-01", "start_time": "10:00", "end_time": "12:08", "theater": "スクリーン1"},
		{"schedule_id": "SCH002", "movie_id": "MOV002", "date": "2026-09-01", "start_time": "13:30", "end_time": "15:14", "theater": "スクリーン2"},
		{"schedule_id": "SCH003", "movie_id": "MOV001", "date": "2026-09-02", "start_time": "19:00", "end_time": "21:08", "theater": "スクリーン1"}
	]`
	require.NoError(t, os.WriteFile(moviesPath, []byte(movies), 0o644))
	require.NoError(t, os.WriteFile(schedulesPath, []byte(schedules), 0o644))

	repo, err := NewCatalogRepository(moviesPath, schedulesPath)
	require.NoError(t, err)
	return repo
}

func TestCatalogRepository_GetMovie(t *testing.T) {
	repo := setupCatalog(t)
	ctx := context.Background()

	t.Run("作品IDで取得できる", func(t *testing.T) {
		m, err := repo.GetMovie(ctx, "MOV001")
		require.NoError(t, err)
		assert.Equal(t, "銀河の果ての図書館", m.Title)
	})

	t.Run("存在しない作品はErrMovieNotFound", func(t *testing.T) {
		_, err := repo.GetMovie(ctx, "MOV999")
		assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
	})
}

func TestCatalogRepository_GetScreening(t *testing.T) {
	repo := setupCatalog(t)
	ctx := context.Background()

	t.Run("スケジュールIDで取得できる", func(t *testing.T) {
		s, err := repo.GetScreening(ctx, "SCH001")
		require.NoError(t, err)
		assert.Equal(t, "MOV001", s.MovieID)
		assert.Equal(t, "2026-09-01", s.Date)
	})

	t.Run("存在しない上映はErrScreeningNotFound", func(t *testing.T) {
		_, err := repo.GetScreening(ctx, "SCH999")
		assert.ErrorIs(t, err, catalog.ErrScreeningNotFound)
	})
}

func TestCatalogRepository_FindMovieIDByTitle(t *testing.T) {
	repo := setupCatalog(t)
	ctx := context.Background()

	t.Run("タイトル完全一致で検索できる", func(t *testing.T) {
		id, err := repo.FindMovieIDByTitle(ctx, "真夜中のキッチン")
		require.NoError(t, err)
		assert.Equal(t, "MOV002", id)
	})

	t.Run("部分一致では見つからない", func(t *testing.T) {
		_, err := repo.FindMovieIDByTitle(ctx, "真夜中")
		assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
	})
}

func TestCatalogRepository_ListMovies(t *testing.T) {
	repo := setupCatalog(t)
	ctx := context.Background()

	t.Run("フィルタなしは全件", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{})
		require.NoError(t, err)
		assert.Len(t, movies, 3)
	})

	t.Run("日付で絞り込める", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{Date: "2026-09-02"})
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "MOV001", movies[0].MovieID)
	})

	t.Run("タイトル部分一致で絞り込める", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{SearchQuery: "図書館"})
		require.NoError(t, err)
		assert.Len(t, movies, 2)
	})

	t.Run("ジャンル完全一致で絞り込める", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{Genre: "ドラマ"})
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "MOV002", movies[0].MovieID)
	})

	t.Run("複合フィルタ", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{Date: "2026-09-01", SearchQuery: "図書館"})
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "MOV001", movies[0].MovieID)
	})

	t.Run("一致なしは空列", func(t *testing.T) {
		movies, err := repo.ListMovies(ctx, catalog.MovieFilter{Genre: "ホラー"})
		require.NoError(t, err)
		assert.Empty(t, movies)
	})
}

func TestCatalogRepository_ListScreenings(t *testing.T) {
	repo := setupCatalog(t)
	ctx := context.Background()

	t.Run("作品IDで絞り込める", func(t *testing.T) {
		screenings, err := repo.ListScreenings(ctx, catalog.ScreeningFilter{MovieID: "MOV001"})
		require.NoError(t, err)
		assert.Len(t, screenings, 2)
	})

	t.Run("日付で絞り込める", func(t *testing.T) {
		screenings, err := repo.ListScreenings(ctx, catalog.ScreeningFilter{Date: "2026-09-01"})
		require.NoError(t, err)
		assert.Len(t, screenings, 2)
	})

	t.Run("作品IDと日付の複合", func(t *testing.T) {
		screenings, err := repo.ListScreenings(ctx, catalog.ScreeningFilter{MovieID: "MOV001", Date: "2026-09-01"})
		require.NoError(t, err)
		require.Len(t, screenings, 1)
		assert.Equal(t, "SCH001", screenings[0].ScheduleID)
	})
}

func TestNewCatalogRepository_MissingFile(t *testing.T) {
	dir := t.TempDir()
	moviesPath := filepath.Join(dir, "movies.json")
	require.NoError(t, os.WriteFile(moviesPath, []byte(`[]`), 0o644))

	_, err := NewCatalogRepository(moviesPath, filepath.Join(dir, "no-such.json"))

	require.Error(t, err)
}
