package catalog

import "context"

// Repository はカタログ（作品・上映スケジュール）の読み取り専用インターフェース
// データはプロセス起動時に1回ロードされ、以後変更されない
type Repository interface {
	// GetMovie は作品IDから作品を取得する
	GetMovie(ctx context.Context, movieID string) (*Movie, error)

	// GetScreening はスケジュールIDから上映回を取得する
	GetScreening(ctx context.Context, scheduleID string) (*Screening, error)

	// FindMovieIDByTitle はタイトル完全一致で作品IDを検索する
	FindMovieIDByTitle(ctx context.Context, title string) (string, error)

	// ListMovies はフィルタ条件に合う作品一覧を返す
	ListMovies(ctx context.Context, filter MovieFilter) ([]*Movie, error)

	// ListScreenings はフィルタ条件に合う上映回一覧を返す
	ListScreenings(ctx context.Context, filter ScreeningFilter) ([]*Screening, error)
}
