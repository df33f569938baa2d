package reservation

import "context"

// Log は追記専用・永続の予約ログのインターフェース
// 追記されたレコードは書き換えも削除もされない
type Log interface {
	// Append は予約レコードを永続化する
	// 成功を返した時点でクラッシュ後もレコードが残ることを保証する
	// 同じ予約IDの再追記は冪等（成功として扱う）
	Append(ctx context.Context, r *Reservation) error

	// GetByID は予約IDからレコードを取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// ListByScreening は上映IDに紐づく予約一覧を返す（監査・デバッグ用）
	ListByScreening(ctx context.Context, screeningID string) ([]*Reservation, error)
}
