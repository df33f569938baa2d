package seatmap

import "context"

// Store は座席マップストアのインターフェース
// CommitMove の条件付きコミットが二重予約防止の中核となる
type Store interface {
	// Get は座席マップの現在のスナップショットを取得する
	Get(ctx context.Context, screeningID string) (*SeatMap, error)

	// CommitMove は expectedVersion が一致する場合のみ、指定座席を
	// 空席から予約済みへアトミックに遷移させる
	// バージョン不一致は ErrVersionConflict、空席でない座席は
	// ErrSeatUnavailable（最初の該当座席名を含む）を返す
	CommitMove(ctx context.Context, screeningID string, seatIDs []SeatID, expectedVersion int) (*SeatMap, error)

	// CommitRelease は指定座席を予約済みから空席へ戻す補償遷移
	// 予約ログへの追記が失敗した場合の整合回復のみに使用する
	CommitRelease(ctx context.Context, screeningID string, seatIDs []SeatID) (*SeatMap, error)
}
