package seatmap

import "errors"

// SeatMap ドメインのエラー定義
var (
	ErrSeatMapNotFound = errors.New("座席マップが見つかりません")
	ErrSeatUnavailable = errors.New("座席は既に予約されています")
	ErrUnknownSeat     = errors.New("座席マップに存在しない座席です")
	ErrVersionConflict = errors.New("座席マップのバージョンが競合しました")
	ErrInvalidSeatID   = errors.New("座席IDの形式が不正です")
	ErrDuplicateSeatID = errors.New("座席IDが重複しています")
	ErrSeatIDsRequired = errors.New("座席IDは1つ以上指定してください")
	ErrSeatNotOccupied = errors.New("座席は予約済みではありません")
)
