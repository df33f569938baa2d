package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound   = errors.New("予約が見つかりません")
	ErrReservationIDRequired = errors.New("予約IDは必須です")
	ErrScreeningIDRequired   = errors.New("上映IDは必須です")
	ErrSeatIDsRequired       = errors.New("座席IDは1つ以上指定してください")
	ErrDuplicateReservation  = errors.New("同じIDの予約が既に存在します")
)
