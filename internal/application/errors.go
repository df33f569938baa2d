package application

import "errors"

// アプリケーション層のエラー定義
var (
	// ErrCommitContention は楽観的コミットの試行回数を使い切ったことを表す
	// 一時的な競合であり、呼び出し側が操作全体を再試行できる
	ErrCommitContention = errors.New("予約が混み合っています。時間をおいて再試行してください")

	// ErrReservationNotPersisted は座席マップのコミット後に予約ログへの
	// 追記が失敗したことを表す。補償処理が整合を回復する
	ErrReservationNotPersisted = errors.New("予約の永続化に失敗しました")

	// ErrIDGenerationFailed は衝突しない予約IDを生成できなかったことを表す
	ErrIDGenerationFailed = errors.New("予約IDの生成に失敗しました")

	// カタログ検索の入力検証エラー
	ErrInvalidDateFormat  = errors.New("日付はYYYY-MM-DD形式で指定してください")
	ErrSearchQueryTooLong = errors.New("検索キーワードは100文字以内で指定してください")
	ErrGenreTooLong       = errors.New("ジャンルは50文字以内で指定してください")
)
