package catalog

import "errors"

// Catalog ドメインのエラー定義
var (
	ErrMovieNotFound     = errors.New("作品が見つかりません")
	ErrScreeningNotFound = errors.New("上映回が見つかりません")
)
