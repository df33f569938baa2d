package catalog

// Movie は上映作品のメタデータを表す
type Movie struct {
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}

// Screening は特定の日時・スクリーンでの上映回を表す
// スケジュールIDで識別される
type Screening struct {
	ScheduleID string `json:"schedule_id"`
	MovieID    string `json:"movie_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Theater    string `json:"theater"`
}

// MovieFilter は作品一覧の絞り込み条件
type MovieFilter struct {
	// Date は上映日（YYYY-MM-DD）。指定時はその日に上映回がある作品に絞る
	Date string
	// SearchQuery はタイトルの部分一致検索キーワード
	SearchQuery string
	// Genre はジャンルの完全一致フィルタ
	Genre string
}

// ScreeningFilter は上映回一覧の絞り込み条件
type ScreeningFilter struct {
	MovieID string
	Date    string
}
