package seatmap

import "sort"

// RowView は1行分の座席一覧（ソート済み）を表す読み取り専用ビュー
type RowView struct {
	Row       string `json:"row"`
	Available []int  `json:"available"`
	Occupied  []int  `json:"occupied"`
}

// View は座席マップのスナップショットに対する読み取り専用の射影
type View struct {
	ScreeningID    string    `json:"screening_id"`
	Rows           []RowView `json:"rows"`
	AvailableCount int       `json:"available_count"`
	OccupiedCount  int       `json:"occupied_count"`
	TotalCount     int       `json:"total_count"`
	Version        int       `json:"version"`
}

// NewView は座席マップからビューを構築する（行ラベル順・番号昇順）
func NewView(m *SeatMap) *View {
	v := &View{
		ScreeningID: m.ScreeningID,
		Rows:        make([]RowView, 0, len(m.Rows)),
		Version:     m.Version,
	}
	labels := make([]string, 0, len(m.Rows))
	for label := range m.Rows {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		row := m.Rows[label]
		available := make([]int, len(row.Available))
		copy(available, row.Available)
		sort.Ints(available)
		occupied := make([]int, len(row.Occupied))
		copy(occupied, row.Occupied)
		sort.Ints(occupied)
		v.Rows = append(v.Rows, RowView{Row: label, Available: available, Occupied: occupied})
		v.AvailableCount += len(available)
		v.OccupiedCount += len(occupied)
	}
	v.TotalCount = v.AvailableCount + v.OccupiedCount
	return v
}
