package seatmap

import (
	"fmt"
	"sort"
	"time"
)

// Row は1行分の座席区分（空席と予約済み）を表す
// 両者の和集合は上映の生成後に変化しない。座席は空席→予約済みにのみ遷移する
type Row struct {
	Available []int `json:"available"`
	Occupied  []int `json:"occupied"`
}

// SeatMap は1つの上映に対する座席区分状態を表す
// Version は成功した変更ごとに単調増加し、楽観的ロックに使用する
type SeatMap struct {
	ScreeningID string          `json:"screening_id"`
	Rows        map[string]*Row `json:"rows"`
	Version     int             `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewSeatMap は全席空席の座席マップを作成する
func NewSeatMap(screeningID string, rows map[string][]int) *SeatMap {
	m := &SeatMap{
		ScreeningID: screeningID,
		Rows:        make(map[string]*Row, len(rows)),
		Version:     0,
		UpdatedAt:   time.Now(),
	}
	for label, numbers := range rows {
		available := make([]int, len(numbers))
		copy(available, numbers)
		sort.Ints(available)
		m.Rows[label] = &Row{Available: available, Occupied: []int{}}
	}
	return m
}

// Clone は座席マップの深いコピーを返す
func (m *SeatMap) Clone() *SeatMap {
	c := &SeatMap{
		ScreeningID: m.ScreeningID,
		Rows:        make(map[string]*Row, len(m.Rows)),
		Version:     m.Version,
		UpdatedAt:   m.UpdatedAt,
	}
	for label, row := range m.Rows {
		available := make([]int, len(row.Available))
		copy(available, row.Available)
		occupied := make([]int, len(row.Occupied))
		copy(occupied, row.Occupied)
		c.Rows[label] = &Row{Available: available, Occupied: occupied}
	}
	return c
}

// Contains は座席がこの座席マップに存在するか（空席・予約済みを問わず）を返す
func (m *SeatMap) Contains(id SeatID) bool {
	row, ok := m.Rows[id.Row]
	if !ok {
		return false
	}
	return containsInt(row.Available, id.Number) || containsInt(row.Occupied, id.Number)
}

// IsAvailable は座席が現在空席かを返す
func (m *SeatMap) IsAvailable(id SeatID) bool {
	row, ok := m.Rows[id.Row]
	if !ok {
		return false
	}
	return containsInt(row.Available, id.Number)
}

// Occupy は指定座席を空席から予約済みへ遷移させ、Versionを進める
// いずれかの座席が空席でなければ最初の該当座席を示すエラーを返し、状態は変更しない
func (m *SeatMap) Occupy(ids []SeatID) error {
	for _, id := range ids {
		if !m.IsAvailable(id) {
			return fmt.Errorf("%w: %s", ErrSeatUnavailable, id)
		}
	}
	for _, id := range ids {
		row := m.Rows[id.Row]
		row.Available = removeInt(row.Available, id.Number)
		row.Occupied = insertSorted(row.Occupied, id.Number)
	}
	m.Version++
	m.UpdatedAt = time.Now()
	return nil
}

// Release は指定座席を予約済みから空席へ戻し、Versionを進める
// 部分コミット補償の専用経路。予約済みでない座席を含む場合はエラー
func (m *SeatMap) Release(ids []SeatID) error {
	for _, id := range ids {
		row, ok := m.Rows[id.Row]
		if !ok || !containsInt(row.Occupied, id.Number) {
			return fmt.Errorf("%w: %s", ErrSeatNotOccupied, id)
		}
	}
	for _, id := range ids {
		row := m.Rows[id.Row]
		row.Occupied = removeInt(row.Occupied, id.Number)
		row.Available = insertSorted(row.Available, id.Number)
	}
	m.Version++
	m.UpdatedAt = time.Now()
	return nil
}

// Validate は座席区分の不変条件（空席と予約済みが互いに素）を検証する
func (m *SeatMap) Validate() error {
	for label, row := range m.Rows {
		occupied := make(map[int]struct{}, len(row.Occupied))
		for _, n := range row.Occupied {
			occupied[n] = struct{}{}
		}
		for _, n := range row.Available {
			if _, ok := occupied[n]; ok {
				return fmt.Errorf("行%sの座席%dが空席と予約済みの両方に存在します", label, n)
			}
		}
	}
	return nil
}

func containsInt(s []int, v int) bool {
	for _, n := range s {
		if n == v {
			return true
		}
	}
	return false
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, n := range s {
		if n != v {
			out = append(out, n)
		}
	}
	return out
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
