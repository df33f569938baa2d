package seatmap

import (
	"fmt"
	"regexp"
	"strconv"
)

// seatIDPattern は座席IDの文法（行ラベル1文字 + 正の座席番号）
var seatIDPattern = regexp.MustCompile(`^([A-Z])([1-9][0-9]*)$`)

// SeatID は1つの座席を識別する（例: "A1" = 行A・番号1）
type SeatID struct {
	Row    string
	Number int
}

// String は "A1" 形式の文字列表現を返す
func (s SeatID) String() string {
	return s.Row + strconv.Itoa(s.Number)
}

// ParseSeatID は "A1" 形式の文字列をSeatIDに変換する
func ParseSeatID(raw string) (SeatID, error) {
	m := seatIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeatID, raw)
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeatID, raw)
	}
	return SeatID{Row: m[1], Number: num}, nil
}

// ParseSeatIDs は座席ID列を検証付きで変換する
// 空列・文法違反・重複はエラー
func ParseSeatIDs(raw []string) ([]SeatID, error) {
	if len(raw) == 0 {
		return nil, ErrSeatIDsRequired
	}
	seen := make(map[string]struct{}, len(raw))
	ids := make([]SeatID, 0, len(raw))
	for _, r := range raw {
		id, err := ParseSeatID(r)
		if err != nil {
			return nil, err
		}
		key := id.String()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeatID, key)
		}
		seen[key] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// SeatIDStrings はSeatID列を文字列列に変換する
func SeatIDStrings(ids []SeatID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
