package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

// SeatMapStore は上映ごとに1つのJSONファイルで座席マップを永続化するストア
// 読み取り・検査・変更・書き込みの列は上映単位のミューテックスで直列化し、
// 加えて保存済みバージョンとの比較で条件付きコミットを実現する
type SeatMapStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSeatMapStore は座席マップ保存ディレクトリを指すストアを作成する
func NewSeatMapStore(dir string) (*SeatMapStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("座席マップディレクトリの作成に失敗: %w", err)
	}
	return &SeatMapStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// screeningLock は上映単位のミューテックスを返す
// 上映同士は独立しており、異なる上映の予約は互いにブロックしない
func (s *SeatMapStore) screeningLock(screeningID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[screeningID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[screeningID] = l
	}
	return l
}

func (s *SeatMapStore) path(screeningID string) string {
	return filepath.Join(s.dir, screeningID+".json")
}

// Get は座席マップの現在のスナップショットを取得する
func (s *SeatMapStore) Get(ctx context.Context, screeningID string) (*seatmap.SeatMap, error) {
	lock := s.screeningLock(screeningID)
	lock.Lock()
	defer lock.Unlock()
	return s.read(screeningID)
}

// CommitMove は expectedVersion が一致する場合のみ座席を予約済みへ遷移させる
func (s *SeatMapStore) CommitMove(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID, expectedVersion int) (*seatmap.SeatMap, error) {
	lock := s.screeningLock(screeningID)
	lock.Lock()
	defer lock.Unlock()

	m, err := s.read(screeningID)
	if err != nil {
		return nil, err
	}
	if m.Version != expectedVersion {
		return nil, fmt.Errorf("%w: 期待=%d 実際=%d", seatmap.ErrVersionConflict, expectedVersion, m.Version)
	}
	if err := m.Occupy(seatIDs); err != nil {
		return nil, err
	}
	if err := s.write(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CommitRelease は座席を予約済みから空席へ戻す補償遷移
func (s *SeatMapStore) CommitRelease(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID) (*seatmap.SeatMap, error) {
	lock := s.screeningLock(screeningID)
	lock.Lock()
	defer lock.Unlock()

	m, err := s.read(screeningID)
	if err != nil {
		return nil, err
	}
	if err := m.Release(seatIDs); err != nil {
		return nil, err
	}
	if err := s.write(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save は座席マップを無条件に保存する（シードの取り込み用）
func (s *SeatMapStore) Save(ctx context.Context, m *seatmap.SeatMap) error {
	lock := s.screeningLock(m.ScreeningID)
	lock.Lock()
	defer lock.Unlock()
	return s.write(m)
}

func (s *SeatMapStore) read(screeningID string) (*seatmap.SeatMap, error) {
	data, err := os.ReadFile(s.path(screeningID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, seatmap.ErrSeatMapNotFound
		}
		return nil, fmt.Errorf("座席マップの読み込みに失敗: %w", err)
	}
	var m seatmap.SeatMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("座席マップの解析に失敗: %w", err)
	}
	return &m, nil
}

// write は一時ファイルへの書き込み・fsync・renameで座席マップ全体を1単位として置き換える
func (s *SeatMapStore) write(m *seatmap.SeatMap) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("座席マップのシリアライズに失敗: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, m.ScreeningID+".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("座席マップの書き込みに失敗: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("座席マップの同期に失敗: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("一時ファイルのクローズに失敗: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(m.ScreeningID)); err != nil {
		return fmt.Errorf("座席マップの置き換えに失敗: %w", err)
	}
	return nil
}

// seedEntry はシードファイル（全上映をまとめた seat_availability.json）の1要素
type seedEntry struct {
	ScreeningID string           `json:"screening_id"`
	Rows        map[string][]int `json:"rows"`
}

// ImportSeed はシードファイルから座席マップを初期化する
// 既にマップが存在する上映はスキップし、取り込んだ件数を返す
func (s *SeatMapStore) ImportSeed(ctx context.Context, seedPath string) (int, error) {
	data, err := os.ReadFile(seedPath)
	if err != nil {
		return 0, fmt.Errorf("シードファイルの読み込みに失敗: %w", err)
	}
	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("シードファイルの解析に失敗: %w", err)
	}

	imported := 0
	for _, e := range entries {
		if _, err := s.Get(ctx, e.ScreeningID); err == nil {
			continue
		} else if !errors.Is(err, seatmap.ErrSeatMapNotFound) {
			return imported, err
		}
		if err := s.Save(ctx, seatmap.NewSeatMap(e.ScreeningID, e.Rows)); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

var _ seatmap.Store = (*SeatMapStore)(nil)
