package persistence

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

type memorySave struct {
	blob    string
	version string
	savedAt time.Time
}

// Memory is an in-process save store with the same contract as DB.
type Memory struct {
	mu     sync.Mutex
	saves  map[string]memorySave
	writes int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{saves: make(map[string]memorySave)}
}

func (m *Memory) Write(key, blob, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[key] = memorySave{blob: blob, version: version, savedAt: time.Now()}
	m.writes++
	return nil
}

func (m *Memory) Read(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saves[key]
	return s.blob, ok, nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, key)
	return nil
}

func (m *Memory) Saved() ([]SaveInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]SaveInfo, 0, len(m.saves))
	for key, s := range m.saves {
		infos = append(infos, SaveInfo{
			Key:           key,
			Version:       s.version,
			SavedAt:       s.savedAt,
			Size:          len(s.blob),
			SavedAtMillis: s.savedAt.UnixMilli(),
		})
	}
	slices.SortFunc(infos, func(a, b SaveInfo) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return infos, nil
}

// Writes counts successful writes. Tests use it to observe debouncing.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
