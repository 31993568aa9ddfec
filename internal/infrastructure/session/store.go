package session

import (
	"context"
	"sync"
	"time"
)

// Store 按用户 ID 保存会话状态。Set 会覆盖已有状态。
type Store interface {
	Get(ctx context.Context, userID int64) (State, bool, error)
	Set(ctx context.Context, userID int64, st State) error
	Clear(ctx context.Context, userID int64) error
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore 是进程内实现，过期条目在读取时忽略并由 Sweeper 定期清理。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore 构造内存会话存储。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock 提供测试替换时钟的能力。
func (s *MemoryStore) WithClock(fn func() time.Time) *MemoryStore {
	if fn != nil {
		s.now = fn
	}
	return s
}

// Get 返回未过期的状态。
func (s *MemoryStore) Get(_ context.Context, userID int64) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || !s.now().Before(e.expires) {
		return State{}, false, nil
	}
	return e.state, true, nil
}

// Set 写入状态并刷新过期时间。
func (s *MemoryStore) Set(_ context.Context, userID int64, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{state: st, expires: s.now().Add(s.ttl)}
	return nil
}

// Clear 删除状态。
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// Sweep 删除全部过期条目，返回删除数量。
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len 返回当前条目数（含未清理的过期条目）。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
