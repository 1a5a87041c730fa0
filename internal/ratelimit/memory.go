package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore: таблица окон в памяти процесса. Не переживает рестарт,
// что для анти-спама допустимо.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemoryStore создаёт стор и, если sweepEvery > 0, запускает чистку
// истёкших окон. Остановить: Stop().
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweepLoop(sweepEvery)
	}
	return s
}

// WithClock подменяет часы (для тестов).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, p Policy) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || !e.resetAt.After(now) {
		e = &entry{count: 1, resetAt: now.Add(p.Window)}
		s.entries[key] = e
		return Result{Allowed: true, Remaining: p.Limit - 1, ResetAt: e.resetAt}, nil
	}

	if e.count >= p.Limit {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}

	e.count++
	return Result{Allowed: true, Remaining: p.Limit - e.count, ResetAt: e.resetAt}, nil
}

// Sweep удаляет истёкшие окна и возвращает число удалённых ключей.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !e.resetAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len: количество живых ключей.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}
