package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// CounterSet is a lazily populated family of named counters.
type CounterSet struct {
	mu       sync.RWMutex
	counters map[string]*Counter
}

func NewCounterSet() *CounterSet {
	return &CounterSet{counters: make(map[string]*Counter)}
}

func (s *CounterSet) Get(name string) *Counter {
	s.mu.RLock()
	c, ok := s.counters[name]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.counters[name]; !ok {
		c = &Counter{}
		s.counters[name] = c
	}
	return c
}

func (s *CounterSet) Inc(name string) {
	s.Get(name).Inc()
}

// Snapshot returns the current value of every counter.
func (s *CounterSet) Snapshot() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]uint64, len(s.counters))
	for name, c := range s.counters {
		out[name] = c.Load()
	}
	return out
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
