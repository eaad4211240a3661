package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time as whole seconds since the Unix epoch.
type Clock interface {
	Now() int64
}

type system struct{}

// System returns a Clock backed by time.Now.
func System() Clock {
	return system{}
}

func (system) Now() int64 {
	return time.Now().Unix()
}

// Manual is a settable Clock for tests and tooling.
type Manual struct {
	mu  sync.Mutex
	now int64
}

func NewManual(now int64) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(now int64) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += int64(d / time.Second)
	m.mu.Unlock()
}
