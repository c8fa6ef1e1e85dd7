// Package clock abstracts time so pricing timestamps are deterministic in tests.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time to aggregates and write plans.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func NewRealClock() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a settable clock. It is safe for the concurrent readers that
// bulk repricing workers are.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockClock creates a MockClock stopped at start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}
