package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
)

// MockTransactor runs fn directly.
type MockTransactor struct {
	Calls int
}

func (m *MockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

// MockLedgerLock is an in-process lock that records acquisitions.
type MockLedgerLock struct {
	mu       sync.Mutex
	held     map[uint]bool
	Acquired []uint
	Err      error
}

func NewMockLedgerLock() *MockLedgerLock {
	return &MockLedgerLock{held: make(map[uint]bool)}
}

func (m *MockLedgerLock) Acquire(ctx context.Context, assignmentID uint) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.held[assignmentID] {
		return nil, context.DeadlineExceeded
	}
	m.held[assignmentID] = true
	m.Acquired = append(m.Acquired, assignmentID)
	return func() {
		m.mu.Lock()
		delete(m.held, assignmentID)
		m.mu.Unlock()
	}, nil
}

// Held reports whether assignmentID is currently locked.
func (m *MockLedgerLock) Held(assignmentID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[assignmentID]
}

// MockDeduplicator grants each (assignment, threshold) once.
type MockDeduplicator struct {
	mu    sync.Mutex
	taken map[string]bool
}

func NewMockDeduplicator() *MockDeduplicator {
	return &MockDeduplicator{taken: make(map[string]bool)}
}

func dedupeKey(id uint, threshold time.Time) string {
	return fmt.Sprintf("%d/%s", id, threshold.Format("2006-01-02"))
}

func (m *MockDeduplicator) TryAcquire(ctx context.Context, assignmentID uint, threshold time.Time, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := dedupeKey(assignmentID, threshold)
	if m.taken[k] {
		return false, nil
	}
	m.taken[k] = true
	return true, nil
}

func (m *MockDeduplicator) Release(ctx context.Context, assignmentID uint, threshold time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.taken, dedupeKey(assignmentID, threshold))
	return nil
}

// MockMailer is a testify mock of email.ReminderMailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendReminder(ctx context.Context, msg email.ReminderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPublisher is a testify mock of pubsub.ReminderEventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event pubsub.ReminderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
