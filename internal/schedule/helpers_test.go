package schedule_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// Wednesday 14 Oct 2026, 10:00 UTC.
var now = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

var (
	monday0900   = time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)
	tuesday1400  = time.Date(2026, time.October, 13, 14, 0, 0, 0, time.UTC)
	thursday1105 = time.Date(2026, time.October, 15, 11, 5, 0, 0, time.UTC)
)

func send(id string, at time.Time, status model.SendStatus) model.ScheduledSend {
	return model.ScheduledSend{
		ID:          id,
		ProspectID:  "p-" + id,
		ScheduledAt: at,
		Status:      status,
		MessageText: "hello " + id,
	}
}

func instants(sends []model.ScheduledSend) map[int64]int {
	out := map[int64]int{}
	for _, s := range sends {
		out[s.ScheduledAt.Unix()]++
	}
	return out
}

func byID(sends []model.ScheduledSend) map[string]model.ScheduledSend {
	out := make(map[string]model.ScheduledSend, len(sends))
	for _, s := range sends {
		out[s.ID] = s
	}
	return out
}

func statusPtr(s model.SendStatus) *model.SendStatus { return &s }
func timePtr(t time.Time) *time.Time                 { return &t }

// MockPersister records update calls and fails the configured ids.
type MockPersister struct {
	mu     sync.Mutex
	fail   map[string]bool
	calls  map[string]time.Time
	block  chan struct{}
	called chan struct{}
}

func NewMockPersister(failIDs ...string) *MockPersister {
	m := &MockPersister{fail: map[string]bool{}, calls: map[string]time.Time{}}
	for _, id := range failIDs {
		m.fail[id] = true
	}
	return m
}

func (m *MockPersister) UpdateScheduledTime(ctx context.Context, id string, at time.Time) error {
	if m.called != nil {
		m.called <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id] = at
	if m.fail[id] {
		return errors.New("backend unavailable")
	}
	return nil
}

func (m *MockPersister) Calls() map[string]time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]time.Time, len(m.calls))
	for k, v := range m.calls {
		out[k] = v
	}
	return out
}
