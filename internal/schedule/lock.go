package schedule

import (
	"time"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// DefaultLockWindow keeps sends due within this window away from the sender.
const DefaultLockWindow = 10 * time.Minute

// LockPolicy decides whether a send can be moved.
type LockPolicy struct {
	Window time.Duration
}

func NewLockPolicy(window time.Duration) LockPolicy {
	if window <= 0 {
		window = DefaultLockWindow
	}
	return LockPolicy{Window: window}
}

// IsLocked is true for sends already dispatched or in flight, and for sends
// due strictly within the next Window.
func (p LockPolicy) IsLocked(send model.ScheduledSend, now time.Time) bool {
	if send.Status.Dispatched() {
		return true
	}
	until := send.ScheduledAt.Sub(now)
	return until > 0 && until < p.Window
}

// LockedIDs returns the set of locked send ids at now.
func (p LockPolicy) LockedIDs(sends []model.ScheduledSend, now time.Time) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sends {
		if p.IsLocked(s, now) {
			out[s.ID] = true
		}
	}
	return out
}

// IsLocked applies the default policy.
func IsLocked(send model.ScheduledSend, now time.Time) bool {
	return NewLockPolicy(DefaultLockWindow).IsLocked(send, now)
}
