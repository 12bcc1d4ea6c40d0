package schedule

import (
	"sort"
	"time"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// Update is one absolute-time change to persist.
type Update struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_for"`
}

// SaveResult is the outcome of persisting one Update. Err is nil on success.
type SaveResult struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_for"`
	Err         error     `json:"-"`
}

func (r SaveResult) OK() bool { return r.Err == nil }

// MergeResult describes what an external delta changed.
type MergeResult struct {
	Removed       bool `json:"removed"`
	StatusChanged bool `json:"status_changed"`
	TimeChanged   bool `json:"time_changed"`
}

// ChangeTracker keeps the last persisted baseline next to the working set.
type ChangeTracker struct {
	baseline *SendSet
	working  *SendSet
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{baseline: NewSendSet(nil), working: NewSendSet(nil)}
}

// Load replaces both snapshots with independent copies of sends.
func (t *ChangeTracker) Load(sends []model.ScheduledSend) {
	t.baseline = NewSendSet(sends)
	t.working = NewSendSet(sends)
}

func (t *ChangeTracker) Baseline() []model.ScheduledSend { return t.baseline.All() }
func (t *ChangeTracker) Working() []model.ScheduledSend  { return t.working.All() }

func (t *ChangeTracker) workingSend(id string) (*model.ScheduledSend, bool) {
	return t.working.Get(id)
}

// IsDirty is true when the sets differ in size or any shared id differs in
// ScheduledAt.
func (t *ChangeTracker) IsDirty() bool {
	if t.working.Len() != t.baseline.Len() {
		return true
	}
	return len(t.PendingUpdates()) > 0
}

// PendingUpdates lists one entry per changed id, sorted by id.
func (t *ChangeTracker) PendingUpdates() []Update {
	var out []Update
	for _, w := range t.working.All() {
		b, ok := t.baseline.Get(w.ID)
		if ok && b.ScheduledAt.Equal(w.ScheduledAt) {
			continue
		}
		out = append(out, Update{ID: w.ID, ScheduledAt: w.ScheduledAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Commit copies each successful item into the baseline. Failed items stay
// dirty; there is no all-or-nothing step.
func (t *ChangeTracker) Commit(results []SaveResult) int {
	committed := 0
	for _, r := range results {
		if !r.OK() {
			continue
		}
		w, ok := t.working.Get(r.ID)
		if !ok {
			continue
		}
		b, ok := t.baseline.Get(r.ID)
		if !ok {
			t.baseline.Put(*w)
			b, _ = t.baseline.Get(r.ID)
		}
		b.ScheduledAt = r.ScheduledAt
		committed++
	}
	return committed
}

// Merge applies an external delta field by field. Status is server truth
// for both sets. A new time that differs from the baseline overrides both;
// one equal to the baseline leaves an uncommitted local move alone.
func (t *ChangeTracker) Merge(delta model.SendDelta) (MergeResult, bool) {
	w, ok := t.working.Get(delta.ID)
	if !ok {
		return MergeResult{}, false
	}
	var res MergeResult

	if delta.Status != nil {
		if delta.Status.Removed() {
			t.working.Remove(delta.ID)
			t.baseline.Remove(delta.ID)
			return MergeResult{Removed: true, StatusChanged: true}, true
		}
		if w.Status != *delta.Status {
			res.StatusChanged = true
		}
		w.Status = *delta.Status
		if b, ok := t.baseline.Get(delta.ID); ok {
			b.Status = *delta.Status
		}
	}

	if delta.ScheduledFor != nil {
		at := *delta.ScheduledFor
		b, ok := t.baseline.Get(delta.ID)
		if !ok || !b.ScheduledAt.Equal(at) {
			if ok {
				b.ScheduledAt = at
			}
			if !w.ScheduledAt.Equal(at) {
				res.TimeChanged = true
			}
			w.ScheduledAt = at
		}
	}
	return res, true
}
