package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-scheduler/internal/model"
	"github.com/unclebandit/outreach-scheduler/internal/queue"
	"github.com/unclebandit/outreach-scheduler/internal/repository"
)

// BaselineSource exposes the last persisted state the poller diffs against.
type BaselineSource interface {
	Baseline() []model.ScheduledSend
}

// Poller is the poll-based inbound update path: it reloads the user's sends
// and publishes a delta for every difference from the baseline.
type Poller struct {
	SendRepo repository.SendRepositoryInterface
	Baseline BaselineSource
	Bus      queue.Queue
	UserID   string
	Log      *zap.Logger
}

func NewPoller(repo repository.SendRepositoryInterface, baseline BaselineSource, bus queue.Queue, userID string, log *zap.Logger) *Poller {
	return &Poller{SendRepo: repo, Baseline: baseline, Bus: bus, UserID: userID, Log: log}
}

// Poll returns the number of deltas published.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	remote, err := p.SendRepo.LoadScheduledSends(ctx, p.UserID)
	if err != nil {
		return 0, err
	}
	deltas, added := DiffSends(p.Baseline.Baseline(), remote)
	if added > 0 {
		p.Log.Info("new sends on backend; reload to show them", zap.Int("count", added))
	}

	published := 0
	for _, d := range deltas {
		if err := p.Bus.Publish(queue.TopicSendUpdates, d); err != nil {
			return published, err
		}
		published++
	}
	if published > 0 {
		p.Log.Debug("poll published updates", zap.Int("count", published))
	}
	return published, nil
}

// DiffSends computes field-level deltas turning baseline into remote. Sends
// missing from remote become archived. It also returns how many remote
// sends the baseline does not know.
func DiffSends(baseline, remote []model.ScheduledSend) ([]model.SendDelta, int) {
	byID := make(map[string]model.ScheduledSend, len(remote))
	for _, r := range remote {
		byID[r.ID] = r
	}

	known := make(map[string]bool, len(baseline))
	var deltas []model.SendDelta
	for _, b := range baseline {
		known[b.ID] = true
		r, ok := byID[b.ID]
		if !ok {
			archived := model.SendStatusArchived
			deltas = append(deltas, model.SendDelta{ID: b.ID, Status: &archived})
			continue
		}

		d := model.SendDelta{ID: b.ID}
		changed := false
		if r.Status != b.Status {
			st := r.Status
			d.Status = &st
			changed = true
		}
		if !r.ScheduledAt.Equal(b.ScheduledAt) {
			at := r.ScheduledAt
			d.ScheduledFor = &at
			changed = true
		}
		if changed {
			deltas = append(deltas, d)
		}
	}

	added := 0
	for _, r := range remote {
		if !known[r.ID] {
			added++
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].ID < deltas[j].ID })
	return deltas, added
}
