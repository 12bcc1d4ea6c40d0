package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/outreach-scheduler/internal/model"
	"github.com/unclebandit/outreach-scheduler/internal/schedule"
)

func TestIsLocked(t *testing.T) {
	far := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	for _, st := range []model.SendStatus{
		model.SendStatusSending,
		model.SendStatusSent,
		model.SendStatusReplyReceived,
		model.SendStatusReplySent,
	} {
		assert.True(t, schedule.IsLocked(send("x", far, st), now), "%s in the future", st)
		assert.True(t, schedule.IsLocked(send("x", past, st), now), "%s in the past", st)
	}

	cases := []struct {
		name   string
		at     time.Time
		status model.SendStatus
		want   bool
	}{
		{"scheduled in 5 minutes", now.Add(5 * time.Minute), model.SendStatusScheduled, true},
		{"scheduled in 3 minutes", now.Add(3 * time.Minute), model.SendStatusScheduled, true},
		{"scheduled in 15 minutes", now.Add(15 * time.Minute), model.SendStatusScheduled, false},
		{"scheduled exactly 10 minutes out", now.Add(10 * time.Minute), model.SendStatusScheduled, false},
		{"scheduled exactly now", now, model.SendStatusScheduled, false},
		{"scheduled in the past", now.Add(-time.Minute), model.SendStatusScheduled, false},
		{"generated in 5 minutes", now.Add(5 * time.Minute), model.SendStatusGenerated, true},
		{"failed far out", far, model.SendStatusFailed, false},
		{"pending far out", far, model.SendStatusPendingScheduled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, schedule.IsLocked(send("x", tc.at, tc.status), now))
		})
	}
}

func TestLockPolicyWindow(t *testing.T) {
	p := schedule.NewLockPolicy(30 * time.Minute)
	assert.True(t, p.IsLocked(send("x", now.Add(15*time.Minute), model.SendStatusScheduled), now))

	assert.Equal(t, schedule.DefaultLockWindow, schedule.NewLockPolicy(0).Window)

	locked := p.LockedIDs([]model.ScheduledSend{
		send("soon", now.Add(20*time.Minute), model.SendStatusScheduled),
		send("later", now.Add(2*time.Hour), model.SendStatusScheduled),
		send("done", now.Add(-time.Hour), model.SendStatusSent),
	}, now)
	assert.Equal(t, map[string]bool{"soon": true, "done": true}, locked)
}
