package schedule

import (
	"time"

	appErrors "github.com/unclebandit/outreach-scheduler/internal/errors"
)

// SwapOutcome reports the instants each send ended up with. Reverted is true
// when the swap brought the working set back to the baseline.
type SwapOutcome struct {
	DraggedID string    `json:"dragged_id"`
	TargetID  string    `json:"target_id"`
	DraggedAt time.Time `json:"dragged_at"`
	TargetAt  time.Time `json:"target_at"`
	Reverted  bool      `json:"reverted"`
}

// SwapEngine exchanges the positions of two sends in a tracker's working set.
type SwapEngine struct {
	Policy LockPolicy
}

func NewSwapEngine(policy LockPolicy) *SwapEngine {
	return &SwapEngine{Policy: policy}
}

// Validate checks a swap without performing it.
func (e *SwapEngine) Validate(t *ChangeTracker, draggedID, targetID string, now time.Time) error {
	if draggedID == targetID {
		return appErrors.NewValidationError(appErrors.ReasonSameSend, targetID)
	}
	if _, ok := t.workingSend(draggedID); !ok {
		return appErrors.NewValidationError(appErrors.ReasonNotFound, draggedID)
	}
	target, ok := t.workingSend(targetID)
	if !ok {
		return appErrors.NewValidationError(appErrors.ReasonNotFound, targetID)
	}
	if e.Policy.IsLocked(*target, now) {
		return appErrors.NewValidationError(appErrors.ReasonLocked, targetID)
	}
	return nil
}

// Swap exchanges the complete ScheduledAt of both sends. The dragged send's
// lock is checked at drag start, not here. On error nothing is changed.
func (e *SwapEngine) Swap(t *ChangeTracker, draggedID, targetID string, now time.Time) (SwapOutcome, error) {
	if err := e.Validate(t, draggedID, targetID, now); err != nil {
		return SwapOutcome{}, err
	}
	dragged, _ := t.workingSend(draggedID)
	target, _ := t.workingSend(targetID)

	dragged.ScheduledAt, target.ScheduledAt = target.ScheduledAt, dragged.ScheduledAt

	return SwapOutcome{
		DraggedID: draggedID,
		TargetID:  targetID,
		DraggedAt: dragged.ScheduledAt,
		TargetAt:  target.ScheduledAt,
		Reverted:  !t.IsDirty(),
	}, nil
}
