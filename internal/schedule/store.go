package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/outreach-scheduler/internal/calendar"
	appErrors "github.com/unclebandit/outreach-scheduler/internal/errors"
	"github.com/unclebandit/outreach-scheduler/internal/model"
)

type State string

const (
	StateEmpty           State = "empty"
	StateLoaded          State = "loaded"
	StateDirty           State = "dirty"
	StateSaving          State = "saving"
	StatePartiallyFailed State = "partially_failed"
)

const defaultSaveConcurrency = 4

// Persister writes one send's new time to the backend.
type Persister interface {
	UpdateScheduledTime(ctx context.Context, id string, at time.Time) error
}

type Options struct {
	Location        *time.Location
	LockWindow      time.Duration
	ProximityWindow int
	SaveConcurrency int
	Logger          *zap.Logger
}

// SaveItem is the per-send line of a SaveReport.
type SaveItem struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_for"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
}

type SaveReport struct {
	BatchID   uuid.UUID  `json:"batch_id"`
	Items     []SaveItem `json:"items"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

func (r *SaveReport) FailedIDs() []string {
	var ids []string
	for _, it := range r.Items {
		if !it.OK {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// UpdateOutcome describes the effect of an external delta.
type UpdateOutcome struct {
	MergeResult
	DragCancelled bool  `json:"drag_cancelled"`
	Conflict      error `json:"-"`
}

// TickReport lists lock transitions since the previous tick.
type TickReport struct {
	NewlyLocked []string `json:"newly_locked"`
	Unlocked    []string `json:"unlocked"`
}

// Store is the single source of truth for the calendar. All mutations go
// through Load, ApplySwap, ApplyExternalUpdate, Dispatch and Save.
type Store struct {
	mu sync.Mutex

	log         *zap.Logger
	projector   *calendar.Projector
	policy      LockPolicy
	swapper     *SwapEngine
	tracker     *ChangeTracker
	proximity   int
	concurrency int

	view     calendar.View
	loaded   bool
	saving   bool
	drag     DragState
	failed   map[string]error
	lastSave *SaveReport
	locked   map[string]bool
}

func NewStore(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ProximityWindow <= 0 {
		opts.ProximityWindow = calendar.ProximityWindow
	}
	if opts.SaveConcurrency <= 0 {
		opts.SaveConcurrency = defaultSaveConcurrency
	}
	policy := NewLockPolicy(opts.LockWindow)
	return &Store{
		log:         opts.Logger,
		projector:   calendar.NewProjector(opts.Location),
		policy:      policy,
		swapper:     NewSwapEngine(policy),
		tracker:     NewChangeTracker(),
		proximity:   opts.ProximityWindow,
		concurrency: opts.SaveConcurrency,
		view:        calendar.ViewWeek,
		drag:        idleDrag(),
		failed:      map[string]error{},
		locked:      map[string]bool{},
	}
}

func (s *Store) Projector() *calendar.Projector { return s.projector }
func (s *Store) Policy() LockPolicy             { return s.policy }

// Load seeds baseline and working set. Any drag and save history is reset.
func (s *Store) Load(sends []model.ScheduledSend) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []model.ScheduledSend
	for _, send := range sends {
		if send.Status.Removed() {
			continue
		}
		kept = append(kept, send)
	}
	s.tracker.Load(kept)
	s.loaded = true
	s.drag = idleDrag()
	s.failed = map[string]error{}
	s.lastSave = nil
	s.locked = map[string]bool{}
	s.log.Info("schedule loaded", zap.Int("sends", len(kept)))
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	switch {
	case !s.loaded:
		return StateEmpty
	case s.saving:
		return StateSaving
	case !s.tracker.IsDirty():
		return StateLoaded
	}
	for _, u := range s.tracker.PendingUpdates() {
		if _, ok := s.failed[u.ID]; ok {
			return StatePartiallyFailed
		}
	}
	return StateDirty
}

func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.IsDirty()
}

func (s *Store) PendingUpdates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.PendingUpdates()
}

func (s *Store) Working() []model.ScheduledSend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Working()
}

func (s *Store) Baseline() []model.ScheduledSend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Baseline()
}

func (s *Store) Drag() DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag
}

func (s *Store) LastSave() *SaveReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

func (s *Store) View() calendar.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Store) SetView(v calendar.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// ApplySwap exchanges the positions of two sends. Unlike a drop, there is
// no prior drag start, so the dragged send's lock is checked here too.
func (s *Store) ApplySwap(draggedID, targetID string, now time.Time) (SwapOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMovableLocked(draggedID, now); err != nil {
		return SwapOutcome{}, err
	}
	return s.swapLocked(draggedID, targetID, now)
}

func (s *Store) checkMovableLocked(id string, now time.Time) error {
	if !s.loaded {
		return appErrors.ErrNotLoaded
	}
	if s.saving {
		return appErrors.NewValidationError(appErrors.ReasonSaving, id)
	}
	send, ok := s.tracker.workingSend(id)
	if !ok {
		return appErrors.NewValidationError(appErrors.ReasonNotFound, id)
	}
	if s.policy.IsLocked(*send, now) {
		return appErrors.NewValidationError(appErrors.ReasonLocked, id)
	}
	return nil
}

func (s *Store) swapLocked(draggedID, targetID string, now time.Time) (SwapOutcome, error) {
	out, err := s.swapper.Swap(s.tracker, draggedID, targetID, now)
	if err != nil {
		s.log.Info("swap rejected",
			zap.String("dragged_id", draggedID),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return SwapOutcome{}, err
	}
	s.log.Debug("swap applied",
		zap.String("dragged_id", draggedID),
		zap.String("target_id", targetID),
		zap.Bool("reverted", out.Reverted),
	)
	return out, nil
}

// Dispatch advances the drag-and-drop state machine. Cancelling never
// changes sends; dropping performs the swap and always ends the drag.
func (s *Store) Dispatch(cmd Command, now time.Time) (DragResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Kind {
	case CmdDragStart:
		if err := s.checkMovableLocked(cmd.SendID, now); err != nil {
			return DragResult{Drag: s.drag}, err
		}
		s.drag = DragState{Phase: DragDragging, SourceID: cmd.SendID}
		return DragResult{Drag: s.drag}, nil

	case CmdDragHover:
		if !s.drag.Active() {
			return DragResult{Drag: s.drag}, appErrors.NewValidationError(appErrors.ReasonNoDrag, cmd.SendID)
		}
		if cmd.SendID == "" || cmd.SendID == s.drag.SourceID {
			s.drag = DragState{Phase: DragDragging, SourceID: s.drag.SourceID}
		} else {
			s.drag = DragState{Phase: DragHovering, SourceID: s.drag.SourceID, TargetID: cmd.SendID}
		}
		return DragResult{Drag: s.drag}, nil

	case CmdDragLeave:
		if s.drag.Active() {
			s.drag = DragState{Phase: DragDragging, SourceID: s.drag.SourceID}
		}
		return DragResult{Drag: s.drag}, nil

	case CmdDrop:
		if !s.drag.Active() {
			return DragResult{Drag: s.drag}, appErrors.NewValidationError(appErrors.ReasonNoDrag, cmd.SendID)
		}
		source, target := s.drag.SourceID, cmd.SendID
		if target == "" {
			target = s.drag.TargetID
		}
		s.drag = idleDrag()
		if target == "" {
			return DragResult{Drag: s.drag, Cancelled: true}, nil
		}
		if s.saving {
			return DragResult{Drag: s.drag}, appErrors.NewValidationError(appErrors.ReasonSaving, target)
		}
		out, err := s.swapLocked(source, target, now)
		if err != nil {
			return DragResult{Drag: s.drag}, err
		}
		return DragResult{Drag: s.drag, Swap: &out}, nil

	case CmdDragCancel:
		wasActive := s.drag.Active()
		s.drag = idleDrag()
		return DragResult{Drag: s.drag, Cancelled: wasActive}, nil
	}
	return DragResult{Drag: s.drag}, fmt.Errorf("unknown drag command %q", cmd.Kind)
}

// ApplyExternalUpdate merges a backend delta into both snapshots. If the
// delta locks or removes a send that is part of the current drag, the drag
// is cancelled and the conflict reported.
func (s *Store) ApplyExternalUpdate(delta model.SendDelta, now time.Time) (UpdateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return UpdateOutcome{}, appErrors.ErrNotLoaded
	}
	res, ok := s.tracker.Merge(delta)
	if !ok {
		return UpdateOutcome{}, appErrors.ErrSendNotFound
	}
	out := UpdateOutcome{MergeResult: res}

	if s.drag.Involves(delta.ID) {
		send, present := s.tracker.workingSend(delta.ID)
		if !present || s.policy.IsLocked(*send, now) {
			status := string(model.SendStatusArchived)
			if delta.Status != nil {
				status = string(*delta.Status)
			} else if present {
				status = string(send.Status)
			}
			out.DragCancelled = true
			out.Conflict = appErrors.NewStateConflict(delta.ID, status)
			s.drag = idleDrag()
			s.log.Warn("drag cancelled by external update", zap.String("send_id", delta.ID), zap.String("status", status))
		}
	}
	if res.Removed {
		delete(s.failed, delta.ID)
		delete(s.locked, delta.ID)
	}
	return out, nil
}

// Save persists every pending update as an independent call. Successful
// items become the new baseline one by one; failures stay dirty and are
// listed in the returned *appErrors.SaveError.
func (s *Store) Save(ctx context.Context, p Persister) (*SaveReport, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, appErrors.ErrNotLoaded
	}
	if s.saving {
		s.mu.Unlock()
		return nil, appErrors.ErrSaveInProgress
	}
	batchID := uuid.New()
	updates := s.tracker.PendingUpdates()
	if len(updates) == 0 {
		s.mu.Unlock()
		return &SaveReport{BatchID: batchID, Items: []SaveItem{}}, nil
	}
	s.saving = true
	s.mu.Unlock()

	s.log.Info("saving schedule", zap.String("batch_id", batchID.String()), zap.Int("updates", len(updates)))

	results := make([]SaveResult, len(updates))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, u := range updates {
		i, u := i, u
		g.Go(func() error {
			var err error
			if cerr := ctx.Err(); cerr != nil {
				err = cerr
			} else {
				err = p.UpdateScheduledTime(ctx, u.ID, u.ScheduledAt)
			}
			if err != nil {
				err = appErrors.NewPersistenceError(u.ID, err)
			}
			results[i] = SaveResult{ID: u.ID, ScheduledAt: u.ScheduledAt, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.tracker.Commit(results)

	report := &SaveReport{BatchID: batchID, Items: make([]SaveItem, 0, len(results))}
	var saveErr *appErrors.SaveError
	for _, r := range results {
		item := SaveItem{ID: r.ID, ScheduledAt: r.ScheduledAt, OK: r.OK()}
		if r.OK() {
			report.Succeeded++
			delete(s.failed, r.ID)
		} else {
			report.Failed++
			item.Error = r.Err.Error()
			s.failed[r.ID] = r.Err
			if saveErr == nil {
				saveErr = &appErrors.SaveError{}
			}
			var pe *appErrors.PersistenceError
			if errors.As(r.Err, &pe) {
				saveErr.Failures = append(saveErr.Failures, pe)
			}
			s.log.Error("update failed", zap.String("batch_id", batchID.String()), zap.String("send_id", r.ID), zap.Error(r.Err))
		}
		report.Items = append(report.Items, item)
	}
	s.lastSave = report

	s.log.Info("schedule saved",
		zap.String("batch_id", batchID.String()),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	if saveErr != nil {
		return report, saveErr
	}
	return report, nil
}

// Tick re-derives the locked set at now. Sends are not modified.
func (s *Store) Tick(now time.Time) TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.policy.LockedIDs(s.tracker.Working(), now)
	var report TickReport
	for id := range current {
		if !s.locked[id] {
			report.NewlyLocked = append(report.NewlyLocked, id)
		}
	}
	for id := range s.locked {
		if !current[id] {
			report.Unlocked = append(report.Unlocked, id)
		}
	}
	sort.Strings(report.NewlyLocked)
	sort.Strings(report.Unlocked)
	s.locked = current
	return report
}
