// internal/service/scheduling_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/outreach-scheduler/internal/errors"
	"github.com/unclebandit/outreach-scheduler/internal/inbox"
	"github.com/unclebandit/outreach-scheduler/internal/model"
	"github.com/unclebandit/outreach-scheduler/internal/repository"
	"github.com/unclebandit/outreach-scheduler/internal/schedule"
)

// SchedulingService connects the calendar store to its collaborators.
type SchedulingService struct {
	SendRepo          repository.SendRepositoryInterface
	ProspectRepo      repository.ProspectRepositoryInterface
	Store             *schedule.Store
	UserID            string
	CandidateStatuses []string
	Clock             func() time.Time
	Log               *zap.Logger
}

func (s *SchedulingService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *SchedulingService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Reload replaces baseline and working set with the backend's current
// sends. Unsaved local moves are discarded.
func (s *SchedulingService) Reload(ctx context.Context) error {
	sends, err := s.SendRepo.LoadScheduledSends(ctx, s.UserID)
	if err != nil {
		s.logger().Error("failed to load scheduled sends", zap.String("user_id", s.UserID), zap.Error(err))
		return err
	}
	if s.Store.IsDirty() {
		s.logger().Warn("reload discards unsaved changes", zap.Int("pending", len(s.Store.PendingUpdates())))
	}
	s.Store.Load(sends)
	return nil
}

func (s *SchedulingService) Swap(draggedID, targetID string) (schedule.SwapOutcome, error) {
	return s.Store.ApplySwap(draggedID, targetID, s.Now())
}

func (s *SchedulingService) Drag(cmd schedule.Command) (schedule.DragResult, error) {
	return s.Store.Dispatch(cmd, s.Now())
}

func (s *SchedulingService) Save(ctx context.Context) (*schedule.SaveReport, error) {
	return s.Store.Save(ctx, s.SendRepo)
}

// ApplyDelta merges an inbound update. Deltas for sends the calendar does
// not hold are ignored.
func (s *SchedulingService) ApplyDelta(delta model.SendDelta) error {
	out, err := s.Store.ApplyExternalUpdate(delta, s.Now())
	if errors.Is(err, appErrors.ErrSendNotFound) || errors.Is(err, appErrors.ErrNotLoaded) {
		s.logger().Debug("ignoring update", zap.String("send_id", delta.ID), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	if out.Conflict != nil {
		s.logger().Warn("drag cancelled", zap.String("send_id", delta.ID), zap.Error(out.Conflict))
	}
	return nil
}

// Tick re-evaluates time locks; it runs once a minute.
func (s *SchedulingService) Tick() schedule.TickReport {
	report := s.Store.Tick(s.Now())
	if len(report.NewlyLocked) > 0 || len(report.Unlocked) > 0 {
		s.logger().Info("lock state changed",
			zap.Strings("newly_locked", report.NewlyLocked),
			zap.Strings("unlocked", report.Unlocked),
		)
	}
	return report
}

// Inbox groups unscheduled candidates for the drag-source panel.
func (s *SchedulingService) Inbox(ctx context.Context) ([]inbox.Column, error) {
	prospects, err := s.ProspectRepo.LoadCandidateProspects(ctx, s.UserID, s.CandidateStatuses)
	if err != nil {
		return nil, err
	}
	return inbox.Group(prospects, s.CandidateStatuses), nil
}
