package schedule

import (
	"sort"
	"time"

	"github.com/unclebandit/outreach-scheduler/internal/calendar"
	"github.com/unclebandit/outreach-scheduler/internal/model"
)

type CellEntry struct {
	Send   model.ScheduledSend     `json:"send"`
	Coord  calendar.GridCoordinate `json:"coord"`
	Layout calendar.Layout         `json:"layout"`
	Locked bool                    `json:"locked"`
}

// Cell is one (week, day, hour) box of the active view.
type Cell struct {
	Week    int         `json:"week"`
	Day     int         `json:"day"`
	Hour    int         `json:"hour"`
	Entries []CellEntry `json:"entries"`
}

type cellKey struct{ week, day, hour int }

// Cells projects the working set into the active view. Sends without a
// coordinate in this view are left out; see Hidden.
func (s *Store) Cells(now time.Time) []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellsLocked(s.view, now)
}

// CellsFor projects into an explicit view without changing the active one.
func (s *Store) CellsFor(view calendar.View, now time.Time) []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellsLocked(view, now)
}

func (s *Store) cellsLocked(view calendar.View, now time.Time) []Cell {
	type placed struct {
		send  model.ScheduledSend
		coord calendar.GridCoordinate
	}
	buckets := map[cellKey][]placed{}
	for _, send := range s.tracker.Working() {
		c, ok := s.projector.ToGrid(send.ScheduledAt, now, view)
		if !ok {
			continue
		}
		k := cellKey{c.Week, c.Day, c.Hour}
		buckets[k] = append(buckets[k], placed{send: send, coord: c})
	}

	cells := make([]Cell, 0, len(buckets))
	for k, items := range buckets {
		byID := make(map[string]placed, len(items))
		placements := make([]calendar.Placement, 0, len(items))
		for _, it := range items {
			byID[it.send.ID] = it
			placements = append(placements, calendar.Placement{ID: it.send.ID, Minute: it.coord.Minute})
		}
		cell := Cell{Week: k.week, Day: k.day, Hour: k.hour}
		for _, l := range calendar.GroupHour(placements, s.proximity) {
			it := byID[l.ID]
			cell.Entries = append(cell.Entries, CellEntry{
				Send:   it.send,
				Coord:  it.coord,
				Layout: l,
				Locked: s.policy.IsLocked(it.send, now),
			})
		}
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Hour < b.Hour
	})
	return cells
}

// Hidden returns ids of working sends with no cell in the active view.
func (s *Store) Hidden(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hiddenLocked(s.view, now)
}

func (s *Store) HiddenFor(view calendar.View, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hiddenLocked(view, now)
}

func (s *Store) hiddenLocked(view calendar.View, now time.Time) []string {
	var ids []string
	for _, send := range s.tracker.Working() {
		if _, ok := s.projector.ToGrid(send.ScheduledAt, now, view); !ok {
			ids = append(ids, send.ID)
		}
	}
	return ids
}
