// Package calendar maps absolute send times onto the working-hours grid.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

type View string

const (
	ViewToday View = "today"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

const (
	FirstHour   = 7
	LastHour    = 20
	WorkDays    = 5
	MonthWeeks  = 4
	daysPerWeek = 7
	hoursPerDay = 24
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewToday, ViewWeek, ViewMonth:
		return v, nil
	case "day":
		return ViewToday, nil
	case "":
		return ViewWeek, nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// GridCoordinate is derived from ScheduledAt and never stored.
// Week is only non-zero in the month view.
type GridCoordinate struct {
	Week   int `json:"week"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c GridCoordinate) Valid() bool {
	return c.Week >= 0 && c.Week < MonthWeeks &&
		c.Day >= 0 && c.Day < WorkDays &&
		c.Hour >= FirstHour && c.Hour <= LastHour &&
		c.Minute >= 0 && c.Minute < 60
}

// Projector converts between timestamps and grid coordinates in one location.
type Projector struct {
	loc *time.Location
}

func NewProjector(loc *time.Location) *Projector {
	if loc == nil {
		loc = time.Local
	}
	return &Projector{loc: loc}
}

func (p *Projector) Location() *time.Location { return p.loc }

// WeekStart returns Monday 00:00 of the week containing now.
// Sunday belongs to the week that started six days earlier.
func (p *Projector) WeekStart(now time.Time) time.Time {
	now = now.In(p.loc)
	wd := int(now.Weekday())
	offset := 1 - wd
	if wd == 0 {
		offset = -6
	}
	return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, p.loc)
}

// DaysFromWeekStart counts calendar days between the week start and at's
// local date. DST shifts don't affect the count.
func (p *Projector) DaysFromWeekStart(at, now time.Time) int {
	start := p.WeekStart(now)
	at = at.In(p.loc)
	a := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(s).Hours() / hoursPerDay)
}

// ToGrid projects at onto the grid for view. The bool is false when the
// timestamp has no cell in this view (weekend, off-hours or another week);
// such sends are hidden, not dropped.
func (p *Projector) ToGrid(at, now time.Time, view View) (GridCoordinate, bool) {
	local := at.In(p.loc)
	days := p.DaysFromWeekStart(at, now)
	c := GridCoordinate{Hour: local.Hour(), Minute: local.Minute()}

	switch view {
	case ViewMonth:
		if days < 0 {
			return GridCoordinate{}, false
		}
		c.Week = days / daysPerWeek
		c.Day = days % daysPerWeek
	case ViewToday:
		if days != p.DaysFromWeekStart(now, now) {
			return GridCoordinate{}, false
		}
		c.Day = days
	default:
		c.Day = days
	}

	if !c.Valid() {
		return GridCoordinate{}, false
	}
	return c, true
}

// FromGrid is the inverse of ToGrid, anchored to the current week.
// Seconds are zeroed.
func (p *Projector) FromGrid(c GridCoordinate, now time.Time) time.Time {
	start := p.WeekStart(now)
	return time.Date(start.Year(), start.Month(), start.Day()+c.Week*daysPerWeek+c.Day, c.Hour, c.Minute, 0, 0, p.loc)
}

// Now returns the current-time indicator position, if it falls on the grid.
func (p *Projector) Now(now time.Time, view View) (GridCoordinate, bool) {
	return p.ToGrid(now, now, view)
}
