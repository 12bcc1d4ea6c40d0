package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/outreach-scheduler/internal/calendar"
)

// Wednesday 14 Oct 2026, 10:30 UTC. Week starts Monday 12 Oct.
var wednesday = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

func TestWeekStart(t *testing.T) {
	p := calendar.NewProjector(time.UTC)
	monday := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)

	cases := map[string]time.Time{
		"monday morning": time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC),
		"wednesday":      wednesday,
		"friday night":   time.Date(2026, time.October, 16, 23, 59, 0, 0, time.UTC),
		"saturday":       time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC),
		"sunday":         time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC),
		"sunday late":    time.Date(2026, time.October, 18, 23, 59, 59, 0, time.UTC),
	}
	for name, now := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, monday.Equal(p.WeekStart(now)), "got %s", p.WeekStart(now))
		})
	}

	t.Run("next monday starts a new week", func(t *testing.T) {
		next := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
		assert.True(t, next.Equal(p.WeekStart(next)))
	})
}

func TestRoundTripWeekView(t *testing.T) {
	p := calendar.NewProjector(time.UTC)
	for _, now := range []time.Time{wednesday, time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)} {
		for day := 0; day < calendar.WorkDays; day++ {
			for hour := calendar.FirstHour; hour <= calendar.LastHour; hour++ {
				for minute := 0; minute < 60; minute++ {
					want := calendar.GridCoordinate{Day: day, Hour: hour, Minute: minute}
					at := p.FromGrid(want, now)
					got, ok := p.ToGrid(at, now, calendar.ViewWeek)
					require.True(t, ok, "%+v not projected", want)
					require.Equal(t, want, got)
				}
			}
		}
	}
}

func TestFromGridZeroesSeconds(t *testing.T) {
	p := calendar.NewProjector(time.UTC)
	at := p.FromGrid(calendar.GridCoordinate{Day: 1, Hour: 14, Minute: 5}, wednesday)
	assert.Equal(t, time.Date(2026, time.October, 13, 14, 5, 0, 0, time.UTC), at)
}

func TestToGridProjectionGaps(t *testing.T) {
	p := calendar.NewProjector(time.UTC)
	cases := map[string]time.Time{
		"before 7":       time.Date(2026, time.October, 13, 6, 59, 0, 0, time.UTC),
		"after 20:59":    time.Date(2026, time.October, 13, 21, 0, 0, 0, time.UTC),
		"saturday":       time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC),
		"sunday":         time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC),
		"previous week":  time.Date(2026, time.October, 9, 10, 0, 0, 0, time.UTC),
		"following week": time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC),
	}
	for name, at := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := p.ToGrid(at, wednesday, calendar.ViewWeek)
			assert.False(t, ok)
		})
	}

	t.Run("hour 20 is inside the grid", func(t *testing.T) {
		c, ok := p.ToGrid(time.Date(2026, time.October, 13, 20, 59, 0, 0, time.UTC), wednesday, calendar.ViewWeek)
		require.True(t, ok)
		assert.Equal(t, calendar.GridCoordinate{Day: 1, Hour: 20, Minute: 59}, c)
	})
}

func TestToGridTodayView(t *testing.T) {
	p := calendar.NewProjector(time.UTC)

	c, ok := p.ToGrid(time.Date(2026, time.October, 14, 15, 45, 0, 0, time.UTC), wednesday, calendar.ViewToday)
	require.True(t, ok)
	assert.Equal(t, calendar.GridCoordinate{Day: 2, Hour: 15, Minute: 45}, c)

	_, ok = p.ToGrid(time.Date(2026, time.October, 13, 15, 45, 0, 0, time.UTC), wednesday, calendar.ViewToday)
	assert.False(t, ok, "other weekdays are not part of the day view")

	sunday := time.Date(2026, time.October, 18, 11, 0, 0, 0, time.UTC)
	_, ok = p.ToGrid(sunday.Add(time.Hour), sunday, calendar.ViewToday)
	assert.False(t, ok, "weekend days have no grid")
}

func TestToGridMonthView(t *testing.T) {
	p := calendar.NewProjector(time.UTC)

	c, ok := p.ToGrid(time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), wednesday, calendar.ViewMonth)
	require.True(t, ok)
	assert.Equal(t, calendar.GridCoordinate{Week: 0, Day: 2, Hour: 9}, c)

	// Tuesday three weeks later.
	c, ok = p.ToGrid(time.Date(2026, time.November, 3, 16, 20, 0, 0, time.UTC), wednesday, calendar.ViewMonth)
	require.True(t, ok)
	assert.Equal(t, calendar.GridCoordinate{Week: 3, Day: 1, Hour: 16, Minute: 20}, c)

	_, ok = p.ToGrid(time.Date(2026, time.November, 9, 9, 0, 0, 0, time.UTC), wednesday, calendar.ViewMonth)
	assert.False(t, ok, "fifth week is out of range")

	_, ok = p.ToGrid(time.Date(2026, time.October, 24, 9, 0, 0, 0, time.UTC), wednesday, calendar.ViewMonth)
	assert.False(t, ok, "weekends are hidden in month view too")

	at := p.FromGrid(calendar.GridCoordinate{Week: 2, Day: 4, Hour: 8, Minute: 15}, wednesday)
	assert.Equal(t, time.Date(2026, time.October, 30, 8, 15, 0, 0, time.UTC), at)
}

func TestToGridUsesProjectorLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	p := calendar.NewProjector(loc)

	// 06:30 UTC is 09:30 local.
	c, ok := p.ToGrid(time.Date(2026, time.October, 13, 6, 30, 0, 0, time.UTC), wednesday, calendar.ViewWeek)
	require.True(t, ok)
	assert.Equal(t, calendar.GridCoordinate{Day: 1, Hour: 9, Minute: 30}, c)

	// Friday 22:30 UTC is Saturday 01:30 local.
	_, ok = p.ToGrid(time.Date(2026, time.October, 16, 22, 30, 0, 0, time.UTC), wednesday, calendar.ViewWeek)
	assert.False(t, ok)
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]calendar.View{
		"today": calendar.ViewToday,
		"day":   calendar.ViewToday,
		"Week":  calendar.ViewWeek,
		"":      calendar.ViewWeek,
		"month": calendar.ViewMonth,
	} {
		got, err := calendar.ParseView(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := calendar.ParseView("year")
	assert.Error(t, err)
}
