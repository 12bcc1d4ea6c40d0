package calendar

import "sort"

// ProximityWindow is the distance in minutes under which two sends in the
// same hour cell share a collision group.
const ProximityWindow = 10

// Placement is one send inside a single hour cell.
type Placement struct {
	ID     string
	Minute int
}

// Layout positions a send laterally inside its hour cell. Left and Width
// are fractions of the cell width; Top is a fraction of its height.
type Layout struct {
	ID         string  `json:"id"`
	GroupIndex int     `json:"group_index"`
	Position   int     `json:"position"`
	GroupSize  int     `json:"group_size"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
	Top        float64 `json:"top"`
}

// GroupHour groups the sends of one (day, hour) cell. A send joins the first
// group that has any member within window minutes of it, otherwise it opens
// a new group. The result is ordered by minute.
func GroupHour(items []Placement, window int) []Layout {
	if len(items) == 0 {
		return nil
	}
	if window < 0 {
		window = ProximityWindow
	}

	sorted := make([]Placement, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Minute != sorted[j].Minute {
			return sorted[i].Minute < sorted[j].Minute
		}
		return sorted[i].ID < sorted[j].ID
	})

	var groups [][]Placement
	groupOf := make([]int, len(sorted))
	for i, it := range sorted {
		joined := -1
		for g, members := range groups {
			if anyWithin(members, it.Minute, window) {
				joined = g
				break
			}
		}
		if joined < 0 {
			groups = append(groups, nil)
			joined = len(groups) - 1
		}
		groups[joined] = append(groups[joined], it)
		groupOf[i] = joined
	}

	pos := make([]int, len(groups))
	out := make([]Layout, len(sorted))
	for i, it := range sorted {
		g := groupOf[i]
		size := len(groups[g])
		width := 1 / float64(size)
		out[i] = Layout{
			ID:         it.ID,
			GroupIndex: g,
			Position:   pos[g],
			GroupSize:  size,
			Left:       float64(pos[g]) * width,
			Width:      width,
			Top:        float64(it.Minute) / 60,
		}
		pos[g]++
	}
	return out
}

func anyWithin(members []Placement, minute, window int) bool {
	for _, m := range members {
		d := minute - m.Minute
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true
		}
	}
	return false
}
