// Package inbox groups not-yet-scheduled prospects into drag-source columns.
package inbox

import (
	"sort"
	"strings"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

type Column struct {
	Status    string           `json:"status"`
	Prospects []model.Prospect `json:"prospects"`
}

// Group buckets prospects by status. Columns follow statusOrder first, then
// first appearance; prospects are sorted by name within a column.
func Group(prospects []model.Prospect, statusOrder []string) []Column {
	rank := make(map[string]int, len(statusOrder))
	for i, st := range statusOrder {
		if _, ok := rank[st]; !ok {
			rank[st] = i
		}
	}

	byStatus := map[string][]model.Prospect{}
	var seen []string
	for _, p := range prospects {
		if _, ok := byStatus[p.Status]; !ok {
			seen = append(seen, p.Status)
		}
		byStatus[p.Status] = append(byStatus[p.Status], p)
	}

	sort.SliceStable(seen, func(i, j int) bool {
		ri, iok := rank[seen[i]]
		rj, jok := rank[seen[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return false
	})

	cols := make([]Column, 0, len(seen))
	for _, st := range seen {
		ps := byStatus[st]
		sort.SliceStable(ps, func(i, j int) bool {
			return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name)
		})
		cols = append(cols, Column{Status: st, Prospects: ps})
	}
	return cols
}
