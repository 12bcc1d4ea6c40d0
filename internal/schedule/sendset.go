// Package schedule owns placement, locking, swapping and dirty tracking of
// scheduled sends.
package schedule

import "github.com/unclebandit/outreach-scheduler/internal/model"

// SendSet is an id-keyed collection of sends that keeps load order.
type SendSet struct {
	order []string
	byID  map[string]*model.ScheduledSend
}

func NewSendSet(sends []model.ScheduledSend) *SendSet {
	s := &SendSet{byID: make(map[string]*model.ScheduledSend, len(sends))}
	for _, send := range sends {
		s.Put(send)
	}
	return s
}

// Put inserts or replaces a send by id.
func (s *SendSet) Put(send model.ScheduledSend) {
	if _, ok := s.byID[send.ID]; !ok {
		s.order = append(s.order, send.ID)
	}
	cp := send
	s.byID[send.ID] = &cp
}

func (s *SendSet) Get(id string) (*model.ScheduledSend, bool) {
	send, ok := s.byID[id]
	return send, ok
}

func (s *SendSet) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *SendSet) Len() int { return len(s.byID) }

// All returns copies in load order.
func (s *SendSet) All() []model.ScheduledSend {
	out := make([]model.ScheduledSend, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

func (s *SendSet) Clone() *SendSet {
	return NewSendSet(s.All())
}
