package queue

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const topicBuffer = 256

var ErrQueueClosed = errors.New("queue closed")

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers each topic's payloads in publish order from a
// single dispatcher goroutine, so handlers never run concurrently for one
// topic. Failed handlers are logged, not retried.
type InMemoryQueue struct {
	mu     sync.RWMutex
	topics map[string]*topic
	closed bool
	wg     sync.WaitGroup
	log    *zap.Logger
}

type topic struct {
	name     string
	jobs     chan any
	mu       sync.Mutex
	handlers []func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryQueue{
		topics: make(map[string]*topic),
		log:    log,
	}
}

// Publish enqueues payload for every subscriber of topic.
func (q *InMemoryQueue) Publish(name string, payload any) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	t, ok := q.topics[name]
	if !ok {
		return fmt.Errorf("no subscribers for topic %s", name)
	}
	t.jobs <- payload
	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(name string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	t, ok := q.topics[name]
	if !ok {
		t = &topic{name: name, jobs: make(chan any, topicBuffer)}
		q.topics[name] = t
		q.wg.Add(1)
		go q.dispatch(t)
	}
	t.mu.Lock()
	t.handlers = append(t.handlers, handler)
	t.mu.Unlock()
	return nil
}

func (q *InMemoryQueue) dispatch(t *topic) {
	defer q.wg.Done()
	for payload := range t.jobs {
		t.mu.Lock()
		handlers := append([]func(any) error(nil), t.handlers...)
		t.mu.Unlock()

		for _, handler := range handlers {
			if err := handler(payload); err != nil {
				q.log.Warn("job failed", zap.String("topic", t.name), zap.Any("payload", payload), zap.Error(err))
			}
		}
	}
}

// Close stops accepting payloads and waits until queued ones are handled.
func (q *InMemoryQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, t := range q.topics {
		close(t.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
