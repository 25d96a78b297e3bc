package sse

import (
	"sync"

	"github.com/google/uuid"
)

// Work log event names
const (
	EventWorkLogCreated = "worklog.created"
	EventWorkLogUpdated = "worklog.updated"
)

// Event is one change pushed to the streams of an employee
type Event struct {
	ID         string
	EmployeeID string
	Event      string
	Data       interface{}
}

// Hub fans work log events out to the open streams of each employee
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
	closed      bool
}

// NewHub creates a hub whose subscriber channels hold bufferSize pending events
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a stream for an employee and returns its channel and cleanup function
func (h *Hub) Subscribe(employeeID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[employeeID] == nil {
		h.subscribers[employeeID] = make(map[chan Event]struct{})
	}
	h.subscribers[employeeID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// Close may already have released the channel
			if _, ok := h.subscribers[employeeID][ch]; !ok {
				return
			}
			delete(h.subscribers[employeeID], ch)
			close(ch)
			if len(h.subscribers[employeeID]) == 0 {
				delete(h.subscribers, employeeID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to every stream of the employee. Full streams drop the event.
func (h *Hub) Publish(employeeID string, name string, data interface{}) {
	event := Event{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Event:      name,
		Data:       data,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[employeeID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of open streams for an employee
func (h *Hub) SubscriberCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[employeeID])
}

// Close ends every open stream. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, chans := range h.subscribers {
		for ch := range chans {
			close(ch)
		}
	}
	h.subscribers = make(map[string]map[chan Event]struct{})
}
