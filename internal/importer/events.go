package importer

import (
	"log"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// EventKind discriminates the notifications a run produces.
type EventKind string

const (
	// EventProgress carries the progress record written after a page,
	// and the terminal success or error record at run end.
	EventProgress EventKind = "progress"
	// EventReady fires exactly once per run, after the first page is
	// persisted, so consumers can present content before pagination
	// completes.
	EventReady EventKind = "ready"
	// EventError carries the classified failure message of an aborted run.
	EventError EventKind = "error"
)

// Event is one notification from an import run.
type Event struct {
	Kind     EventKind               `json:"kind"`
	Progress entities.ImportProgress `json:"progress"`
	Err      string                  `json:"error,omitempty"`
}

const subscriberBuffer = 128

// Subscribe registers a consumer of import events. Multiple subscribers
// can observe the same run. The returned func unsubscribes and closes
// the channel; a subscriber that stops draining loses events rather
// than stalling the run.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Event, subscriberBuffer)
	m.subscribers[id] = ch

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(existing)
		}
	}
	return ch, unsubscribe
}

func (m *Manager) emit(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("Import: dropping %s event for slow subscriber", event.Kind)
		}
	}
}
