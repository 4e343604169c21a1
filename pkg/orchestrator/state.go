package orchestrator

import (
	"sync"

	"reelgrab/pkg/errors"
)

// State is whether a download attempt is running
type State int32

const (
	Idle State = iota
	InFlight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	default:
		return "unknown"
	}
}

// MarshalText lets State encode as its name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is the observable state of an orchestrator
type Status struct {
	State       State            `json:"state"`
	LastError   string           `json:"last_error,omitempty"`
	ErrorType   errors.ErrorType `json:"error_type,omitempty"`
	LastSuccess string           `json:"last_success,omitempty"`
	Location    string           `json:"location,omitempty"`
}

// Busy reports whether controls should be disabled
func (s Status) Busy() bool {
	return s.State == InFlight
}

// statusHub holds the current status and fans changes out to subscribers.
// Each subscriber channel holds only the newest status.
type statusHub struct {
	mu      sync.Mutex
	current Status
	nextID  int
	subs    map[int]chan Status
}

func newStatusHub() *statusHub {
	return &statusHub{subs: make(map[int]chan Status)}
}

func (h *statusHub) get() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *statusHub) update(fn func(*Status)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(&h.current)
	for _, ch := range h.subs {
		offer(ch, h.current)
	}
}

func (h *statusHub) subscribe() (<-chan Status, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Status, 1)
	ch <- h.current
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// offer replaces whatever is buffered in ch with s
func offer(ch chan Status, s Status) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
