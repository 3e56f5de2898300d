package controller

import (
	"sync"

	"locality-insights/models"
)

// Status enumerates the request lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is one RequestState value. Payload is set only for StatusSuccess and
// Message only for StatusError.
type State struct {
	Status  Status
	Payload *models.InsightPayload
	Message string
}

func Idle() State    { return State{Status: StatusIdle} }
func Loading() State { return State{Status: StatusLoading} }

func Success(p *models.InsightPayload) State {
	return State{Status: StatusSuccess, Payload: p}
}

func Failure(msg string) State {
	return State{Status: StatusError, Message: msg}
}

// InFlight reports whether a request is outstanding.
func (s State) InFlight() bool {
	return s.Status == StatusLoading
}

// Listener observes transitions. It runs on the goroutine that caused the
// transition, after the new state is visible.
type Listener func(prev, next State)

// Machine owns the single RequestState cell. Every write goes through its
// methods; the lock lets completion goroutines and readers share it.
type Machine struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
}

// NewMachine starts in Idle.
func NewMachine() *Machine {
	return &Machine{state: Idle()}
}

// Current returns a snapshot of the state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a listener for all later transitions.
func (m *Machine) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Begin enters Loading from any non-loading state, dropping any previous
// payload or error. It returns false, changing nothing, while a request is
// already in flight.
func (m *Machine) Begin() bool {
	return m.transition(func(cur State) (State, bool) {
		if cur.InFlight() {
			return cur, false
		}
		return Loading(), true
	})
}

// Succeed settles the in-flight request with a payload.
func (m *Machine) Succeed(p *models.InsightPayload) bool {
	return m.transition(func(cur State) (State, bool) {
		if !cur.InFlight() {
			return cur, false
		}
		return Success(p), true
	})
}

// Fail settles the in-flight request with a user-facing message.
func (m *Machine) Fail(msg string) bool {
	return m.transition(func(cur State) (State, bool) {
		if !cur.InFlight() {
			return cur, false
		}
		return Failure(msg), true
	})
}

func (m *Machine) transition(step func(State) (State, bool)) bool {
	m.mu.Lock()
	prev := m.state
	next, ok := step(prev)
	if !ok {
		m.mu.Unlock()
		return false
	}
	m.state = next
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
	return true
}
