// ABOUTME: Generic entity slice holding a list plus loading and error state
// ABOUTME: Tracks in-flight operations and fetch generations so stale fetches never win
package store

import (
	"context"
	"sync"

	"github.com/harperreed/crmdesk/models"
)

// Op names an operation on a slice.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Phase is where an operation is in its lifecycle.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
	// PhaseDiscarded marks a fetch that settled after a newer fetch was dispatched.
	PhaseDiscarded Phase = "discarded"
)

// Event is published after every state transition of a slice.
type Event struct {
	Slice string
	Op    Op
	Phase Phase
	// ID is the entity id for update and delete, the created id for a
	// fulfilled create, and zero otherwise.
	ID  int64
	Err error
}

// Settled reports whether the event ends an operation.
func (e Event) Settled() bool {
	return e.Phase != PhasePending
}

// State is a point-in-time copy of a slice.
type State[T models.Entity] struct {
	List    []T
	Loading bool
	Error   string
}

// Slice owns the loaded list of one entity type.
type Slice[T models.Entity] struct {
	name string

	mu         sync.Mutex
	list       []T
	inFlight   int
	err        string
	generation uint64

	publish func(Event)
	persist func([]T)
}

func newSlice[T models.Entity](name string, publish func(Event)) *Slice[T] {
	if publish == nil {
		publish = func(Event) {}
	}
	return &Slice[T]{name: name, list: []T{}, publish: publish}
}

// Name returns the slice name, e.g. "contacts".
func (s *Slice[T]) Name() string {
	return s.name
}

// State returns a copy of the current state.
func (s *Slice[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{
		List:    append([]T{}, s.list...),
		Loading: s.inFlight > 0,
		Error:   s.err,
	}
}

// List returns a copy of the loaded entities.
func (s *Slice[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T{}, s.list...)
}

// Find returns the loaded entity with the given id.
func (s *Slice[T]) Find(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.list {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// fetch replaces the list with the result of load unless a newer fetch
// was dispatched before this one settled.
func (s *Slice[T]) fetch(ctx context.Context, load func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.inFlight++
	s.err = ""
	s.mu.Unlock()
	s.publish(Event{Slice: s.name, Op: OpFetch, Phase: PhasePending})

	list, err := load(ctx)

	s.mu.Lock()
	s.inFlight--
	current := gen == s.generation
	phase := PhaseDiscarded
	if current {
		if err != nil {
			s.err = err.Error()
			phase = PhaseRejected
		} else {
			s.list = list
			phase = PhaseFulfilled
		}
	}
	s.mu.Unlock()

	if phase == PhaseFulfilled && s.persist != nil {
		s.persist(append([]T{}, list...))
	}
	s.publish(Event{Slice: s.name, Op: OpFetch, Phase: phase, Err: err})
	return err
}

// mutate runs call and, on success, applies the result to the list.
// Mutations are applied in settle order.
func (s *Slice[T]) mutate(ctx context.Context, op Op, id int64, call func(context.Context) (func([]T) []T, int64, error)) error {
	s.mu.Lock()
	s.inFlight++
	s.err = ""
	s.mu.Unlock()
	s.publish(Event{Slice: s.name, Op: op, Phase: PhasePending, ID: id})

	apply, settledID, err := call(ctx)

	s.mu.Lock()
	s.inFlight--
	phase := PhaseFulfilled
	if err != nil {
		s.err = err.Error()
		phase = PhaseRejected
	} else if apply != nil {
		s.list = apply(s.list)
	}
	s.mu.Unlock()

	if settledID == 0 {
		settledID = id
	}
	s.publish(Event{Slice: s.name, Op: op, Phase: phase, ID: settledID, Err: err})
	return err
}

// reject records an error for an operation that never reached the backend.
func (s *Slice[T]) reject(op Op, id int64, err error) {
	s.mu.Lock()
	s.err = err.Error()
	s.mu.Unlock()
	s.publish(Event{Slice: s.name, Op: op, Phase: PhaseRejected, ID: id, Err: err})
}

// hydrate seeds an empty slice with a cached list.
func (s *Slice[T]) hydrate(list []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.list) > 0 || len(list) == 0 {
		return false
	}
	s.list = list
	return true
}

func appendEntity[T models.Entity](item T) func([]T) []T {
	return func(list []T) []T {
		return append(list, item)
	}
}

func replaceEntity[T models.Entity](id int64, item T) func([]T) []T {
	return func(list []T) []T {
		out := make([]T, len(list))
		copy(out, list)
		for i := range out {
			if out[i].EntityID() == id {
				out[i] = item
			}
		}
		return out
	}
}

func removeEntity[T models.Entity](id int64) func([]T) []T {
	return func(list []T) []T {
		out := make([]T, 0, len(list))
		for _, item := range list {
			if item.EntityID() != id {
				out = append(out, item)
			}
		}
		return out
	}
}
