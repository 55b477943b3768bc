package store

import "sync"

// Store holds the state of one operator session. Views read snapshots and
// change the state only through Dispatch.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

func New() *Store {
	return &Store{
		state:       NewState(),
		subscribers: map[int]func(State){},
	}
}

// Dispatch applies the actions in order and notifies subscribers once with
// the resulting state.
func (s *Store) Dispatch(actions ...Action) {
	if len(actions) == 0 {
		return
	}

	s.mu.Lock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	snapshot := s.state.Clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called after every Dispatch. The returned
// func removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
