package session

import "sync"

// Snapshot is what observers see: the session plus the loading flag. Loading
// is true only between store creation and the first Set/Clear, i.e. while the
// bootstrapper has not yet reconciled the persisted token with the backend.
type Snapshot struct {
	Session Session
	Loading bool
}

// Store is the single source of truth for the current session. There is one
// writer at a time by construction (bootstrap at startup, then user-driven
// login/logout); reads are concurrent. Updates are wholesale replacements,
// so no observer can see a half-written session.
type Store struct {
	mu      sync.RWMutex
	session Session
	loading bool
	subs    map[int]chan Snapshot
	nextSub int
}

func NewStore() *Store {
	return &Store{
		loading: true,
		subs:    make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state. Never fails, no side effects.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Session: s.session, Loading: s.loading}
}

// Set replaces the session wholesale and resolves the loading state. The
// Loading→Resolved transition happens on the first call and never reverts.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	s.session = sess
	s.loading = false
	snap := Snapshot{Session: s.session, Loading: false}
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	s.mu.Unlock()
}

// Clear resets to anonymous. Idempotent. Durable mirror cleanup belongs to
// the flow driving the transition, not the store.
func (s *Store) Clear() {
	s.Set(Anonymous())
}

// Subscribe registers an observer of session replacements. Slow observers
// miss intermediate snapshots rather than block the writer. The returned
// cancel func releases the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
