package services

import "github.com/dmitrijs2005/gophauth/internal/client/models"

// update applies fn to the session view under the write lock and publishes
// the result. fn may also touch other fields guarded by mu.
func (m *SessionManager) update(fn func(s *models.SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.state)

	snap := m.snapshotLocked()
	for _, ch := range m.watchers {
		publish(ch, snap)
	}
}

// publish replaces whatever the subscriber has not consumed yet, so a slow
// reader always sees the latest state and the manager never blocks.
func publish(ch chan models.SessionState, s models.SessionState) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

func (m *SessionManager) snapshotLocked() models.SessionState {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// State returns a copy of the current session view.
func (m *SessionManager) State() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel that receives the current state immediately
// and the latest state after every change. The cancel func unsubscribes
// and closes the channel.
func (m *SessionManager) Subscribe() (<-chan models.SessionState, func()) {
	ch := make(chan models.SessionState, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.watchers[id]; ok {
			delete(m.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}
