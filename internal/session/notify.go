package session

import (
	"slices"
	"sync"

	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/store"
)

// subscribers delivers queued snapshots in order. Only one goroutine drains
// the queue at a time; snapshots queued by a subscriber are delivered by the
// drain already in progress.
type subscribers struct {
	mu       sync.Mutex
	fns      map[uint64]func(Snapshot)
	nextID   uint64
	queue    []Snapshot
	draining bool
}

// Subscribe calls fn with a Snapshot after every session transition. Both
// stores are already updated when the Snapshot is taken, so User and Token
// always belong to the same session. Callbacks run after the operation has
// released the Manager and may call Manager methods. The returned function
// removes the subscription and is safe to call more than once.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subs.mu.Lock()
	if m.subs.fns == nil {
		m.subs.fns = make(map[uint64]func(Snapshot))
	}
	id := m.subs.nextID
	m.subs.nextID++
	m.subs.fns[id] = fn
	m.subs.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subs.mu.Lock()
			delete(m.subs.fns, id)
			m.subs.mu.Unlock()
		})
	}
}

// begin locks m.mu and holds store notifications for one operation. The
// returned function publishes the final state, unlocks m.mu and then
// notifies store and session subscribers:
//
//	defer m.begin()()
func (m *Manager) begin() func() {
	m.mu.Lock()
	releaseUser := m.user.Hold()
	releaseToken := m.token.Hold()

	return func() {
		m.publish()
		m.mu.Unlock()

		releaseUser()
		releaseToken()
		m.deliver()
	}
}

// publish queues a Snapshot when either store changed since the last one.
// Caller must hold m.mu.
func (m *Manager) publish() {
	version := m.user.Version() + m.token.Version()
	if version == m.published {
		return
	}
	m.published = version

	snap := m.Snapshot()

	m.subs.mu.Lock()
	if len(m.subs.fns) > 0 {
		m.subs.queue = append(m.subs.queue, snap)
	}
	m.subs.mu.Unlock()
}

// deliver drains the queue. Caller must not hold m.mu.
func (m *Manager) deliver() {
	m.subs.mu.Lock()
	if m.subs.draining {
		m.subs.mu.Unlock()
		return
	}
	m.subs.draining = true

	for len(m.subs.queue) > 0 {
		snap := m.subs.queue[0]
		m.subs.queue = m.subs.queue[1:]

		ids := make([]uint64, 0, len(m.subs.fns))
		for id := range m.subs.fns {
			ids = append(ids, id)
		}
		m.subs.mu.Unlock()

		// registration order
		slices.Sort(ids)
		for _, id := range ids {
			m.subs.mu.Lock()
			fn, ok := m.subs.fns[id]
			m.subs.mu.Unlock()
			if !ok {
				continue
			}
			fn(snap.copy())
		}

		m.subs.mu.Lock()
	}

	m.subs.draining = false
	m.subs.mu.Unlock()
}

// copy gives each subscriber its own values.
func (s Snapshot) copy() Snapshot {
	out := s
	if s.User.Data != nil {
		user := *s.User.Data
		out.User = store.State[model.User]{Data: &user, Error: s.User.Error, IsLoading: s.User.IsLoading}
	}
	if s.Token.Data != nil {
		token := *s.Token.Data
		out.Token = store.State[string]{Data: &token, Error: s.Token.Error, IsLoading: s.Token.IsLoading}
	}
	return out
}
