package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"singularshift/internal/model"
	"singularshift/internal/voice"
)

// SessionFactory returns the voice transport bound to a session id
type SessionFactory func(sessionID string) voice.Session

// Manager owns the live orchestrators of this server instance
type Manager struct {
	deps        Deps
	assistantID string
	factory     SessionFactory

	mu       sync.RWMutex
	sessions map[string]*Orchestrator
}

func NewManager(deps Deps, assistantID string, factory SessionFactory) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{
		deps:        deps,
		assistantID: assistantID,
		factory:     factory,
		sessions:    make(map[string]*Orchestrator),
	}
}

// Create registers a new INACTIVE session for participant
func (m *Manager) Create(participant model.Participant) *Orchestrator {
	id := uuid.NewString()
	adapter := voice.NewAdapter(m.factory(id), m.assistantID, m.deps.Logger)
	o := New(id, participant, adapter, m.deps)
	o.onDone = m.remove

	m.mu.Lock()
	m.sessions[id] = o
	m.mu.Unlock()
	return o
}

// Get returns the live session with id, or nil
func (m *Manager) Get(id string) *Orchestrator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Wait blocks until every session's background processing has finished
func (m *Manager) Wait() {
	m.mu.RLock()
	live := make([]*Orchestrator, 0, len(m.sessions))
	for _, o := range m.sessions {
		live = append(live, o)
	}
	m.mu.RUnlock()

	for _, o := range live {
		o.Wait()
	}
}

// Release drops a session whose client went away. A session that is still
// processing stays until processing ends.
func (m *Manager) Release(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.sessions[id]
	if !ok {
		return false
	}
	if _, droppable := o.idle(); !droppable {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Sweep drops droppable sessions that have not changed for longer than idle
// and returns how many it dropped
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, o := range m.sessions {
		touched, droppable := o.idle()
		if droppable && !touched.After(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunJanitor sweeps every interval until ctx is cancelled
func (m *Manager) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				m.deps.Logger.Info("dropped idle sessions", zap.Int("count", n), zap.Int("live", m.Len()))
			}
		}
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
