// internal/store/memory.go
//
// In-memory registry of live game sessions for the HTTP host.
//
// Characteristics:
//   - Stores *game.Session values keyed by game ID, tagged with their owner.
//   - Concurrency-safe via RWMutex: View runs under the read lock, Update
//     under the write lock, so one session is never mutated concurrently.
//     Callbacks must stay in memory; hosts do their I/O after the call returns.
//   - State is lost when the process restarts.
//   - One live game per owner: saving a new one forgets the previous one.
//   - A lookup by the wrong owner behaves exactly like a missing game.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle/apps/go-engine/internal/game"
)

// ErrNotFound is returned for unknown IDs (or IDs owned by someone else).
var ErrNotFound = errors.New("not found")

// Sessions defines the registry the HTTP host keeps live games in.
// Implementations may be backed by memory (this package), Redis, etc.
type Sessions interface {
	// Save registers s (by s.ID()) as owner's live game, dropping the
	// owner's previous one.
	Save(ctx context.Context, owner string, s *game.Session) error

	// View calls fn with the session while holding a shared lock.
	View(ctx context.Context, owner, id string, fn func(*game.Session) error) error

	// Update calls fn with the session while holding an exclusive lock.
	Update(ctx context.Context, owner, id string, fn func(*game.Session) error) error

	// Claim hands from's live game over to owner to, replacing any live
	// game to already had. No-op when from has none.
	Claim(ctx context.Context, from, to string) error
}

type entry struct {
	owner string
	sess  *game.Session
}

// memory is an in-memory map-based Sessions implementation.
type memory struct {
	mu       sync.RWMutex      // guards both maps and the sessions' state
	sessions map[string]entry  // keyed by Session.ID
	live     map[string]string // owner → Session.ID
}

// NewMemory constructs a new in-memory Sessions registry.
func NewMemory() Sessions {
	return &memory{sessions: make(map[string]entry), live: make(map[string]string)}
}

func (m *memory) Save(ctx context.Context, owner string, s *game.Session) error {
	if s.ID() == "" {
		return errors.New("store: session has no game")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.live[owner]; ok {
		delete(m.sessions, prev)
	}
	m.sessions[s.ID()] = entry{owner: owner, sess: s}
	m.live[owner] = s.ID()
	return nil
}

func (m *memory) View(ctx context.Context, owner, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		return ErrNotFound
	}
	return fn(e.sess)
}

func (m *memory) Update(ctx context.Context, owner, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		return ErrNotFound
	}
	return fn(e.sess)
}

func (m *memory) Claim(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.live[from]
	if !ok || from == to {
		return nil
	}
	delete(m.live, from)
	if prev, ok := m.live[to]; ok {
		delete(m.sessions, prev)
	}
	e := m.sessions[id]
	e.owner = to
	m.sessions[id] = e
	m.live[to] = id
	return nil
}
