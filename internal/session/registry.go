package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/db"
)

// ErrSessionNotFound is returned for unknown page session ids.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Registry tracks live page sessions. Each new session starts from the seed
// fixtures and owns its collections exclusively. Sessions that are not used
// for longer than the idle timeout are dropped by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	auth     Authenticator
	opts     Options
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(auth Authenticator, opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		auth:     auth,
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new page session.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	s := New(id,
		r.auth,
		db.NewMemoryRecordCollection(db.SeedRecords()),
		db.NewMemoryProductCollection(db.SeedProducts()),
		r.opts,
	)

	r.mu.Lock()
	r.sessions[id] = &entry{sess: s, lastSeen: r.now()}
	r.mu.Unlock()

	log.WithField("session_id", id).Debug("Page session created")
	return s
}

// Get returns the session with the given id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.sess, nil
}

// GetOrCreate returns the session with the given id, or a new one when id is
// empty or unknown.
func (r *Registry) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := r.Get(id); err == nil {
			return s
		}
	}
	return r.Create()
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	dropped := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.WithFields(log.Fields{"dropped": n, "live": r.Len()}).Info("Idle page sessions expired")
			}
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
