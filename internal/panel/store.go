package panel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// SessionCookie names the cookie that carries the session ID.
const SessionCookie = "sabda_session"

// Store maps session IDs to workspaces and evicts idle ones.
type Store struct {
	predictor inference.Predictor
	opts      Options
	ttl       time.Duration
	locale    nlp.Locale
	logger    logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Workspace
}

// NewStore returns an empty store.  New workspaces start in locale.
func NewStore(predictor inference.Predictor, opts Options, ttl time.Duration, locale nlp.Locale) *Store {
	opts = opts.withDefaults()
	return &Store{
		predictor: predictor,
		opts:      opts,
		ttl:       ttl,
		locale:    locale,
		logger:    opts.Logger.Named("sessions"),
		now:       time.Now,
		sessions:  make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it when id is empty or unknown.
// The returned workspace's ID may differ from id.
func (s *Store) Get(id string) *Workspace {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.sessions[id]; ok && id != "" {
		w.touch(now)
		return w
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w := NewWorkspace(id, s.predictor, s.opts, s.locale)
	w.touch(now)
	s.sessions[id] = w
	s.opts.Metrics.SetActiveSessions(len(s.sessions))
	return w
}

// Lookup returns the workspace for id without creating one.
func (s *Store) Lookup(id string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.sessions[id]
	return w, ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict removes sessions idle for longer than the TTL and returns how many
// were removed.  A session with a request in flight is kept.
func (s *Store) Evict() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, w := range s.sessions {
		if w.idleSince(now) <= s.ttl || w.busy() {
			continue
		}
		delete(s.sessions, id)
		n++
	}
	if n > 0 {
		s.opts.Metrics.SetActiveSessions(len(s.sessions))
		s.logger.Debug("evicted idle sessions", logging.Int("evicted", n), logging.Int("remaining", len(s.sessions)))
	}
	return n
}

// Run evicts idle sessions periodically until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Evict()
		}
	}
}

func (w *Workspace) busy() bool {
	for _, p := range w.panels {
		if p.Busy() {
			return true
		}
	}
	return false
}
