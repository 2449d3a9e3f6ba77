// Package game owns play sessions: the normal-mode found set, the hard-mode
// guess log and its state machine, and the in-memory store that hands
// sessions to the HTTP layer. Nothing here is persisted.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/geo"
	"github.com/playperu/campusguessr/internal/match"
)

var ErrNotFound = errors.New("session not found")

type Store struct {
	catalog *campus.Catalog
	matcher *match.Matcher
	scorer  geo.Scorer
	now     func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.RWMutex
	normal map[string]*NormalSession
	hard   map[string]*HardSession
}

type Option func(*Store)

// WithRand makes hard-mode shuffles reproducible.
func WithRand(r *rand.Rand) Option { return func(s *Store) { s.rng = r } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func NewStore(catalog *campus.Catalog, matcher *match.Matcher, scorer geo.Scorer, opts ...Option) *Store {
	s := &Store{
		catalog: catalog,
		matcher: matcher,
		scorer:  scorer,
		now:     time.Now,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		normal:  make(map[string]*NormalSession),
		hard:    make(map[string]*HardSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Catalog() *campus.Catalog { return s.catalog }

func (s *Store) Matcher() *match.Matcher { return s.matcher }

func (s *Store) NewNormal() *NormalSession {
	sess := newNormalSession(uuid.NewString(), s.catalog, s.matcher)
	sess.touch(s.now())

	s.mu.Lock()
	s.normal[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Normal(id string) (*NormalSession, error) {
	s.mu.RLock()
	sess, ok := s.normal[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Store) NewHard() *HardSession {
	sess := newHardSession(uuid.NewString(), s.scorer, s.shuffled)
	sess.touch(s.now())

	s.mu.Lock()
	s.hard[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Hard(id string) (*HardSession, error) {
	s.mu.RLock()
	sess, ok := s.hard[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Exists reports whether id names a live session of either mode.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, n := s.normal[id]
	_, h := s.hard[id]
	return n || h
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.normal) + len(s.hard)
}

// Sweep drops sessions unused for longer than idle and returns their IDs.
func (s *Store) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, sess := range s.normal {
		if sess.idleSince().Before(cutoff) {
			delete(s.normal, id)
			evicted = append(evicted, id)
		}
	}
	for id, sess := range s.hard {
		if sess.idleSince().Before(cutoff) {
			delete(s.hard, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done. onEvict, if set,
// is called with each batch of evicted session IDs.
func (s *Store) RunSweeper(ctx context.Context, logger *slog.Logger, interval, idle time.Duration, onEvict func([]string)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			evicted := s.Sweep(idle)
			if len(evicted) == 0 {
				continue
			}
			logger.Info("evicted idle sessions", "count", len(evicted), "remaining", s.Len())
			if onEvict != nil {
				onEvict(evicted)
			}
		}
	}
}

func (s *Store) shuffled() []campus.Building {
	order := s.catalog.Buildings()

	s.rngMu.Lock()
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	s.rngMu.Unlock()

	return order
}
