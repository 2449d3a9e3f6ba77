package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/geo"
)

var (
	ErrSessionComplete = errors.New("session is complete")
	ErrRoundUnanswered = errors.New("current round has no guess")
)

// Entry is one slot of the guess log.
type Entry struct {
	Round        int
	BuildingName string
	Guess        campus.Point
	Actual       campus.Point
	Distance     float64 // meters, uncapped
}

// HardState is a snapshot of a hard-mode session. Log holds the recorded
// rounds in play order.
type HardState struct {
	ID       string
	Round    int
	Total    int
	Complete bool
	Current  string // building to find; empty once complete
	Log      []Entry
	Summary  *geo.Summary
}

// HardSession is one hard-mode game. The player clicks where each building
// in a shuffled order is, may revise or revisit rounds, and the session
// completes when they advance past the last answered round.
//
//	InProgress(i) --RecordGuess--> InProgress(i)
//	InProgress(i) --Advance, i answered, not last--> InProgress(i+1)
//	InProgress(i) --Advance, i answered, last--> Complete(score)
//	InProgress(i) --Previous, i>0--> InProgress(i-1)
type HardSession struct {
	activity

	id       string
	scorer   geo.Scorer
	newOrder func() []campus.Building

	mu       sync.Mutex
	order    []campus.Building
	log      []*Entry
	round    int
	complete bool
	summary  *geo.Summary
}

func newHardSession(id string, scorer geo.Scorer, newOrder func() []campus.Building) *HardSession {
	s := &HardSession{id: id, scorer: scorer, newOrder: newOrder}
	s.start()
	return s
}

func (s *HardSession) start() {
	s.order = s.newOrder()
	s.log = make([]*Entry, len(s.order))
	s.round = 0
	s.complete = false
	s.summary = nil
}

func (s *HardSession) ID() string { return s.id }

// RecordGuess stores p as the guess for the current round, replacing any
// earlier guess for it.
func (s *HardSession) RecordGuess(p campus.Point) (Entry, error) {
	if err := p.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return Entry{}, ErrSessionComplete
	}

	b := s.order[s.round]
	e := &Entry{
		Round:        s.round,
		BuildingName: b.Name,
		Guess:        p,
		Actual:       b.Location,
		Distance:     geo.Haversine(p, b.Location),
	}
	s.log[s.round] = e
	return *e, nil
}

// Advance moves to the next round, or completes the session when the last
// round is answered. completed is true only for the call that finished the
// session; once complete, Advance is a no-op.
func (s *HardSession) Advance() (completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return false, nil
	}
	if s.log[s.round] == nil {
		return false, fmt.Errorf("round %d: %w", s.round+1, ErrRoundUnanswered)
	}
	if s.round < len(s.order)-1 {
		s.round++
		return false, nil
	}

	rounds := make([]geo.Round, len(s.log))
	for i, e := range s.log {
		if e == nil {
			return false, fmt.Errorf("round %d: %w", i+1, ErrRoundUnanswered)
		}
		rounds[i] = geo.Round{Guess: e.Guess, Actual: e.Actual}
	}
	sum, err := s.scorer.Summarize(rounds)
	if err != nil {
		return false, err
	}
	s.summary = &sum
	s.complete = true
	return true, nil
}

// Previous steps back one round without touching any guess. It is a no-op
// on the first round or once complete.
func (s *HardSession) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete || s.round == 0 {
		return
	}
	s.round--
}

// Reset reshuffles the buildings and discards the guess log.
func (s *HardSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

func (s *HardSession) State() HardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := HardState{
		ID:       s.id,
		Round:    s.round,
		Total:    len(s.order),
		Complete: s.complete,
	}
	if !s.complete {
		st.Current = s.order[s.round].Name
	}
	for _, e := range s.log {
		if e == nil {
			continue
		}
		st.Log = append(st.Log, *e)
	}
	if s.summary != nil {
		sum := *s.summary
		sum.Distances = slices.Clone(sum.Distances)
		st.Summary = &sum
	}
	return st
}
