package game

import (
	"math"
	"sync"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/match"
)

// NormalSession is one normal-mode game: the player types names and the
// session tracks which buildings have been found.
type NormalSession struct {
	activity

	id      string
	total   int
	matcher *match.Matcher

	mu    sync.Mutex
	found GuessedSet
}

type GuessResult struct {
	Outcome  match.Outcome
	Building *campus.Building
	Kind     match.Kind
	Found    int
	Total    int
	Progress float64
}

type NormalState struct {
	ID       string
	Found    []string // newest first
	Total    int
	Progress float64
}

func newNormalSession(id string, catalog *campus.Catalog, m *match.Matcher) *NormalSession {
	return &NormalSession{id: id, total: catalog.Len(), matcher: m}
}

func (s *NormalSession) ID() string { return s.id }

// Guess classifies input and, on a new match, adds the building to the
// found set. Empty input, misses and repeats leave the set untouched.
func (s *NormalSession) Guess(input string) GuessResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, res := s.matcher.Classify(input, &s.found)
	if outcome == match.OutcomeFound {
		s.found.Add(res.Building.Name)
	}

	out := GuessResult{
		Outcome:  outcome,
		Kind:     res.Kind,
		Found:    s.found.Len(),
		Total:    s.total,
		Progress: progress(s.found.Len(), s.total),
	}
	if outcome == match.OutcomeFound || outcome == match.OutcomeAlreadyFound {
		b := res.Building
		out.Building = &b
	}
	return out
}

func (s *NormalSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.found.Reset()
}

func (s *NormalSession) State() NormalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NormalState{
		ID:       s.id,
		Found:    s.found.Recent(),
		Total:    s.total,
		Progress: progress(s.found.Len(), s.total),
	}
}

// progress is the share of the catalog found, as a percentage with two
// decimals.
func progress(found, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(found)/float64(total)*100*100) / 100
}
