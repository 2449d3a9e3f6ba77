package game

import "slices"

// GuessedSet holds the canonical names found in a normal-mode session, in
// the order they were found. It only grows until Reset.
type GuessedSet struct {
	names []string
	index map[string]struct{}
}

func (s *GuessedSet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Add inserts name and reports whether it was new.
func (s *GuessedSet) Add(name string) bool {
	if s.Has(name) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *GuessedSet) Len() int { return len(s.names) }

// Names returns the found names in discovery order.
func (s *GuessedSet) Names() []string { return slices.Clone(s.names) }

// Recent returns the found names newest first.
func (s *GuessedSet) Recent() []string {
	out := slices.Clone(s.names)
	slices.Reverse(out)
	return out
}

func (s *GuessedSet) Reset() {
	s.names = nil
	s.index = nil
}
