package match

// Outcome is what a guess means for a normal-mode session.
type Outcome string

const (
	OutcomeEmpty        Outcome = "empty"
	OutcomeNoMatch      Outcome = "no_match"
	OutcomeAlreadyFound Outcome = "already_found"
	OutcomeFound        Outcome = "found"
)

// FoundSet reports whether a canonical building name was already guessed.
type FoundSet interface {
	Has(name string) bool
}

// Classify runs Match and checks the result against found. The same
// distance and threshold rule decides both "new match" and "already found".
// It never mutates found.
func (m *Matcher) Classify(input string, found FoundSet) (Outcome, Result) {
	if Normalize(input) == "" {
		return OutcomeEmpty, Result{}
	}
	res, ok := m.Match(input)
	if !ok {
		return OutcomeNoMatch, Result{}
	}
	if found != nil && found.Has(res.Building.Name) {
		return OutcomeAlreadyFound, res
	}
	return OutcomeFound, res
}
