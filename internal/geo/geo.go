// Package geo turns map clicks into distances and hard-mode rounds into a
// bounded percentage score.
package geo

import (
	"errors"
	"math"

	"github.com/playperu/campusguessr/internal/campus"
)

const (
	// EarthRadius is the mean Earth radius in meters.
	EarthRadius = 6371000.0
	// DefaultRadius caps a single round's penalty, in meters.
	DefaultRadius = 800.0
)

var ErrNoRounds = errors.New("no rounds to score")

// Haversine returns the great-circle distance in meters between two points.
func Haversine(p1, p2 campus.Point) float64 {
	φ1 := p1.Lat * math.Pi / 180
	φ2 := p2.Lat * math.Pi / 180
	dφ := (p2.Lat - p1.Lat) * math.Pi / 180
	dλ := (p2.Lon - p1.Lon) * math.Pi / 180

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	// Rounding can push a a hair past 1 for antipodal points.
	a = min(max(a, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}

// Round pairs where the player clicked with where the building really is.
type Round struct {
	Guess  campus.Point
	Actual campus.Point
}

type Scorer struct {
	Radius float64
}

func NewScorer(radius float64) Scorer {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return Scorer{Radius: radius}
}

// ScoreRound is the round's distance capped at the scorer radius.
func (s Scorer) ScoreRound(guess, actual campus.Point) float64 {
	return min(Haversine(guess, actual), s.Radius)
}

// Summary is the outcome of a finished set of rounds.
type Summary struct {
	Score         float64   // percentage in [0, 100], two decimals
	TotalDistance float64   // sum of capped distances, meters
	Distances     []float64 // capped distance per round
}

// FinalScore converts the rounds into a percentage in [0, 100] rounded to two
// decimals. Zero rounds is rejected with ErrNoRounds.
func (s Scorer) FinalScore(rounds []Round) (float64, error) {
	sum, err := s.Summarize(rounds)
	if err != nil {
		return 0, err
	}
	return sum.Score, nil
}

func (s Scorer) Summarize(rounds []Round) (Summary, error) {
	if len(rounds) == 0 {
		return Summary{}, ErrNoRounds
	}

	sum := Summary{Distances: make([]float64, len(rounds))}
	for i, r := range rounds {
		d := s.ScoreRound(r.Guess, r.Actual)
		sum.Distances[i] = d
		sum.TotalDistance += d
	}

	maxPossible := s.Radius * float64(len(rounds))
	pct := (1 - sum.TotalDistance/maxPossible) * 100
	pct = min(max(pct, 0), 100)
	sum.Score = math.Round(pct*100) / 100
	return sum, nil
}
