package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/playperu/campusguessr/internal/campus"
)

var campanile = campus.Point{Lon: -122.259, Lat: 37.872}

func east(p campus.Point, deg float64) campus.Point {
	return campus.Point{Lon: p.Lon + deg, Lat: p.Lat}
}

func TestHaversine(t *testing.T) {
	if d := Haversine(campanile, campanile); d != 0 {
		t.Errorf("Haversine(p, p) = %v, want 0", d)
	}

	// 0.01° of longitude at 37.872°N is about 878 m.
	d := Haversine(campanile, east(campanile, 0.01))
	if d < 860 || d > 900 {
		t.Errorf("Haversine 0.01° east = %.1f m, want ~880", d)
	}

	// One degree of latitude is about 111.2 km everywhere.
	north := campus.Point{Lon: campanile.Lon, Lat: campanile.Lat + 1}
	if d := Haversine(campanile, north); math.Abs(d-111195) > 50 {
		t.Errorf("Haversine 1° north = %.0f m, want ~111195", d)
	}

	// Antipodes land on half the circumference.
	if d := Haversine(campus.Point{Lon: 0, Lat: 0}, campus.Point{Lon: 180, Lat: 0}); math.Abs(d-math.Pi*EarthRadius) > 1 {
		t.Errorf("Haversine antipodes = %.0f, want %.0f", d, math.Pi*EarthRadius)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	points := []campus.Point{
		campanile,
		east(campanile, 0.003),
		{Lon: -122.2507, Lat: 37.8712},
		{Lon: 2.3522, Lat: 48.8566},
		{Lon: -77.0428, Lat: -12.0464},
	}
	for _, a := range points {
		for _, b := range points {
			ab, ba := Haversine(a, b), Haversine(b, a)
			if math.Abs(ab-ba) > 1e-6 {
				t.Errorf("Haversine(%v, %v) = %v, reverse = %v", a, b, ab, ba)
			}
			if ab < 0 {
				t.Errorf("Haversine(%v, %v) = %v, want >= 0", a, b, ab)
			}
		}
	}
}

func TestScoreRoundCapsAtRadius(t *testing.T) {
	s := NewScorer(DefaultRadius)

	if got := s.ScoreRound(campanile, east(campanile, 0.05)); got != DefaultRadius {
		t.Errorf("far guess = %v, want %v", got, DefaultRadius)
	}

	near := east(campanile, 0.001)
	if got, want := s.ScoreRound(campanile, near), Haversine(campanile, near); got != want {
		t.Errorf("near guess = %v, want %v", got, want)
	}
}

func TestFinalScore(t *testing.T) {
	s := NewScorer(DefaultRadius)
	far := east(campanile, 0.02)

	tests := []struct {
		name   string
		rounds []Round
		want   float64
	}{
		{
			name:   "all perfect",
			rounds: []Round{{campanile, campanile}, {far, far}},
			want:   100,
		},
		{
			name:   "all beyond radius",
			rounds: []Round{{campanile, far}, {far, campanile}},
			want:   0,
		},
		{
			name:   "one perfect one maximal",
			rounds: []Round{{campanile, campanile}, {campanile, far}},
			want:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FinalScore(tt.rounds)
			if err != nil {
				t.Fatalf("FinalScore: %v", err)
			}
			if got != tt.want {
				t.Errorf("FinalScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalScoreRoundsToTwoDecimals(t *testing.T) {
	s := NewScorer(DefaultRadius)
	guess := east(campanile, 0.001)

	got, err := s.FinalScore([]Round{{guess, campanile}})
	if err != nil {
		t.Fatalf("FinalScore: %v", err)
	}

	want := math.Round((1-Haversine(guess, campanile)/DefaultRadius)*100*100) / 100
	if got != want {
		t.Errorf("FinalScore = %v, want %v", got, want)
	}
}

func TestFinalScoreNoRounds(t *testing.T) {
	_, err := NewScorer(DefaultRadius).FinalScore(nil)
	if !errors.Is(err, ErrNoRounds) {
		t.Errorf("err = %v, want ErrNoRounds", err)
	}
}

func TestSummarize(t *testing.T) {
	s := NewScorer(DefaultRadius)
	far := east(campanile, 0.02)

	sum, err := s.Summarize([]Round{{campanile, campanile}, {campanile, far}})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalDistance != DefaultRadius {
		t.Errorf("TotalDistance = %v, want %v", sum.TotalDistance, DefaultRadius)
	}
	if len(sum.Distances) != 2 || sum.Distances[0] != 0 || sum.Distances[1] != DefaultRadius {
		t.Errorf("Distances = %v, want [0 %v]", sum.Distances, DefaultRadius)
	}
}

func TestNewScorerDefaultsRadius(t *testing.T) {
	if got := NewScorer(0).Radius; got != DefaultRadius {
		t.Errorf("Radius = %v, want %v", got, DefaultRadius)
	}
	if got := NewScorer(250).Radius; got != 250 {
		t.Errorf("Radius = %v, want 250", got)
	}
}
