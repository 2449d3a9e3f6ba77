// Package metrics exposes game counters to Prometheus.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campusguessr"

var (
	registerOnce sync.Once

	guessesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guesses_total",
		Help:      "Guesses submitted, by game mode and outcome",
	}, []string{"mode", "outcome"})
	roundDistance = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "round_distance_meters",
		Help:      "Distance between a hard-mode guess and the building",
		Buckets:   []float64{10, 25, 50, 100, 200, 400, 800, 1600},
	})
	finalScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "final_score",
		Help:      "Hard-mode final score distribution",
		Buckets:   []float64{10, 20, 40, 60, 80, 90, 100},
	})
	sessionsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Sessions started, by game mode",
	}, []string{"mode"})
	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory",
	})
	catalogBuildings = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_buildings",
		Help:      "Buildings loaded into the catalog",
	})
)

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(guessesTotal, roundDistance, finalScore,
			sessionsStarted, sessionsActive, catalogBuildings)
	})
}

func Handler() http.Handler { return promhttp.Handler() }

func IncGuess(mode, outcome string)   { guessesTotal.WithLabelValues(mode, outcome).Inc() }
func ObserveRoundDistance(m float64)  { roundDistance.Observe(m) }
func ObserveFinalScore(score float64) { finalScore.Observe(score) }
func IncSessionStarted(mode string)   { sessionsStarted.WithLabelValues(mode).Inc() }
func SetSessionsActive(n int)         { sessionsActive.Set(float64(n)) }
func SetCatalogBuildings(n int)       { catalogBuildings.Set(float64(n)) }
