package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/game"
	"github.com/playperu/campusguessr/internal/metrics"
)

type HardEntryResponse struct {
	Round    int           `json:"round"`
	Building string        `json:"building"`
	Guess    campus.Point  `json:"guess"`
	Distance float64       `json:"distance" description:"Meters between the guess and the building."`
	Actual   *campus.Point `json:"actual,omitempty" description:"Only present once the game is complete."`
}

type HardStateResponse struct {
	ID            string              `json:"id"`
	Round         int                 `json:"round" description:"Current round, 1-based."`
	Total         int                 `json:"total"`
	Complete      bool                `json:"complete"`
	Current       string              `json:"current,omitempty" description:"Building to place; empty once complete."`
	Guesses       []HardEntryResponse `json:"guesses"`
	Score         *float64            `json:"score,omitempty" description:"Final score in percent."`
	TotalDistance *float64            `json:"totalDistance,omitempty" description:"Sum of capped distances in meters."`
}

type HardGuessRequest struct {
	ID       string        `path:"id" json:"-"`
	Location *campus.Point `json:"location" required:"true" description:"Clicked point as [lon, lat]."`
}

func entryResponse(e game.Entry, reveal bool) HardEntryResponse {
	resp := HardEntryResponse{
		Round:    e.Round + 1,
		Building: e.BuildingName,
		Guess:    e.Guess,
		Distance: e.Distance,
	}
	if reveal {
		actual := e.Actual
		resp.Actual = &actual
	}
	return resp
}

// hardState renders a session snapshot. Building locations stay hidden
// until the game is complete.
func hardState(st game.HardState) HardStateResponse {
	resp := HardStateResponse{
		ID:       st.ID,
		Round:    st.Round + 1,
		Total:    st.Total,
		Complete: st.Complete,
		Current:  st.Current,
		Guesses:  make([]HardEntryResponse, len(st.Log)),
	}
	for i, e := range st.Log {
		resp.Guesses[i] = entryResponse(e, st.Complete)
	}
	if st.Summary != nil {
		score, total := st.Summary.Score, st.Summary.TotalDistance
		resp.Score = &score
		resp.TotalDistance = &total
	}
	return resp
}

func hardSession(w http.ResponseWriter, r *http.Request, store *game.Store) (*game.HardSession, bool) {
	sess, err := store.Hard(chi.URLParam(r, "id"))
	if errors.Is(err, game.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return sess, true
}

func handleNewHard(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := store.NewHard()
		metrics.IncSessionStarted(modeHard)
		metrics.SetSessionsActive(store.Len())
		writeJSON(w, http.StatusCreated, hardState(sess.State()))
	}
}

func handleHardState(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := hardSession(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, hardState(sess.State()))
	}
}

func handleHardGuess(store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := hardSession(w, r, store)
		if !ok {
			return
		}

		var req HardGuessRequest
		if err := readJSON(w, r, &req); err != nil {
			if errors.Is(err, campus.ErrInvalidPoint) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Location == nil {
			writeError(w, http.StatusBadRequest, "location is required")
			return
		}

		e, err := sess.RecordGuess(*req.Location)
		switch {
		case errors.Is(err, campus.ErrInvalidPoint):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, game.ErrSessionComplete):
			writeError(w, http.StatusConflict, "game is complete")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		metrics.IncGuess(modeHard, "recorded")

		dist := e.Distance
		broker.Publish(sess.ID(), Event{
			Type:     EventGuessRecorded,
			Building: e.BuildingName,
			Round:    e.Round + 1,
			Location: &e.Guess,
			Distance: &dist,
		})
		writeJSON(w, http.StatusOK, entryResponse(e, false))
	}
}

func handleHardNext(logger *slog.Logger, store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := hardSession(w, r, store)
		if !ok {
			return
		}

		completed, err := sess.Advance()
		if err != nil {
			if errors.Is(err, game.ErrRoundUnanswered) {
				writeError(w, http.StatusConflict, "place the building before moving on")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		st := sess.State()
		switch {
		case completed && st.Complete:
			score := st.Summary.Score
			for _, d := range st.Summary.Distances {
				metrics.ObserveRoundDistance(d)
			}
			metrics.ObserveFinalScore(score)
			logger.Info("hard game complete",
				"session", sess.ID(),
				"rounds", st.Total,
				"score", score,
				"total_distance_m", st.Summary.TotalDistance,
			)
			broker.Publish(sess.ID(), Event{Type: EventGameComplete, Score: &score, Total: st.Total})
		case !st.Complete:
			broker.Publish(sess.ID(), Event{Type: EventRoundChanged, Round: st.Round + 1, Total: st.Total})
		}

		writeJSON(w, http.StatusOK, hardState(st))
	}
}

func handleHardPrevious(store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := hardSession(w, r, store)
		if !ok {
			return
		}

		before := sess.State().Round
		sess.Previous()
		st := sess.State()
		if st.Round != before {
			broker.Publish(sess.ID(), Event{Type: EventRoundChanged, Round: st.Round + 1, Total: st.Total})
		}
		writeJSON(w, http.StatusOK, hardState(st))
	}
}

func handleHardReset(store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := hardSession(w, r, store)
		if !ok {
			return
		}
		sess.Reset()
		broker.Publish(sess.ID(), Event{Type: EventGameReset})
		writeJSON(w, http.StatusOK, hardState(sess.State()))
	}
}
