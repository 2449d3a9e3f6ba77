package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/campusguessr/internal/game"
	"github.com/playperu/campusguessr/internal/match"
	"github.com/playperu/campusguessr/internal/metrics"
)

const (
	modeNormal = "normal"
	modeHard   = "hard"
)

type SessionRequest struct {
	ID string `path:"id"`
}

type GameStateResponse struct {
	ID       string   `json:"id"`
	Found    []string `json:"found" description:"Found building names, newest first."`
	Total    int      `json:"total"`
	Progress float64  `json:"progress" description:"Percentage of the catalog found."`
}

type GuessRequest struct {
	ID    string `path:"id" json:"-"`
	Input string `json:"input"`
}

type GuessResponse struct {
	Result   match.Outcome     `json:"result" enum:"empty,no_match,already_found,found"`
	Kind     string            `json:"kind,omitempty"`
	Building *BuildingResponse `json:"building,omitempty"`
	Found    int               `json:"found"`
	Total    int               `json:"total"`
	Progress float64           `json:"progress"`
}

func gameState(st game.NormalState) GameStateResponse {
	found := st.Found
	if found == nil {
		found = []string{}
	}
	return GameStateResponse{ID: st.ID, Found: found, Total: st.Total, Progress: st.Progress}
}

// normalSession resolves {id} or writes the error response.
func normalSession(w http.ResponseWriter, r *http.Request, store *game.Store) (*game.NormalSession, bool) {
	sess, err := store.Normal(chi.URLParam(r, "id"))
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

func handleNewGame(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := store.NewNormal()
		metrics.IncSessionStarted(modeNormal)
		metrics.SetSessionsActive(store.Len())
		writeJSON(w, http.StatusCreated, gameState(sess.State()))
	}
}

func handleGameState(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := normalSession(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, gameState(sess.State()))
	}
}

func handleGuess(logger *slog.Logger, store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := normalSession(w, r, store)
		if !ok {
			return
		}

		var req GuessRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res := sess.Guess(req.Input)
		metrics.IncGuess(modeNormal, string(res.Outcome))

		resp := GuessResponse{
			Result:   res.Outcome,
			Found:    res.Found,
			Total:    res.Total,
			Progress: res.Progress,
		}
		if res.Building != nil {
			b := buildingResponse(*res.Building, true)
			resp.Building = &b
			resp.Kind = res.Kind.String()
		}

		if res.Outcome == match.OutcomeFound {
			broker.Publish(sess.ID(), Event{
				Type:     EventBuildingFound,
				Building: res.Building.Name,
				Found:    res.Found,
				Total:    res.Total,
			})
			if res.Found == res.Total {
				logger.Info("all buildings found", "session", sess.ID(), "total", res.Total)
				broker.Publish(sess.ID(), Event{Type: EventGameComplete, Found: res.Found, Total: res.Total})
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGameReset(store *game.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := normalSession(w, r, store)
		if !ok {
			return
		}
		sess.Reset()
		broker.Publish(sess.ID(), Event{Type: EventGameReset})
		writeJSON(w, http.StatusOK, gameState(sess.State()))
	}
}
