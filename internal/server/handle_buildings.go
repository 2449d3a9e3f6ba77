package server

import (
	"net/http"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/game"
)

type BuildingResponse struct {
	Name     string        `json:"name"`
	Location *campus.Point `json:"location,omitempty"`
}

type BuildingsRequest struct {
	Session string `query:"session" description:"Hard-mode session ID; locations are hidden until it completes."`
}

type BuildingsResponse struct {
	Buildings []BuildingResponse `json:"buildings"`
	Hidden    bool               `json:"hidden"`
}

type MatchRequest struct {
	Input string `json:"input"`
}

type MatchResponse struct {
	Matched  bool              `json:"matched"`
	Kind     string            `json:"kind,omitempty"`
	Distance int               `json:"distance,omitempty"`
	Building *BuildingResponse `json:"building,omitempty"`
}

func buildingResponse(b campus.Building, showLocation bool) BuildingResponse {
	resp := BuildingResponse{Name: b.Name}
	if showLocation {
		loc := b.Location
		resp.Location = &loc
	}
	return resp
}

// handleBuildings lists the catalog for the map. Locations are left out only
// when ?session= names a hard-mode game still in progress; without it every
// location is listed, so this is a display aid and not an anti-cheat boundary.
func handleBuildings(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hidden := false
		if id := r.URL.Query().Get("session"); id != "" {
			if sess, err := store.Hard(id); err == nil {
				hidden = !sess.State().Complete
			}
		}

		buildings := store.Catalog().Buildings()
		resp := BuildingsResponse{
			Buildings: make([]BuildingResponse, len(buildings)),
			Hidden:    hidden,
		}
		for i, b := range buildings {
			resp.Buildings[i] = buildingResponse(b, !hidden)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleMatch runs the matcher without touching any session. The matched
// location is always included.
func handleMatch(store *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, ok := store.Matcher().Match(req.Input)
		if !ok {
			writeJSON(w, http.StatusOK, MatchResponse{})
			return
		}

		b := buildingResponse(res.Building, true)
		writeJSON(w, http.StatusOK, MatchResponse{
			Matched:  true,
			Kind:     res.Kind.String(),
			Distance: res.Distance,
			Building: &b,
		})
	}
}
