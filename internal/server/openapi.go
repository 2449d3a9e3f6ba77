package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/campusguessr/internal/campus"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency name to its status.
type HealthResponse map[string]struct {
	Status    string `json:"status" enum:"ok,error"`
	LatencyMS int64  `json:"latency_ms"`
}

type operation struct {
	method, path string
	summary      string
	description  string
	req          any
	resp         any
	status       int
	errors       []int
}

var operations = []operation{
	{
		method:      http.MethodGet,
		path:        "/api/buildings",
		summary:     "List buildings",
		description: "Returns the campus catalog for the map.",
		req:         BuildingsRequest{},
		resp:        BuildingsResponse{},
		status:      http.StatusOK,
	},
	{
		method:      http.MethodPost,
		path:        "/api/match",
		summary:     "Match a name",
		description: "Resolves free text to a building by exact name, alias or close spelling.",
		req:         MatchRequest{},
		resp:        MatchResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusBadRequest},
	},
	{
		method:      http.MethodPost,
		path:        "/api/games",
		summary:     "Start normal game",
		description: "Starts a game where the player types building names.",
		resp:        GameStateResponse{},
		status:      http.StatusCreated,
	},
	{
		method:      http.MethodGet,
		path:        "/api/games/{id}",
		summary:     "Get normal game",
		description: "Returns the found buildings, newest first, and progress.",
		req:         SessionRequest{},
		resp:        GameStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound},
	},
	{
		method:      http.MethodPost,
		path:        "/api/games/{id}/guess",
		summary:     "Guess a building",
		description: "Matches the input and adds the building to the found list if it is new.",
		req:         GuessRequest{},
		resp:        GuessResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	},
	{
		method:      http.MethodPost,
		path:        "/api/games/{id}/reset",
		summary:     "Reset normal game",
		description: "Clears the found list.",
		req:         SessionRequest{},
		resp:        GameStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound},
	},
	{
		method:      http.MethodPost,
		path:        "/api/hard",
		summary:     "Start hard game",
		description: "Starts a game where the player places every building on the map, in shuffled order.",
		resp:        HardStateResponse{},
		status:      http.StatusCreated,
	},
	{
		method:      http.MethodGet,
		path:        "/api/hard/{id}",
		summary:     "Get hard game",
		description: "Returns the current round, the guesses so far and, once complete, the score.",
		req:         SessionRequest{},
		resp:        HardStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound},
	},
	{
		method:      http.MethodPost,
		path:        "/api/hard/{id}/guess",
		summary:     "Place building",
		description: "Records or revises the guess for the current round.",
		req:         HardGuessRequest{},
		resp:        HardEntryResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	},
	{
		method:      http.MethodPost,
		path:        "/api/hard/{id}/next",
		summary:     "Next round",
		description: "Moves to the next round, or finishes the game after the last one. The current round needs a guess.",
		req:         SessionRequest{},
		resp:        HardStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound, http.StatusConflict},
	},
	{
		method:      http.MethodPost,
		path:        "/api/hard/{id}/previous",
		summary:     "Previous round",
		description: "Steps back one round. Guesses are kept.",
		req:         SessionRequest{},
		resp:        HardStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound},
	},
	{
		method:      http.MethodPost,
		path:        "/api/hard/{id}/reset",
		summary:     "Reset hard game",
		description: "Reshuffles the buildings and discards all guesses.",
		req:         SessionRequest{},
		resp:        HardStateResponse{},
		status:      http.StatusOK,
		errors:      []int{http.StatusNotFound},
	},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Campus Guessr API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the campus building guessing game.")

	// Points travel as [lon, lat].
	r.AddTypeMapping(campus.Point{}, []float64{})

	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the catalog and its database are usable.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	for _, op := range operations {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	events, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/events")
	events.SetSummary("Session event stream")
	events.SetDescription("Server-Sent Events for one game: building_found, guess_recorded, round_changed, game_complete, game_reset.")
	events.AddReqStructure(SessionRequest{})
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	events.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(events)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
