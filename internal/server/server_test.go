package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/game"
	"github.com/playperu/campusguessr/internal/geo"
	"github.com/playperu/campusguessr/internal/match"
)

var testBuildings = []campus.Building{
	{Name: "Wheeler Hall", Location: campus.Point{Lon: -122.2591, Lat: 37.8713}},
	{Name: "Soda Hall", Location: campus.Point{Lon: -122.2588, Lat: 37.8756}},
	{Name: "Sather Tower", Location: campus.Point{Lon: -122.2578, Lat: 37.8721}},
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	c, err := campus.NewCatalog(testBuildings, map[string][]string{
		"Sather Tower": {"campanile"},
	})
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	store := game.NewStore(c, match.New(c), geo.NewScorer(geo.DefaultRadius),
		game.WithRand(rand.New(rand.NewPCG(7, 7))))

	return Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  store,
		Broker: NewBroker(),
	}
}

func testRouter(t *testing.T) (chi.Router, Deps) {
	t.Helper()
	d := testDeps(t)
	return newRouter(d), d
}

// do sends a JSON request and decodes the JSON response into out when set.
func do(t *testing.T, h http.Handler, method, path string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			data, _ := json.Marshal(body)
			rd = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response (status %d): %v", method, path, rec.Code, err)
		}
	}
	return rec.Code
}

func lookupBuilding(t *testing.T, name string) campus.Building {
	t.Helper()
	for _, b := range testBuildings {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("unknown building %q", name)
	return campus.Building{}
}
