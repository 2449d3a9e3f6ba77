// Package catalog loads the static building dataset and turns it into an
// immutable campus.Catalog. Coordinates may arrive as JSON numbers or as
// text; entries whose coordinates do not parse are left out and reported
// instead of being placed at (0, 0).
package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/playperu/campusguessr/internal/campus"
)

//go:embed data/campus.json
var defaultFS embed.FS

var (
	ErrMissingName = errors.New("missing name")
	ErrBadCoord    = errors.New("coordinate is not a number")
	ErrDuplicate   = errors.New("duplicate name")
	ErrNoBuildings = errors.New("dataset has no usable buildings")
)

// Coord is a coordinate exactly as it appeared in the source, before parsing.
type Coord string

func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coord(s)
		return nil
	}
	*c = Coord(data)
	return nil
}

func (c Coord) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(c)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadCoord, string(c))
	}
	return f, nil
}

type Record struct {
	Name      string `json:"name"`
	Latitude  Coord  `json:"latitude"`
	Longitude Coord  `json:"longitude"`
}

// Dataset is the on-disk shape of a campus: buildings in display order plus
// aliases keyed by canonical building name.
type Dataset struct {
	Buildings []Record            `json:"buildings"`
	Aliases   map[string][]string `json:"aliases"`
}

type Skipped struct {
	Index int
	Name  string
	Err   error
}

// Report lists everything Build left out of the catalog.
type Report struct {
	Loaded         int
	Skipped        []Skipped
	DroppedAliases []string
}

func Decode(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decoding dataset: %w", err)
	}
	return ds, nil
}

// Build parses and validates every record, skipping the ones that cannot be
// placed on the map, and binds aliases to the surviving buildings.
func Build(ds Dataset) (*campus.Catalog, Report, error) {
	var (
		rep       Report
		buildings []campus.Building
		seen      = make(map[string]bool, len(ds.Buildings))
	)

	for i, rec := range ds.Buildings {
		name := strings.TrimSpace(rec.Name)
		b, err := parseRecord(name, rec)
		if err == nil && seen[campus.FoldName(name)] {
			err = ErrDuplicate
		}
		if err != nil {
			rep.Skipped = append(rep.Skipped, Skipped{Index: i, Name: name, Err: err})
			continue
		}
		seen[campus.FoldName(name)] = true
		buildings = append(buildings, b)
	}
	if len(buildings) == 0 {
		return nil, rep, ErrNoBuildings
	}

	aliases := make(map[string][]string, len(ds.Aliases))
	for key, list := range ds.Aliases {
		if !hasName(buildings, key) {
			rep.DroppedAliases = append(rep.DroppedAliases, key)
			continue
		}
		aliases[key] = list
	}

	c, err := campus.NewCatalog(buildings, aliases)
	if err != nil {
		return nil, rep, fmt.Errorf("building catalog: %w", err)
	}
	rep.Loaded = c.Len()
	return c, rep, nil
}

func parseRecord(name string, rec Record) (campus.Building, error) {
	if name == "" {
		return campus.Building{}, ErrMissingName
	}
	lat, err := rec.Latitude.Float()
	if err != nil {
		return campus.Building{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := rec.Longitude.Float()
	if err != nil {
		return campus.Building{}, fmt.Errorf("longitude: %w", err)
	}
	p := campus.Point{Lon: lon, Lat: lat}
	if err := p.Validate(); err != nil {
		return campus.Building{}, err
	}
	return campus.Building{Name: name, Location: p}, nil
}

func hasName(buildings []campus.Building, name string) bool {
	for _, b := range buildings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Default returns the dataset compiled into the binary.
func Default() (Dataset, error) {
	f, err := defaultFS.Open("data/campus.json")
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return Decode(f)
}

func ReadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Clean returns ds without the records and alias keys that Build left out,
// so it can be stored under the database's uniqueness constraints.
func (r Report) Clean(ds Dataset) Dataset {
	skip := make(map[int]bool, len(r.Skipped))
	for _, s := range r.Skipped {
		skip[s.Index] = true
	}
	dropped := make(map[string]bool, len(r.DroppedAliases))
	for _, name := range r.DroppedAliases {
		dropped[name] = true
	}

	out := Dataset{Aliases: make(map[string][]string, len(ds.Aliases))}
	for i, rec := range ds.Buildings {
		if !skip[i] {
			out.Buildings = append(out.Buildings, rec)
		}
	}
	for name, list := range ds.Aliases {
		if !dropped[name] {
			out.Aliases[name] = list
		}
	}
	return out
}
