// Package campus defines the core domain types: buildings, map points and the
// immutable catalog shared by the matcher and the scorer.
package campus

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidPoint    = errors.New("invalid point")
	ErrEmptyName       = errors.New("building name is empty")
	ErrDuplicateName   = errors.New("duplicate building name")
	ErrUnknownAliasKey = errors.New("alias key does not name a building")
	ErrEmptyCatalog    = errors.New("catalog has no buildings")
)

// Point is a WGS84 coordinate in decimal degrees. It travels on the wire as
// a [longitude, latitude] array, the order the map client produces.
type Point struct {
	Lon float64
	Lat float64
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) ||
		p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidPoint, p.Lon, p.Lat)
	}
	return nil
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: want [lon, lat], got %d values", ErrInvalidPoint, len(pair))
	}
	p.Lon, p.Lat = pair[0], pair[1]
	return nil
}

type Building struct {
	Name     string
	Location Point
}

// Catalog is the read-only set of buildings and their aliases. Build it once
// with NewCatalog and share the pointer; nothing mutates it afterwards.
type Catalog struct {
	buildings []Building
	byName    map[string]int
	aliases   [][]string
}

// NewCatalog validates buildings and binds each alias key to exactly one
// building by canonical name. Aliases are stored trimmed and lowercased.
func NewCatalog(buildings []Building, aliases map[string][]string) (*Catalog, error) {
	if len(buildings) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		buildings: slices.Clone(buildings),
		byName:    make(map[string]int, len(buildings)),
		aliases:   make([][]string, len(buildings)),
	}

	folded := make(map[string]string, len(buildings))
	for i, b := range c.buildings {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("building %d: %w", i, ErrEmptyName)
		}
		if err := b.Location.Validate(); err != nil {
			return nil, fmt.Errorf("building %q: %w", b.Name, err)
		}
		key := FoldName(b.Name)
		if prev, ok := folded[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateName, prev, b.Name)
		}
		folded[key] = b.Name
		c.byName[b.Name] = i
	}

	for key, list := range aliases {
		i, ok := c.byName[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAliasKey, key)
		}
		for _, a := range list {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" || slices.Contains(c.aliases[i], a) {
				continue
			}
			c.aliases[i] = append(c.aliases[i], a)
		}
	}

	return c, nil
}

// FoldName is the key two building names must not share: compatibility
// forms folded, surrounding space trimmed, lowercased. It matches the
// normalization the matcher applies to player input.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(name)))
}

func (c *Catalog) Len() int { return len(c.buildings) }

// Buildings returns a copy of the catalog in load order.
func (c *Catalog) Buildings() []Building { return slices.Clone(c.buildings) }

func (c *Catalog) At(i int) Building { return c.buildings[i] }

// Lookup finds a building by its exact canonical name.
func (c *Catalog) Lookup(name string) (Building, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Building{}, false
	}
	return c.buildings[i], true
}

// Aliases returns the lowercase alternates accepted for the named building.
func (c *Catalog) Aliases(name string) []string {
	i, ok := c.byName[name]
	if !ok {
		return nil
	}
	return slices.Clone(c.aliases[i])
}
