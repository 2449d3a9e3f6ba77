package catalog

import (
	"errors"
	"strings"
	"testing"
)

const sample = `{
  "buildings": [
    { "name": "Wheeler Hall", "latitude": 37.8713, "longitude": -122.2591 },
    { "name": "Soda Hall", "latitude": " 37.8756 ", "longitude": "-122.2588" },
    { "name": "Ghost Hall", "latitude": "north-ish", "longitude": -122.25 },
    { "name": "Null Hall", "latitude": null, "longitude": -122.25 },
    { "name": "Moon Base", "latitude": 137.0, "longitude": 0 },
    { "name": "", "latitude": 37.87, "longitude": -122.25 },
    { "name": "wheeler hall", "latitude": 37.8713, "longitude": -122.2591 }
  ],
  "aliases": {
    "Wheeler Hall": ["wheeler"],
    "Ghost Hall": ["ghost"],
    "Soda": ["soda"]
  }
}`

func TestBuild(t *testing.T) {
	ds, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	c, rep, err := Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if c.Len() != 2 || rep.Loaded != 2 {
		t.Fatalf("loaded %d (report %d), want 2", c.Len(), rep.Loaded)
	}

	soda, ok := c.Lookup("Soda Hall")
	if !ok {
		t.Fatal("Soda Hall missing")
	}
	if soda.Location.Lat != 37.8756 || soda.Location.Lon != -122.2588 {
		t.Errorf("Soda Hall location = %+v, want parsed text coordinates", soda.Location)
	}

	wantSkipped := map[string]error{
		"Ghost Hall":   ErrBadCoord,
		"Null Hall":    ErrBadCoord,
		"Moon Base":    nil,
		"":             ErrMissingName,
		"wheeler hall": ErrDuplicate,
	}
	if len(rep.Skipped) != len(wantSkipped) {
		t.Fatalf("skipped %d entries, want %d: %+v", len(rep.Skipped), len(wantSkipped), rep.Skipped)
	}
	for _, s := range rep.Skipped {
		want, ok := wantSkipped[s.Name]
		if !ok {
			t.Errorf("unexpected skip %q: %v", s.Name, s.Err)
			continue
		}
		if want != nil && !errors.Is(s.Err, want) {
			t.Errorf("skip %q: err = %v, want %v", s.Name, s.Err, want)
		}
	}

	if len(rep.DroppedAliases) != 2 {
		t.Errorf("dropped aliases = %v, want Ghost Hall and Soda", rep.DroppedAliases)
	}
	if got := c.Aliases("Wheeler Hall"); len(got) != 1 || got[0] != "wheeler" {
		t.Errorf("Wheeler Hall aliases = %v", got)
	}
}

func TestReportClean(t *testing.T) {
	ds, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	_, rep, err := Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	clean := rep.Clean(ds)
	if len(clean.Buildings) != 2 {
		t.Fatalf("clean has %d buildings, want 2", len(clean.Buildings))
	}
	if clean.Buildings[0].Name != "Wheeler Hall" || clean.Buildings[1].Name != "Soda Hall" {
		t.Errorf("clean buildings = %+v", clean.Buildings)
	}
	if len(clean.Aliases) != 1 || clean.Aliases["Wheeler Hall"] == nil {
		t.Errorf("clean aliases = %v", clean.Aliases)
	}

	// A cleaned dataset builds without anything skipped.
	_, rep, err = Build(clean)
	if err != nil || len(rep.Skipped) != 0 || len(rep.DroppedAliases) != 0 {
		t.Errorf("rebuilding clean dataset: %+v, %v", rep, err)
	}
}

func TestBuildSkipsCompatibilityDuplicates(t *testing.T) {
	ds := Dataset{Buildings: []Record{
		{Name: "Soda Hall", Latitude: "37.8756", Longitude: "-122.2588"},
		{Name: "ＳＯＤＡ Hall", Latitude: "37.8756", Longitude: "-122.2588"},
	}}

	c, rep, err := Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("loaded %d, want 1", c.Len())
	}
	if len(rep.Skipped) != 1 || !errors.Is(rep.Skipped[0].Err, ErrDuplicate) {
		t.Errorf("skipped = %+v, want the fullwidth duplicate", rep.Skipped)
	}
}

func TestBuildNoUsableBuildings(t *testing.T) {
	_, _, err := Build(Dataset{Buildings: []Record{{Name: "X", Latitude: "abc", Longitude: "1"}}})
	if !errors.Is(err, ErrNoBuildings) {
		t.Errorf("err = %v, want ErrNoBuildings", err)
	}
}

func TestDefaultDataset(t *testing.T) {
	ds, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	c, rep, err := Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rep.Skipped) != 0 || len(rep.DroppedAliases) != 0 {
		t.Errorf("default dataset has problems: %+v", rep)
	}
	if c.Len() != len(ds.Buildings) {
		t.Errorf("loaded %d of %d buildings", c.Len(), len(ds.Buildings))
	}
	if _, ok := c.Lookup("Campanile (Sather Tower)"); !ok {
		t.Error("Campanile missing from default dataset")
	}
}

func TestCoordFloat(t *testing.T) {
	tests := []struct {
		in      Coord
		want    float64
		wantErr bool
	}{
		{"37.5", 37.5, false},
		{" -122.25 ", -122.25, false},
		{"1e1", 10, false},
		{"", 0, true},
		{"null", 0, true},
		{"12abc", 0, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Float()
		if tt.wantErr {
			if !errors.Is(err, ErrBadCoord) {
				t.Errorf("Float(%q) err = %v, want ErrBadCoord", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Float(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
