// Package catalog holds the fixed set of locations benchmarked by tempbench.
package catalog

import (
	"fmt"
	"strings"

	"github.com/aryankumar/tempbench/internal/util"
)

// Location identifies a place whose hourly series is fetched and summarized.
// Locations are immutable and shared read-only across workers.
type Location struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// String returns the location name with its coordinates
func (l Location) String() string {
	return fmt.Sprintf("%s (%.4f, %.4f)", l.Name, l.Latitude, l.Longitude)
}

// capitals lists the 27 Brazilian state capitals in catalog order
var capitals = []Location{
	{Name: "Aracaju", Latitude: -10.9167, Longitude: -37.05},
	{Name: "Belém", Latitude: -1.4558, Longitude: -48.5039},
	{Name: "Belo Horizonte", Latitude: -19.9167, Longitude: -43.9333},
	{Name: "Boa Vista", Latitude: 2.81972, Longitude: -60.67333},
	{Name: "Brasília", Latitude: -15.7939, Longitude: -47.8828},
	{Name: "Campo Grande", Latitude: -20.44278, Longitude: -54.64639},
	{Name: "Cuiabá", Latitude: -15.5989, Longitude: -56.0949},
	{Name: "Curitiba", Latitude: -25.4297, Longitude: -49.2711},
	{Name: "Florianópolis", Latitude: -27.5935, Longitude: -48.55854},
	{Name: "Fortaleza", Latitude: -3.7275, Longitude: -38.5275},
	{Name: "Goiânia", Latitude: -16.6667, Longitude: -49.25},
	{Name: "João Pessoa", Latitude: -7.12, Longitude: -34.88},
	{Name: "Macapá", Latitude: 0.033, Longitude: -51.05},
	{Name: "Maceió", Latitude: -9.66583, Longitude: -35.73528},
	{Name: "Manaus", Latitude: -3.1189, Longitude: -60.0217},
	{Name: "Natal", Latitude: -5.7833, Longitude: -35.2},
	{Name: "Palmas", Latitude: -10.16745, Longitude: -48.32766},
	{Name: "Porto Alegre", Latitude: -30.0331, Longitude: -51.23},
	{Name: "Porto Velho", Latitude: -8.76194, Longitude: -63.90389},
	{Name: "Recife", Latitude: -8.05, Longitude: -34.9},
	{Name: "Rio Branco", Latitude: -9.97472, Longitude: -67.81},
	{Name: "Rio de Janeiro", Latitude: -22.9111, Longitude: -43.2056},
	{Name: "Salvador", Latitude: -12.9747, Longitude: -38.4767},
	{Name: "São Luís", Latitude: -2.5283, Longitude: -44.3044},
	{Name: "São Paulo", Latitude: -23.55, Longitude: -46.6333},
	{Name: "Teresina", Latitude: -5.08917, Longitude: -42.80194},
	{Name: "Vitória", Latitude: -20.2889, Longitude: -40.3083},
}

// Capitals returns a copy of the catalog in its fixed order
func Capitals() []Location {
	out := make([]Location, len(capitals))
	copy(out, capitals)
	return out
}

// Names returns the names of the given locations, preserving order
func Names(locs []Location) []string {
	names := make([]string, len(locs))
	for i, l := range locs {
		names[i] = l.Name
	}
	return names
}

// Lookup finds a catalog location by name.
// Matching ignores case and surrounding whitespace.
func Lookup(name string) (Location, bool) {
	want := strings.TrimSpace(name)
	for _, l := range capitals {
		if strings.EqualFold(l.Name, want) {
			return l, true
		}
	}
	return Location{}, false
}

// Filter returns the catalog locations whose names appear in names, in
// catalog order. An empty names slice selects the whole catalog. Unknown
// names are reported as an error so typos don't silently shrink a run.
func Filter(names []string) ([]Location, error) {
	if len(names) == 0 {
		return Capitals(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		l, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown location %q: %w", n, util.ErrLocationNotFound)
		}
		wanted[l.Name] = true
	}

	out := make([]Location, 0, len(wanted))
	for _, l := range capitals {
		if wanted[l.Name] {
			out = append(out, l)
		}
	}
	return out, nil
}
