package catalog

import (
	"strings"
	"testing"

	"github.com/aryankumar/tempbench/internal/util"
)

func TestCapitals(t *testing.T) {
	locs := Capitals()

	if len(locs) != 27 {
		t.Fatalf("expected 27 capitals, got %d", len(locs))
	}

	if locs[0].Name != "Aracaju" {
		t.Errorf("expected first capital Aracaju, got %q", locs[0].Name)
	}

	if locs[26].Name != "Vitória" {
		t.Errorf("expected last capital Vitória, got %q", locs[26].Name)
	}

	seen := make(map[string]bool)
	for _, l := range locs {
		if seen[l.Name] {
			t.Errorf("duplicate capital %q", l.Name)
		}
		seen[l.Name] = true

		if l.Latitude < -35 || l.Latitude > 6 {
			t.Errorf("%s: latitude %f outside Brazil", l.Name, l.Latitude)
		}
		if l.Longitude < -74 || l.Longitude > -34 {
			t.Errorf("%s: longitude %f outside Brazil", l.Name, l.Longitude)
		}
	}
}

func TestCapitalsReturnsCopy(t *testing.T) {
	locs := Capitals()
	locs[0].Name = "changed"

	if Capitals()[0].Name != "Aracaju" {
		t.Error("mutating the returned slice should not change the catalog")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "exact", input: "Recife", want: "Recife", wantOK: true},
		{name: "case insensitive", input: "são paulo", want: "São Paulo", wantOK: true},
		{name: "surrounding whitespace", input: "  Natal ", want: "Natal", wantOK: true},
		{name: "unknown", input: "Lisboa", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got.Name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Name)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	t.Run("empty selects all", func(t *testing.T) {
		locs, err := Filter(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(locs) != 27 {
			t.Errorf("expected 27 locations, got %d", len(locs))
		}
	})

	t.Run("keeps catalog order", func(t *testing.T) {
		locs, err := Filter([]string{"Vitória", "aracaju", "Manaus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := strings.Join(Names(locs), ",")
		if got != "Aracaju,Manaus,Vitória" {
			t.Errorf("unexpected order: %s", got)
		}
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		locs, err := Filter([]string{"Natal", "natal"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(locs) != 1 {
			t.Errorf("expected 1 location, got %d", len(locs))
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Filter([]string{"Natal", "Atlantis"})
		if err == nil {
			t.Fatal("expected error for unknown location")
		}
		if !strings.Contains(err.Error(), "Atlantis") {
			t.Errorf("expected error to name the location, got %q", err.Error())
		}
		if !util.IsNotFound(err) {
			t.Errorf("expected ErrLocationNotFound, got %v", err)
		}
	})
}

func TestLocationString(t *testing.T) {
	l := Location{Name: "Recife", Latitude: -8.05, Longitude: -34.9}
	if got := l.String(); got != "Recife (-8.0500, -34.9000)" {
		t.Errorf("unexpected string: %q", got)
	}
}
