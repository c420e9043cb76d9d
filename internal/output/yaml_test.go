package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aryankumar/tempbench/internal/catalog"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]interface{}{"source": map[string]string{"baseURL": "http://localhost"}}
	if err := NewYAMLFormatter(nil).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "source:\n  baseURL: http://localhost\n" {
		t.Errorf("unexpected YAML %q", buf.String())
	}
}

func TestYAMLFormatter_FormatResults(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatResults(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("FormatResults() error = %v", err)
	}

	var got []LocationReport
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if len(got) != 3 || got[2].Location != "Recife" || len(got[2].Days) != 2 {
		t.Fatalf("unexpected reports %+v", got)
	}
	if got[2].Days[0].Date != "2024-01-01" {
		t.Errorf("days not sorted: %+v", got[2].Days)
	}
}

func TestYAMLFormatter_FormatTrialSets(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatTrialSets(&buf, sampleTrialSets()); err != nil {
		t.Fatalf("FormatTrialSets() error = %v", err)
	}
	out := buf.String()

	// embedded set fields are inlined next to speedup
	for _, want := range []string{"- runId: run-seq", "runner: pool-9", "meanMs: 120", "speedup: 7.5", "timeout: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "trialset:") {
		t.Errorf("trial set should be inlined:\n%s", out)
	}
}

func TestYAMLFormatter_FormatLocations(t *testing.T) {
	var buf bytes.Buffer
	locs := []catalog.Location{{Name: "Lima", Latitude: -12.0464, Longitude: -77.0428}}
	if err := NewYAMLFormatter(nil).FormatLocations(&buf, locs); err != nil {
		t.Fatalf("FormatLocations() error = %v", err)
	}

	var got []catalog.Location
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(got) != 1 || got[0] != locs[0] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
