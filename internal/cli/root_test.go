package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/tempbench/internal/output"
	"github.com/aryankumar/tempbench/internal/util"
	"github.com/aryankumar/tempbench/pkg/version"
)

// alternatingPayload is a forecast response with n hourly points of 10 and 20
func alternatingPayload(n int) string {
	values := make([]string, n)
	for i := range values {
		values[i] = "10.0"
		if i%2 == 1 {
			values[i] = "20.0"
		}
	}
	return fmt.Sprintf(`{"hourly":{"time":[],"temperature_2m":[%s]}}`, strings.Join(values, ","))
}

func newForecastServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// trial times are whole milliseconds; keep them above zero
		time.Sleep(2 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// execute runs the root command with an isolated config file and no dotenv
func execute(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tempbench.yaml")
	if err := os.WriteFile(cfgPath, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := newRootCmd()
	base := []string{"--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env")}
	cmd.SetArgs(append(base, args...))

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "tempbench" {
		t.Errorf("expected use 'tempbench', got %q", cmd.Use)
	}

	expectedCommands := []string{"version", "completion", "run", "fetch", "locations"}
	for _, cmdName := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == cmdName {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", cmdName)
		}
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--help"})

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"tempbench", "Brazilian", "run", "fetch", "locations", "version", "completion"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		flag     string
		expected string
	}{
		{flag: "config", expected: ""},
		{flag: "env-file", expected: ".env"},
		{flag: "output", expected: ""},
		{flag: "verbose", expected: "false"},
		{flag: "no-color", expected: "false"},
		{flag: "no-headers", expected: "false"},
		{flag: "start", expected: "2024-01-01"},
		{flag: "end", expected: "2024-01-31"},
		{flag: "locations", expected: "[]"},
		{flag: "base-url", expected: "https://api.open-meteo.com/v1/forecast"},
		{flag: "http-timeout", expected: (30 * time.Second).String()},
		{flag: "rate", expected: "0"},
		{flag: "breaker-failures", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flag)
			}
			if flag.DefValue != tt.expected {
				t.Errorf("expected default value %q, got %q", tt.expected, flag.DefValue)
			}
		})
	}
}

func TestRunCommandFlagDefaults(t *testing.T) {
	run, _, err := newRootCmd().Find([]string{"run"})
	if err != nil {
		t.Fatalf("run command not found: %v", err)
	}

	tests := []struct {
		flag     string
		expected string
	}{
		{flag: "repetitions", expected: "10"},
		{flag: "scenarios", expected: "[sequential,3,9,27]"},
		{flag: "drain-timeout", expected: time.Hour.String()},
		{flag: "otlp-endpoint", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := run.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flag)
			}
			if flag.DefValue != tt.expected {
				t.Errorf("expected default value %q, got %q", tt.expected, flag.DefValue)
			}
		})
	}
}

func TestRootCommandSilenceFlags(t *testing.T) {
	cmd := newRootCmd()

	if !cmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !cmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
}

func TestRootCommandShortFlags(t *testing.T) {
	cmd := newRootCmd()

	shortFlags := map[string]string{
		"o": "output",
		"v": "verbose",
		"l": "locations",
	}

	for short, long := range shortFlags {
		shortFlag := cmd.PersistentFlags().ShorthandLookup(short)
		if shortFlag == nil {
			t.Errorf("expected short flag -%s for %s", short, long)
			continue
		}
		if shortFlag.Name != long {
			t.Errorf("expected short flag -%s to map to %s, got %s", short, long, shortFlag.Name)
		}
	}
}

func TestLocationsCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "table",
			args:     []string{"locations", "--no-color"},
			contains: []string{"NAME", "LATITUDE", "Aracaju", "-10.9167", "Vitória"},
		},
		{
			name:     "filtered",
			args:     []string{"locations", "-l", "natal,Recife", "--no-color"},
			contains: []string{"Natal", "Recife"},
			excludes: []string{"Aracaju"},
		},
		{
			name:     "no headers",
			args:     []string{"locations", "--no-color", "--no-headers", "-l", "Palmas"},
			contains: []string{"Palmas", "-48.3277"},
			excludes: []string{"NAME", "LATITUDE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected output not to contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestLocationsCommand_JSONFromConfig(t *testing.T) {
	out, err := execute(t, "output:\n  format: json\nlocations: [Palmas]\n", "locations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var locs []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &locs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(locs) != 1 || locs[0]["name"] != "Palmas" {
		t.Errorf("unexpected locations %v", locs)
	}
}

func TestLocationsCommand_UnknownLocation(t *testing.T) {
	_, err := execute(t, "", "locations", "-l", "Atlantis")
	if !util.IsNotFound(err) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "repetitions: -1\n", "locations")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(util.FriendlyError(err), "Invalid configuration") {
		t.Errorf("unexpected friendly error %q", util.FriendlyError(err))
	}
}

func TestFetchCommand(t *testing.T) {
	srv := newForecastServer(t, http.StatusOK, alternatingPayload(48))

	out, err := execute(t, "", "fetch", "recife", "--base-url", srv.URL, "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Recife", "2024-01-01", "2024-01-02", "15.00", "10.00", "20.00", "Results: 1 locations, 2 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestFetchCommand_Errors(t *testing.T) {
	srv := newForecastServer(t, http.StatusBadRequest, `{"error":true,"reason":"Latitude must be in range"}`)

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{name: "unknown location", args: []string{"fetch", "Atlantis"}, check: util.IsNotFound},
		{name: "source error", args: []string{"fetch", "Natal", "--base-url", srv.URL}, check: util.IsFetchError},
		{name: "missing argument", args: []string{"fetch"}, check: func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	srv := newForecastServer(t, http.StatusOK, alternatingPayload(48))

	out, err := execute(t, "",
		"run",
		"-r", "2",
		"-s", "sequential,2",
		"-l", "Recife,Natal",
		"--base-url", srv.URL,
		"--no-color",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== sequential ===",
		"=== pool-2 ===",
		"trial 1/2...",
		"trial 2 completed in",
		"mean execution time (2 trials)",
		"Results: 2 locations, 4 days",
		"=== summary ===",
		"SPEEDUP",
		"1.00x",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestRunCommand_AllFetchesFail(t *testing.T) {
	srv := newForecastServer(t, http.StatusInternalServerError, "")

	out, err := execute(t, "repetitions: 1\nscenarios: [sequential, \"3\"]\n",
		"run", "-l", "Recife,Natal,Palmas", "--base-url", srv.URL, "--no-color")
	if err != nil {
		t.Fatalf("failed fetches must not fail the run: %v", err)
	}

	if !strings.Contains(out, "No results") || !strings.Contains(out, "pool-3") {
		t.Errorf("expected empty results and a summary:\n%s", out)
	}
}

func TestRunCommand_InvalidScenario(t *testing.T) {
	_, err := execute(t, "", "run", "-s", "sequential,zero")
	if err == nil {
		t.Fatal("expected invalid scenario error")
	}
}

func TestVersionCommand(t *testing.T) {
	v := version.Get().Version

	tests := []struct {
		name     string
		format   string
		contains []string
	}{
		{name: "default", format: "", contains: []string{"tempbench", "Version:", v}},
		{name: "json", format: string(output.FormatJSON), contains: []string{`"version": "` + v + `"`}},
		{name: "yaml", format: string(output.FormatYAML), contains: []string{"version: " + v, "goVersion:"}},
		{name: "table", format: string(output.FormatTable), contains: []string{"KEY", "Build Time", "Platform"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := runVersion(&buf, tt.format); err != nil {
				t.Fatalf("runVersion() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected output to contain %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
