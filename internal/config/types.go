package config

import "time"

// BenchConfig represents the tempbench configuration file structure
type BenchConfig struct {
	// Start and End bound the requested period (YYYY-MM-DD, inclusive)
	Start string `yaml:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End   string `yaml:"end" json:"end" validate:"required,datetime=2006-01-02"`

	// Repetitions is the number of trials per scenario
	Repetitions int `yaml:"repetitions" json:"repetitions" validate:"gt=0"`

	// Scenarios lists what to run, in order: "sequential" or a pool size
	Scenarios []string `yaml:"scenarios" json:"scenarios" validate:"min=1,dive,required,scenario"`

	// Locations restricts the catalog to the named capitals (empty means all)
	Locations []string `yaml:"locations,omitempty" json:"locations,omitempty"`

	// DrainTimeout caps how long a pooled run waits for its workers
	DrainTimeout time.Duration `yaml:"drainTimeout" json:"drainTimeout" validate:"gte=0"`

	Source  SourceConfig  `yaml:"source" json:"source"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Tracing TracingConfig `yaml:"tracing,omitempty" json:"tracing,omitempty"`
}

// SourceConfig configures the weather data source
type SourceConfig struct {
	// BaseURL is the forecast endpoint
	BaseURL string `yaml:"baseURL" json:"baseURL" validate:"required,url"`

	// Timeout for a single HTTP request
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`

	// Rate limits requests per second across all workers (0 is unlimited)
	Rate float64 `yaml:"rate,omitempty" json:"rate,omitempty" validate:"gte=0"`

	// BreakerFailures opens the circuit after that many consecutive
	// failures (0 disables the breaker)
	BreakerFailures int `yaml:"breakerFailures,omitempty" json:"breakerFailures,omitempty" validate:"gte=0"`
}

// OutputConfig contains console output settings
type OutputConfig struct {
	// Format is the output format (table, json, yaml)
	Format string `yaml:"format" json:"format" validate:"oneof=table json yaml"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// NoHeaders drops table header rows, for piping into other tools
	NoHeaders bool `yaml:"noHeaders,omitempty" json:"noHeaders,omitempty"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Protocol    string  `yaml:"protocol,omitempty" json:"protocol,omitempty" validate:"omitempty,oneof=grpc http"`
	ServiceName string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
	SampleRate  float64 `yaml:"sampleRate,omitempty" json:"sampleRate,omitempty" validate:"gte=0,lte=1"`
	Insecure    bool    `yaml:"insecure,omitempty" json:"insecure,omitempty"`
}

// Enabled reports whether spans should be exported
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}
