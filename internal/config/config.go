package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/tempbench/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".tempbench"
	defaultEnvFile    = ".env"
	envPrefix         = "TEMPBENCH"

	// DateLayout is the format of Start and End
	DateLayout = "2006-01-02"

	// DefaultBaseURL is the Open-Meteo forecast endpoint
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// SequentialScenario names the single-threaded scenario
	SequentialScenario = "sequential"
)

// DefaultScenarios is the scenario order used when none is configured
var DefaultScenarios = []string{SequentialScenario, "3", "9", "27"}

// Manager loads tempbench configuration from file, environment and flags
type Manager struct {
	configPath string
	envFile    string
	config     *BenchConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	m := &Manager{
		configPath: configPath,
		envFile:    defaultEnvFile,
		viper:      viper.New(),
		config:     Default(),
	}
	m.setDefaults()
	return m
}

// Viper exposes the underlying viper instance so commands can bind flags
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// SetConfigPath sets the config file read by Load. Empty searches $HOME.
func (m *Manager) SetConfigPath(path string) {
	m.configPath = path
}

// SetEnvFile overrides the dotenv file read by Load
func (m *Manager) SetEnvFile(path string) {
	m.envFile = path
}

// Load reads the .env file, the config file and the environment, then
// validates the result
func (m *Manager) Load() (*BenchConfig, error) {
	if m.envFile != "" {
		if err := godotenv.Load(m.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", m.envFile, err)
		}
	}

	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.tempbench.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &BenchConfig{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.config = cfg
	return cfg, nil
}

// GetConfig returns the most recently loaded configuration
func (m *Manager) GetConfig() *BenchConfig {
	return m.config
}

// ConfigFileUsed returns the config file read by Load, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// setDefaults registers every key with viper so env overrides reach Unmarshal
func (m *Manager) setDefaults() {
	d := Default()
	m.viper.SetDefault("start", d.Start)
	m.viper.SetDefault("end", d.End)
	m.viper.SetDefault("repetitions", d.Repetitions)
	m.viper.SetDefault("scenarios", d.Scenarios)
	m.viper.SetDefault("locations", []string{})
	m.viper.SetDefault("drainTimeout", d.DrainTimeout)
	m.viper.SetDefault("source.baseURL", d.Source.BaseURL)
	m.viper.SetDefault("source.timeout", d.Source.Timeout)
	m.viper.SetDefault("source.rate", d.Source.Rate)
	m.viper.SetDefault("source.breakerFailures", d.Source.BreakerFailures)
	m.viper.SetDefault("output.format", d.Output.Format)
	m.viper.SetDefault("output.noColor", d.Output.NoColor)
	m.viper.SetDefault("output.noHeaders", d.Output.NoHeaders)
	m.viper.SetDefault("tracing.endpoint", "")
	m.viper.SetDefault("tracing.protocol", "")
	m.viper.SetDefault("tracing.serviceName", "")
	m.viper.SetDefault("tracing.sampleRate", d.Tracing.SampleRate)
	m.viper.SetDefault("tracing.insecure", false)
}

// Default returns the configuration of the canonical benchmark:
// January 2024, ten trials of sequential and 3/9/27 worker pools
func Default() *BenchConfig {
	return &BenchConfig{
		Start:        "2024-01-01",
		End:          "2024-01-31",
		Repetitions:  10,
		Scenarios:    append([]string(nil), DefaultScenarios...),
		DrainTimeout: time.Hour,
		Source: SourceConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Tracing: TracingConfig{
			SampleRate: 1.0,
		},
	}
}

// applyDefaults fills zero values left by a partial config file
func applyDefaults(cfg *BenchConfig) {
	if cfg == nil {
		return
	}

	d := Default()
	if cfg.Start == "" {
		cfg.Start = d.Start
	}
	if cfg.End == "" {
		cfg.End = d.End
	}
	if cfg.Repetitions == 0 {
		cfg.Repetitions = d.Repetitions
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = d.Scenarios
	}
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = d.Source.BaseURL
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = d.Source.Timeout
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = d.Output.Format
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report yaml key names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("scenario", func(fl validator.FieldLevel) bool {
		return ValidScenario(fl.Field().String())
	})

	return v
}

// ValidScenario reports whether s is "sequential" or a positive pool size
func ValidScenario(s string) bool {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, SequentialScenario) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// Validate checks struct constraints and the ordering of the period
func (c *BenchConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return util.NewValidationError(fe.Namespace(), fe.Value(), fmt.Sprintf("failed %q constraint", fe.Tag()))
		}
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	start, end, err := c.Period()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return util.NewValidationError("end", c.End, "must not be before start")
	}

	return nil
}

// Period parses Start and End as UTC dates
func (c *BenchConfig) Period() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.Start)
	if err != nil {
		return time.Time{}, time.Time{}, util.NewValidationError("start", c.Start, "must be a YYYY-MM-DD date")
	}
	end, err := time.Parse(DateLayout, c.End)
	if err != nil {
		return time.Time{}, time.Time{}, util.NewValidationError("end", c.End, "must be a YYYY-MM-DD date")
	}
	return start, end, nil
}
