// Package openmeteo fetches hourly temperature series from the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/tracing"
	"github.com/aryankumar/tempbench/pkg/version"
)

const (
	// DefaultBaseURL is the public forecast endpoint
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	dateLayout   = "2006-01-02"
	maxBodyBytes = 16 << 20
)

// Client performs forecast requests. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another forecast endpoint
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = NewHTTPClient(timeout)
	}
}

// WithRateLimit paces requests across all callers. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker opens a circuit after the given number of consecutive
// failures. Zero or less disables the breaker.
func WithBreaker(failures int) Option {
	return func(c *Client) {
		if failures <= 0 {
			c.breaker = nil
			return
		}
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openmeteo",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(failures)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
}

// WithTracer records a client span per request
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a forecast client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    NewHTTPClient(30 * time.Second),
		tracer:  tracing.NoopTracer(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns an HTTP client whose idle pool can serve many
// concurrent workers against the same host.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// BaseURL returns the endpoint the client queries
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchLocation fetches the hourly series for a catalog location
func (c *Client) FetchLocation(ctx context.Context, loc catalog.Location, start, end time.Time) ([]float64, error) {
	return c.Fetch(ctx, loc.Latitude, loc.Longitude, start, end)
}

// Fetch returns the hourly 2 m temperatures for the coordinates over
// [start, end], in API order. Null readings are skipped. A payload without
// an hourly section yields an empty series.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, start, end time.Time) ([]float64, error) {
	target, err := BuildURL(c.baseURL, lat, lon, start, end)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: target, Reason: "rate limiter", Err: err}
		}
	}

	ctx, span := tracing.StartFetchSpan(ctx, c.tracer, hostOf(target))

	var body []byte
	if c.breaker != nil {
		var result interface{}
		result, err = c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, target)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &FetchError{URL: target, Reason: "circuit breaker open", Err: err}
		}
		if err == nil {
			body = result.([]byte)
		}
	} else {
		body, err = c.do(ctx, target)
	}
	if err != nil {
		tracing.EndSpan(span, err)
		return nil, err
	}

	series, hasHourly, err := ParseHourly(body)
	if err != nil {
		err = &FetchError{StatusCode: http.StatusOK, URL: target, Reason: err.Error()}
		tracing.EndSpan(span, err)
		return nil, err
	}
	if !hasHourly {
		c.logger.Warn("response has no hourly data", "url", target)
	}

	tracing.EndSpan(span, nil, attribute.Int("tempbench.points", len(series)))
	return series, nil
}

// do issues the GET and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	tracing.InjectHTTPHeaders(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: target, Reason: "read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := http.StatusText(resp.StatusCode)
		// Open-Meteo reports problems as {"error": true, "reason": "..."}
		if r := gjson.GetBytes(body, "reason"); r.Exists() && r.String() != "" {
			reason = r.String()
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: target, Reason: reason}
	}

	return body, nil
}

// BuildURL renders the forecast query for one location and period
func BuildURL(base string, lat, lon float64, start, end time.Time) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	q.Set("hourly", "temperature_2m")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ParseHourly extracts hourly.temperature_2m from a forecast payload. The
// boolean reports whether the payload had an hourly section at all.
func ParseHourly(body []byte) ([]float64, bool, error) {
	if !gjson.ValidBytes(body) {
		return nil, false, errors.New("invalid JSON payload")
	}

	hourly := gjson.GetBytes(body, "hourly")
	if !hourly.Exists() {
		return []float64{}, false, nil
	}

	temps := hourly.Get("temperature_2m")
	if !temps.IsArray() {
		return nil, true, errors.New("hourly.temperature_2m is missing or not an array")
	}

	values := temps.Array()
	series := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Type != gjson.Number {
			continue
		}
		series = append(series, v.Float())
	}

	return series, true, nil
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}
	return u.Host
}
