package walver

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the production Walver API.
	DefaultBaseURL = "https://walver.io/api"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 10 * time.Second

	// APIKeyHeader carries the API key on every request.
	APIKeyHeader = "X-API-Key"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIKey  = "WALVER_API_KEY"
	EnvBaseURL = "WALVER_BASE_URL"
	EnvTimeout = "WALVER_TIMEOUT"
)

// Config holds configuration for the Walver client.
type Config struct {
	// APIKey is the creator API key. Required.
	APIKey string

	// BaseURL is the Walver API base URL.
	// Defaults to https://walver.io/api
	BaseURL string

	// Timeout is the maximum time to wait for a single HTTP request.
	// Ignored when HTTPClient is set.
	Timeout time.Duration

	// RateLimitPerMin caps outgoing requests per minute. Zero disables
	// client-side rate limiting.
	RateLimitPerMin int

	// UserAgent is sent with every request.
	UserAgent string

	// Logger is the structured logger for the client.
	Logger *slog.Logger

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	// TracerProvider is used to create spans for each request.
	// Defaults to the global otel provider.
	TracerProvider trace.TracerProvider
}

// DefaultConfig returns a config with default values and no API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: "walver-sdk-go/" + Version,
		Logger:    slog.Default(),
	}
}

func applyDefaults(config *Config, defaults Config) {
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
}

// ConfigFromEnv resolves a Config from the process environment. It is meant
// to be called once at startup; the result is passed to New. Unset variables
// leave the defaults in place.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	config := DefaultConfig()

	if v, ok := lookup(EnvAPIKey); ok {
		config.APIKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		config.BaseURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &ConfigurationError{Field: EnvTimeout, Err: fmt.Errorf("failed to parse timeout %q: %w", v, err)}
		}
		config.Timeout = timeout
	}

	return config, nil
}

// normalizeBaseURL strips a single trailing slash.
func normalizeBaseURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/")
}
