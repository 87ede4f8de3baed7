package walver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Walver-io/walver-sdk-go/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/Walver-io/walver-sdk-go"

// VerificationClient defines the operations offered by the Walver API.
type VerificationClient interface {
	// CreateVerification validates req and creates a verification link.
	CreateVerification(ctx context.Context, req models.VerificationRequest) (*models.Verification, error)

	CreateFolder(ctx context.Context, req models.CreateFolderRequest) (*models.Folder, error)
	ListFolders(ctx context.Context) (*models.List[models.Folder], error)
	GetFolder(ctx context.Context, folderID string) (*models.Folder, error)
	ListFolderVerifications(ctx context.Context, folderID string) (*models.List[models.FolderVerification], error)

	CreateAPIKey(ctx context.Context, req models.CreateAPIKeyRequest) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context) (*models.List[models.APIKey], error)
	DeleteAPIKey(ctx context.Context, apiKeyID string) (*models.Message, error)
}

// Compile-time check that Client implements VerificationClient.
var _ VerificationClient = (*Client)(nil)

// Client implements VerificationClient over HTTPS. It is safe for concurrent
// use; nothing is mutated after New returns.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	tracer     trace.Tracer
}

// New creates a Walver client. It fails with a ConfigurationError when no API
// key is set; use ConfigFromEnv to resolve one from the environment first.
func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, &ConfigurationError{Field: "APIKey", Err: ErrMissingAPIKey}
	}

	applyDefaults(&config, DefaultConfig())
	config.BaseURL = normalizeBaseURL(config.BaseURL)

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	var limiter *rate.Limiter
	if config.RateLimitPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(config.RateLimitPerMin)/60.0), 1)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		config:     config,
		baseURL:    config.BaseURL,
		httpClient: httpClient,
		logger:     config.Logger.With("component", "walver-client"),
		limiter:    limiter,
		tracer:     tp.Tracer(tracerName, trace.WithInstrumentationVersion(Version)),
	}, nil
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, query, nil)
}

// do performs exactly one round trip and returns the response body. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rate limiter")
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, c.config.APIKey)
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("failed to execute %s %s request: %w", method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading body")
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.logger.Debug("Request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	c.logger.Debug("Request completed", "method", method, "path", path, "status", resp.StatusCode)
	return respBody, nil
}

// decodeInto fills v from a successful response. The call already succeeded,
// so a body that does not match v is logged and v keeps the verbatim body.
func (c *Client) decodeInto(method, path string, body []byte, v any) {
	if err := models.Decode(body, v); err != nil {
		c.logger.Warn("Response did not match the expected shape, keeping raw body",
			"method", method, "path", path, "error", err)
	}
}

// decodeList is decodeInto for list responses.
func decodeList[T any, PT interface {
	*T
	SetRaw([]byte)
}](c *Client, method, path string, body []byte) *models.List[T] {
	list, err := models.DecodeList[T, PT](body)
	if err != nil {
		c.logger.Warn("List response did not match the expected shape, keeping raw body",
			"method", method, "path", path, "error", err)
	}
	return list
}
