package gogun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shandysiswandi/gogun/internal/form"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultAPIBase is the Mailgun v3 endpoint used when no explicit base is given.
const DefaultAPIBase = "https://api.mailgun.net/v3"

// Version is the library version reported in the User-Agent header.
const Version = "0.1.0"

const tracerName = "github.com/shandysiswandi/gogun"

// ErrAPIBaseScheme is returned when the API base URL does not use an http scheme.
var ErrAPIBaseScheme = errors.New("api base must start with http")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Credentials holds the Mailgun private API key and sending domain.
type Credentials struct {
	apiBase string
	apiKey  string
	domain  string
}

type credentialSpec struct {
	APIBase string `validate:"required,url,contains=."`
	APIKey  string `validate:"required,min=35"`
	Domain  string `validate:"required,fqdn"`
}

// NewCredentials builds Credentials against the default Mailgun API base.
func NewCredentials(apiKey, domain string) (Credentials, error) {
	return CredentialsWithBase(DefaultAPIBase, apiKey, domain)
}

// CredentialsWithBase builds Credentials against a custom API base, which is
// mainly useful for Mailgun's EU region and for tests pointing at a local
// stub server.
func CredentialsWithBase(apiBase, apiKey, domain string) (Credentials, error) {
	if !strings.HasPrefix(apiBase, "http") {
		return Credentials{}, ErrAPIBaseScheme
	}

	spec := credentialSpec{APIBase: apiBase, APIKey: apiKey, Domain: domain}
	if err := validate.Struct(spec); err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials: %w", err)
	}

	return Credentials{
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  apiKey,
		domain:  domain,
	}, nil
}

// Domain returns the sending domain the credentials are bound to.
func (c Credentials) Domain() string {
	return c.domain
}

// Client issues typed calls against the Mailgun v3 API.
//
// A Client is safe for concurrent use. All state is fixed at construction
// time; per-call behavior is controlled through the context.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	userAgent  string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Timeouts, proxies, and
// connection pooling are configured there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the structured logger used for request/response logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracerProvider enables OpenTelemetry spans around every API call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New constructs a Client from validated Credentials.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer(tracerName),
		userAgent:  "gogun/" + Version,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiURL joins path segments onto the API base, escaping each segment.
func (c *Client) apiURL(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.creds.apiBase + "/" + strings.Join(escaped, "/")
}

// domainURL joins path segments onto the per-domain endpoint.
func (c *Client) domainURL(parts ...string) string {
	return c.apiURL(append([]string{c.creds.domain}, parts...)...)
}

// roundTrip performs one authenticated API call.
//
// rawURL must be a complete URL (paging URLs returned by Mailgun are used
// as-is). When payload is non-nil it is encoded as the request body; when
// out is non-nil the 2xx response body is decoded into it.
func (c *Client) roundTrip(ctx context.Context, op, method, rawURL string, query url.Values, payload *form.Payload, out any) error {
	ctx, span := c.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", rawURL),
	))
	defer span.End()

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, ct, err := payload.Encode()
		if err != nil {
			return c.fail(span, fmt.Errorf("encode request body: %w", err))
		}
		body = encoded
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return c.fail(span, fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth("api", c.creds.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.DebugContext(ctx, "mailgun api request", "op", op, "method", method, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(span, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(span, fmt.Errorf("read response body: %w", err))
	}

	c.logger.DebugContext(ctx, "mailgun api response", "op", op, "status", resp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.fail(span, newAPIError(method, rawURL, resp.StatusCode, respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return c.fail(span, fmt.Errorf("%w: %w", ErrDecodeResponse, err))
		}
	}

	return nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
