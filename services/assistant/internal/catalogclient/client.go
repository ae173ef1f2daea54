// Package catalogclient talks to the catalog service over HTTP.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/luxelife/boutique/pkg/httpclient"
	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/pkg/middleware"
	"github.com/luxelife/boutique/pkg/tracing"
)

// DefaultTimeout bounds every catalog call.
const DefaultTimeout = 5 * time.Second

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Product mirrors the catalog's product record.
type Product struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// Session mirrors the catalog's session acknowledgment.
type Session struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	SKU       string `json:"sku"`
}

// Client calls the catalog service. It never retries.
type Client struct {
	http    HTTPDoer
	baseURL string
	timeout time.Duration
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates a client for the catalog at baseURL. A non-positive timeout
// falls back to DefaultTimeout.
func New(doer HTTPDoer, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		tracer:  tracing.Tracer("github.com/luxelife/boutique/services/assistant/catalogclient"),
		logger:  logger,
	}
}

// BaseURL returns the catalog base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches the full catalog in catalog order.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.call(ctx, "list products", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateSession asks the catalog to start a purchase session for sku.
func (c *Client) CreateSession(ctx context.Context, sku string) (*Session, error) {
	var session Session
	if err := c.call(ctx, "create session", http.MethodPost, "/sessions", map[string]string{"sku": sku}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Ping checks that the catalog answers its root endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var status struct {
		Message string `json:"message"`
	}
	return c.call(ctx, "ping", http.MethodGet, "/", nil, &status)
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "catalog "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		_ = tracing.RecordError(span, err)
		span.End()
	}()

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := newRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindUnreachable, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.CorrelationIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		ce := classifyTransport(op, err)
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "catalog call failed",
			slog.String("op", op),
			slog.String("kind", string(ce.Kind)),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return ce
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode >= 500:
		return &Error{Kind: KindUpstream, Op: op, Err: httpclient.ParseResponseError(resp, "catalog")}
	case resp.StatusCode >= 400:
		return &Error{Kind: KindRejected, Op: op, Err: httpclient.ParseResponseError(resp, "catalog")}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func newRequest(ctx context.Context, method, url string, body *bytes.Reader) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, url, http.NoBody)
	}
	return http.NewRequestWithContext(ctx, method, url, body)
}
