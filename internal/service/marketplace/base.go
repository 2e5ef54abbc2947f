// Package marketplace holds the outbound adapters that fetch raw listings
// from card marketplaces.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
	pkgmetrics "CardScout/pkg/metrics"

	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// BaseClient is shared by the outbound adapters: base URL, per-client timeout,
// outbound rate limit and call metrics labelled with name.
type BaseClient struct {
	name    string
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	metrics repository.Metrics
}

func newBaseClient(name models.Marketplace, cfg config.MarketplaceConfig, m repository.Metrics, opts ...xhttp.ClientOption) *BaseClient {
	return NewBaseClient(string(name), cfg, m, opts...)
}

func NewBaseClient(name string, cfg config.MarketplaceConfig, m repository.Metrics, opts ...xhttp.ClientOption) *BaseClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	if m == nil {
		m = pkgmetrics.Nop{}
	}
	return &BaseClient{
		name:    name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  xhttp.NewClient(append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)...),
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
	}
}

// do waits for the rate limiter, sends req and decodes the JSON reply into dest.
func (b *BaseClient) do(ctx context.Context, op string, req *xhttp.RequestOptions, dest interface{}) error {
	if b.baseURL == "" {
		return fmt.Errorf("%s client not configured", b.name)
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	err := b.client.SendAndParse(ctx, req, dest)
	b.metrics.RecordMarketplaceCall(b.name, op, time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, op, err)
	}
	return nil
}

// GetJSON issues a GET against path under the base URL.
func (b *BaseClient) GetJSON(ctx context.Context, op, path string, query url.Values, headers map[string]string, dest interface{}) error {
	return b.do(ctx, op, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		Headers:     headers,
		QueryParams: query,
	}, dest)
}

// PostJSON posts payload as JSON to path under the base URL.
func (b *BaseClient) PostJSON(ctx context.Context, op, path string, payload interface{}, headers map[string]string, dest interface{}) error {
	return b.do(ctx, op, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
}

// describe turns a transport error into the short user-facing message.
func describe(prefix string, err error) string {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s: status %d", prefix, se.StatusCode)
	}
	return prefix
}
