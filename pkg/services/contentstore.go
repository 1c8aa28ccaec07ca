package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pulse-news/pkg/config"
	"pulse-news/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// ErrUpstream wraps non-2xx responses from the content store.
var ErrUpstream = errors.New("content store error")

// FetchOptions carries per-query hints.
type FetchOptions struct {
	// Revalidate is how long a cached response stays fresh. Zero bypasses the cache.
	Revalidate time.Duration
}

// Fetcher runs a query against the content store and returns the raw result.
type Fetcher interface {
	Fetch(ctx context.Context, query string, params map[string]interface{}, opts FetchOptions) (json.RawMessage, error)
}

type ClientConfig struct {
	BaseURL string // e.g. https://<project>.apicdn.sanity.io/v2024-01-01
	Dataset string
	Token   string
	Timeout time.Duration
}

// ClientConfigFrom derives the query endpoint from process configuration.
func ClientConfigFrom(cfg *config.Config) ClientConfig {
	host := "api.sanity.io"
	if cfg.UseCDN && cfg.APIToken == "" {
		host = "apicdn.sanity.io"
	}
	return ClientConfig{
		BaseURL: fmt.Sprintf("https://%s.%s/v%s", cfg.ProjectID, host, cfg.APIVersion),
		Dataset: cfg.Dataset,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout,
	}
}

// Client is the process-wide content-store handle.
type Client struct {
	endpoint string
	http     *http.Client
	cache    ResponseCache
	group    singleflight.Group
	log      *zap.Logger
}

func NewClient(cfg ClientConfig, cache ResponseCache, log *zap.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	httpClient.Timeout = cfg.Timeout
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.BaseURL + "/data/query/" + url.PathEscape(cfg.Dataset),
		http:     httpClient,
		cache:    cache,
		log:      log,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Fetch runs query with params. Fresh cached responses are served without a
// round trip; identical in-flight queries share one request.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]interface{}, opts FetchOptions) (json.RawMessage, error) {
	reqURL, err := c.queryURL(query, params)
	if err != nil {
		return nil, err
	}
	key := cacheKey(reqURL)

	if opts.Revalidate > 0 {
		if cached, ok := c.cache.Get(ctx, key); ok {
			metrics.RecordCache(true)
			return cached, nil
		}
		metrics.RecordCache(false)
	}

	// The shared request outlives any single caller; each caller still stops
	// waiting when its own context ends. The client timeout bounds the request.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)
		result, err := c.do(shared, reqURL)
		if err != nil {
			return nil, err
		}
		c.cache.Set(shared, key, result, opts.Revalidate)
		return result, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) do(ctx context.Context, reqURL string) (json.RawMessage, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetch("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("query content store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetch("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("read content store response: %w", err)
	}

	var parsed queryResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode >= 300 {
		metrics.RecordFetch("upstream_error", time.Since(start).Seconds())
		desc := http.StatusText(resp.StatusCode)
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Description != "" {
			desc = parsed.Error.Description
		}
		return nil, fmt.Errorf("%w: %d %s", ErrUpstream, resp.StatusCode, desc)
	}
	if decodeErr != nil {
		metrics.RecordFetch("decode_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("decode content store response: %w", decodeErr)
	}

	metrics.RecordFetch("ok", time.Since(start).Seconds())
	c.log.Debug("content store query",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(parsed.Result)))
	return parsed.Result, nil
}

// queryURL encodes params as $name=<json value>.
func (c *Client) queryURL(query string, params map[string]interface{}) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode param %s: %w", name, err)
		}
		q.Set("$"+name, string(encoded))
	}
	return c.endpoint + "?" + q.Encode(), nil
}

// Invalidate drops every cached response.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.cache.Invalidate(ctx)
}

func cacheKey(reqURL string) string {
	sum := sha256.Sum256([]byte(reqURL))
	return hex.EncodeToString(sum[:])
}
