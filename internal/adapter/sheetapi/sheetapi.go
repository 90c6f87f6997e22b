// Package sheetapi fetches the raw product catalog from the
// spreadsheet-backed HTTP API.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	DefaultTimeout = 15 * time.Second
	productsKey    = "Producto"
	maxBodyBytes   = 16 << 20
)

var _ port.ProductsFetcher = (*Client)(nil)

type Opt func(*Client)

func TimeoutOpt(d time.Duration) Opt {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func HTTPClientOpt(hc *http.Client) Opt {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// A Client issues a single GET per fetch. There are no retries: the user
// refreshes manually.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

func New(endpoint string, opts ...Opt) *Client {
	c := &Client{
		endpoint:   endpoint,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProducts returns the records under the "Producto" key. Every failure
// is a [*domain.FetchError].
func (c *Client) FetchProducts(ctx context.Context) ([]domain.RawProduct, error) {
	const op = "Client.FetchProducts"
	log := slog.With("op", op)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fetchErr(op, "invalid endpoint", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fetchErr(op, "request timeout", domain.ErrFetchTimeout)
		}
		return nil, fetchErr(op, "network error", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("failed to close response body", "err", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fetchErr(op, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	raws, err := decode(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fetchErr(op, "request timeout", domain.ErrFetchTimeout)
		}
		return nil, fetchErr(op, "invalid data format", err)
	}

	log.Debug("products fetched",
		"nRecords", len(raws), "elapsed", time.Since(start).String(),
	)
	return raws, nil
}

func decode(r io.Reader) ([]domain.RawProduct, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}

	raw, ok := body[productsKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", domain.ErrInvalidPayload, productsKey)
	}

	// Numbers stay json.Number so large numeric ids keep every digit.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var raws []domain.RawProduct
	if err := dec.Decode(&raws); err != nil || raws == nil {
		return nil, fmt.Errorf("%w: %q is not an array", domain.ErrInvalidPayload, productsKey)
	}
	return raws, nil
}

func fetchErr(op, reason string, err error) error {
	return fmt.Errorf("%s: %w", op, &domain.FetchError{Reason: reason, Err: err})
}
