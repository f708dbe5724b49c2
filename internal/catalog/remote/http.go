package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/bookrank/internal/catalog"
	bookerrors "github.com/lepinkainen/bookrank/internal/errors"
)

const maxErrorBody = 512

// searchResponse is the API envelope.
type searchResponse struct {
	Results []item `json:"results"`
}

// item is one API result. The desc fields are generic columns of the shop
// backend.
type item struct {
	ID          int       `json:"id"`
	Title       *string   `json:"title"`
	Author      *string   `json:"desc2"`
	Publisher   *string   `json:"desc3"`
	Category    *string   `json:"desc4"`
	Subcategory *string   `json:"desc5"`
	Price       *flexible `json:"price"`
	Price1      *flexible `json:"precio1"`
	Stock       *flexible `json:"stock"`
	ISBN        *string   `json:"codalterno1"`
	Description *string   `json:"descripcion"`
}

func (it item) book() catalog.Book {
	b := catalog.Book{
		ID:          it.ID,
		Title:       deref(it.Title),
		Author:      deref(it.Author),
		Publisher:   deref(it.Publisher),
		Category:    deref(it.Category),
		Subcategory: deref(it.Subcategory),
		ISBN:        deref(it.ISBN),
		Description: deref(it.Description),
	}
	// A zero price falls back to precio1 as well.
	switch {
	case it.Price != nil && *it.Price != 0:
		p := float64(*it.Price)
		b.Price = &p
	case it.Price1 != nil:
		p := float64(*it.Price1)
		b.Price = &p
	}
	if it.Stock != nil {
		b.Stock = int(*it.Stock)
	}
	return b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// flexible decodes a number that the API sends either bare or quoted.
type flexible float64

func (f *flexible) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*f = flexible(v)
	return nil
}

func (c *Client) searchURL(query string, limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid catalog base URL: %w", err)
	}
	params := url.Values{}
	params.Set("opcion", "dynamic")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")
	// The API reads the second search value.
	params["search"] = []string{"", query}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	endpoint, err := c.searchURL(query, limit)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(resp.Results))
	for _, it := range resp.Results {
		books = append(books, it.book())
	}
	valid := catalog.Valid(books)
	if dropped := len(books) - len(valid); dropped > 0 {
		c.logger.Debug("Dropped untitled results", "query", query, "count", dropped)
	}
	return valid, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		if err := c.doJSONRequest(ctx, endpoint, target); err != nil {
			lastErr = err
			if !isRetryable(err) || attempt == c.retryAttempts {
				return err
			}
			c.logger.Debug("Retrying catalog request", "attempt", attempt, "error", err)
			if err := sleep(ctx, backoffDelay(attempt)); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) doJSONRequest(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return bookerrors.NewRateLimitErrorWithRetry("catalog rate limit exceeded", retryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return bookerrors.NewCatalogHTTPError(resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if errors.Is(urlErr.Err, context.Canceled) {
			return false
		}
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
