package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookrank/internal/cache"
	bookerrors "github.com/lepinkainen/bookrank/internal/errors"
	"github.com/lepinkainen/bookrank/internal/ratelimit"
	"github.com/lepinkainen/bookrank/internal/testutil"
)

const sampleResponse = `{
  "count": 3,
  "results": [
    {"id": 101, "title": "EL ALQUIMISTA", "desc2": "COELHO, PAULO", "desc3": "PLANETA",
     "desc4": "LITERATURA", "desc5": "NOVELA", "price": 45000, "stock": 4,
     "codalterno1": "9788408043533", "descripcion": "Un pastor andaluz"},
    {"id": 102, "title": "BRIDA", "desc2": "COELHO, PAULO", "price": 0, "precio1": "38000.50", "stock": null},
    {"id": 103, "title": null, "desc2": "ANONIMO"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithHTTPClient(server.Client()),
		WithRateLimiter(ratelimit.New("test", 0)),
	}, opts...)
	return NewClient(server.URL+"/api/shopcart/vwitemTienda/", opts...)
}

func TestSearchBuildsRequest(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	_, err := client.Search(context.Background(), "harry potter 1", 20)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/api/shopcart/vwitemTienda/", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "dynamic", q.Get("opcion"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, []string{"", "harry potter 1"}, q["search"])
}

func TestSearchMapsFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	})

	books, err := client.Search(context.Background(), "coelho", 20)
	require.NoError(t, err)
	require.Len(t, books, 2, "untitled results are dropped")

	b := books[0]
	assert.Equal(t, 101, b.ID)
	assert.Equal(t, "EL ALQUIMISTA", b.Title)
	assert.Equal(t, "COELHO, PAULO", b.Author)
	assert.Equal(t, "PLANETA", b.Publisher)
	assert.Equal(t, "LITERATURA", b.Category)
	assert.Equal(t, "NOVELA", b.Subcategory)
	assert.Equal(t, "9788408043533", b.ISBN)
	assert.Equal(t, "Un pastor andaluz", b.Description)
	assert.Equal(t, 4, b.Stock)
	require.NotNil(t, b.Price)
	assert.InDelta(t, 45000, *b.Price, 1e-9)

	// price 0 falls back to precio1, null stock is 0
	require.NotNil(t, books[1].Price)
	assert.InDelta(t, 38000.5, *books[1].Price, 1e-9)
	assert.Equal(t, 0, books[1].Stock)
}

func TestSearchRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "x", 5)
	require.Error(t, err)
	assert.True(t, bookerrors.IsRateLimitError(err))

	var rateErr *bookerrors.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 7*time.Second, rateErr.RetryAfter)
}

func TestSearchHTTPError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "x", 5)
	require.Error(t, err)

	var httpErr *bookerrors.CatalogHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "upstream exploded", httpErr.Body)
	assert.Equal(t, int32(1), calls.Load(), "HTTP errors are not retried")
}

func TestSearchBadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	})

	_, err := client.Search(context.Background(), "x", 5)
	assert.ErrorContains(t, err, "decode")
}

func TestSearchCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Search(ctx, "x", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchWithoutBaseURL(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), "x", 5)
	assert.Error(t, err)
}

func TestSearchUsesRemoteCache(t *testing.T) {
	env := testutil.NewTestEnv(t)
	testutil.ResetConfig(t)
	testutil.SetupTestCache(t, env)
	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleResponse))
	}, WithCache(true))

	first, err := client.Search(context.Background(), "coelho", 20)
	require.NoError(t, err)
	second, err := client.Search(context.Background(), "coelho", 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	// a different limit is a different page
	_, err = client.Search(context.Background(), "coelho", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, 3*time.Second, retryAfter("3"))
	assert.Equal(t, time.Duration(0), retryAfter("soon"))

	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	d := retryAfter(future)
	assert.Greater(t, d, 30*time.Second)
	assert.LessOrEqual(t, d, time.Minute)
}

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(0, false)
	assert.Equal(t, defaultTimeout, c.Timeout)
	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	verified := NewHTTPClient(time.Second, true).Transport.(*http.Transport)
	assert.True(t, verified.TLSClientConfig == nil || !verified.TLSClientConfig.InsecureSkipVerify)
}
