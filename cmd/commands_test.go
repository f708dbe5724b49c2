package cmd

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
	_ "modernc.org/sqlite"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/config"
	"github.com/lepinkainen/bookrank/internal/testutil"
)

func writeTestCatalog(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	return env.WriteCatalogCSV("catalogo.csv",
		[]string{"A1", "EL ALQUIMISTA", "COELHO, PAULO", "PLANETA", "9788408043533", "4", "LITERATURA", "NOVELA", "", "45000"},
		[]string{"A2", "BRIDA", "COELHO, PAULO", "PLANETA", "", "1"},
		[]string{"A3", "QUIMICA GENERAL", "CHANG, RAYMOND", "MCGRAW HILL", "", "2"},
		[]string{"A4", "CUENTO DE NAVIDAD", "DICKENS, CHARLES", "ALFAGUARA", "", "0"},
	)
}

func TestSearchCmd_LocalCatalog(t *testing.T) {
	env := testutil.NewTestEnv(t)
	out := resetCmdState(t, testutil.WithCatalogFile(writeTestCatalog(t, env)))

	err := runCLI(t, "search", "el", "alquimista")
	assert.NoError(t, err)

	assert.Contains(t, out.String(), `"el alquimista"`)
	assert.Contains(t, out.String(), "EL ALQUIMISTA")
	assert.Contains(t, out.String(), "45000.00")
	assert.NotContains(t, out.String(), "QUIMICA GENERAL")
}

func TestSearchCmd_WritesJSON(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	path := writeTestCatalog(t, env)
	jsonPath := env.Path("out", "results.json")

	err := runCLI(t, "--catalog", path, "search", "cuentos", "--json", jsonPath)
	assert.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	assert.NoError(t, err)
	var books []catalog.Book
	assert.NoError(t, json.Unmarshal(data, &books))
	assert.Equal(t, 1, len(books))
	assert.Equal(t, "CUENTO DE NAVIDAD", books[0].Title)
}

func TestSearchCmd_UsesResultCache(t *testing.T) {
	env := testutil.NewTestEnv(t)
	out := resetCmdState(t,
		testutil.WithCatalogFile(writeTestCatalog(t, env)),
		testutil.WithCacheEnabled(true),
	)
	testutil.SetupTestCache(t, env)

	assert.NoError(t, runCLI(t, "search", "cuentos"))
	assert.Contains(t, out.String(), "stage direct")

	out.Reset()
	assert.NoError(t, runCLI(t, "search", "cuentos"))
	assert.Contains(t, out.String(), "stage cache")
	assert.Contains(t, out.String(), "CUENTO DE NAVIDAD")

	out.Reset()
	assert.NoError(t, runCLI(t, "cache", "invalidate", "search"))
	assert.NoError(t, runCLI(t, "search", "cuentos"))
	assert.Contains(t, out.String(), "stage direct")
}

func TestSearchCmd_NoResults(t *testing.T) {
	out := resetCmdState(t)
	env := testutil.NewTestEnv(t)
	config.CatalogFile = writeTestCatalog(t, env)

	assert.NoError(t, runCLI(t, "search", "zzzz"))
	assert.Contains(t, out.String(), "No books found")
}

func TestSearchCmd_MissingCatalog(t *testing.T) {
	resetCmdState(t)

	err := runCLI(t, "search", "novela")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file is required")
}

func TestSearchCmd_RemoteRequiresBaseURL(t *testing.T) {
	resetCmdState(t)

	err := runCLI(t, "--remote", "search", "novela")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "remote base URL is required")
}

func TestSearchCmd_Remote(t *testing.T) {
	out := resetCmdState(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"results": [
			{"id": 101, "title": "EL ALQUIMISTA", "desc2": "COELHO, PAULO", "price": 45000, "stock": 4},
			{"id": 102, "title": "BRIDA", "desc2": "COELHO, PAULO", "precio1": "38000.50"}
		]}`))
	}))
	t.Cleanup(server.Close)

	err := runCLI(t, "--remote", "--base-url", server.URL+"/api/", "search", "el", "alquimista")
	assert.NoError(t, err)

	assert.True(t, calls.Load() > 0)
	assert.Contains(t, out.String(), "EL ALQUIMISTA")
	assert.Contains(t, out.String(), "38000.50")
}

func TestRankCmd(t *testing.T) {
	env := testutil.NewTestEnv(t)
	out := resetCmdState(t, testutil.WithCatalogFile(writeTestCatalog(t, env)), testutil.WithSearchLimit(3))

	assert.NoError(t, runCLI(t, "rank", "cuentos"))
	assert.Contains(t, out.String(), "intent title, 1 candidates")
	assert.Contains(t, out.String(), "CUENTO DE NAVIDAD")
	assert.NotContains(t, out.String(), "BRIDA")

	out.Reset()
	assert.NoError(t, runCLI(t, "rank", "--all", "cuentos"))
	assert.Contains(t, out.String(), "3 candidates")
	assert.Contains(t, out.String(), "CUENTO DE NAVIDAD")
}

func TestIntentCmd(t *testing.T) {
	out := resetCmdState(t)

	assert.NoError(t, runCLI(t, "intent", "978-84-376-0494-7", "el alquimista"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Contains(t, lines[0], "INTENT")
	assert.Contains(t, lines[1], "isbn")
	assert.Contains(t, lines[2], "title")
	assert.Contains(t, lines[2], "alias: paulo coelho")
}

func TestBatchCmd(t *testing.T) {
	out := resetCmdState(t)
	env := testutil.NewTestEnv(t)
	config.CatalogFile = writeTestCatalog(t, env)
	queries := env.WriteFileString("queries.txt", "el alquimista\n# comentario\n\ncuentos\n")
	jsonPath := env.Path("batch.json")

	assert.NoError(t, runCLI(t, "batch", "-q", queries, "-w", "2", "--json", jsonPath))

	assert.Contains(t, out.String(), "el alquimista")
	assert.Contains(t, out.String(), "CUENTO DE NAVIDAD")
	assert.NotContains(t, out.String(), "comentario")

	var results []struct {
		Query string         `json:"query"`
		Books []catalog.Book `json:"books"`
	}
	data, err := os.ReadFile(jsonPath)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(data, &results))
	assert.Equal(t, 2, len(results))
	assert.Equal(t, "el alquimista", results[0].Query)
	assert.Equal(t, "cuentos", results[1].Query)
}

func TestBatchCmd_WritesDatabase(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	config.CatalogFile = writeTestCatalog(t, env)
	queries := env.WriteFileString("queries.txt", "cuentos\nzzzz\n")
	dbPath := env.Path("batch.db")

	assert.NoError(t, runCLI(t, "batch", "-q", queries, "--db", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var title string
	err = db.QueryRow("SELECT title FROM batch_results WHERE query = 'cuentos' AND position = 1").Scan(&title)
	assert.NoError(t, err)
	assert.Equal(t, "CUENTO DE NAVIDAD", title)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM batch_results WHERE query = 'zzzz' AND position = 0").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBatchCmd_AllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	out := resetCmdState(t, testutil.WithRemoteBaseURL(server.URL))
	env := testutil.NewTestEnv(t)
	queries := env.WriteFileString("queries.txt", "novela\n")

	err := runCLI(t, "batch", "-q", queries)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 queries failed")
	assert.Contains(t, out.String(), "1 of 1 queries failed")
}
