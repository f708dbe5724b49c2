package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookrank/internal/catalog"
)

func TestRows(t *testing.T) {
	runAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	price := 45000.0
	results := []Result{
		{Query: "coelho", Elapsed: 3 * time.Millisecond, Books: []catalog.Book{
			{ID: 1, Title: "EL ALQUIMISTA", Author: "COELHO, PAULO", Price: &price, Stock: 4},
			{ID: 2, Title: "BRIDA", Author: "COELHO, PAULO"},
		}},
		{Query: "bad", Err: errBad},
		{Query: "zzzz"},
	}

	rows := Rows(results, runAt)
	require.Len(t, rows, 4)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "EL ALQUIMISTA", rows[0].Title)
	assert.Equal(t, &price, rows[0].Price)
	assert.Equal(t, 3*time.Millisecond, rows[0].Elapsed)
	assert.Equal(t, runAt, rows[0].RunAt)

	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, 2, rows[1].BookID)
	assert.Nil(t, rows[1].Price)

	assert.Equal(t, "bad", rows[2].Query)
	assert.Equal(t, 0, rows[2].Position)
	assert.Equal(t, "bad query", rows[2].Error)

	assert.Equal(t, "zzzz", rows[3].Query)
	assert.Equal(t, 0, rows[3].Position)
	assert.Empty(t, rows[3].Error)
}

func TestRowsEmpty(t *testing.T) {
	assert.Empty(t, Rows(nil, time.Now()))
}
