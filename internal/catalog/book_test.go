package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Book{Title: "EL ALQUIMISTA"}.Validate())
	assert.ErrorIs(t, Book{}.Validate(), ErrEmptyTitle)
	assert.ErrorIs(t, Book{Title: "   "}.Validate(), ErrEmptyTitle)
}

func TestValid(t *testing.T) {
	books := []Book{
		{ID: 1, Title: "A"},
		{ID: 2},
		{ID: 3, Title: "C"},
	}
	assert.Equal(t, []int{1, 3}, IDs(Valid(books)))
	assert.Empty(t, Valid(nil))
}

func TestBookJSON(t *testing.T) {
	price := 45000.0
	data, err := json.Marshal(Book{ID: 7, Title: "ONCE MINUTOS", Price: &price})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"ONCE MINUTOS","price":45000,"stock":0}`, string(data))
}
