package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/bookrank/internal/catalog"
)

func TestScoreBookExactTitleWins(t *testing.T) {
	query := "GESTION AMBIENTAL EN LA EMPRESA"
	books := []catalog.Book{
		{ID: 1, Title: "GESTION DE LA COMPETITIVIDAD EMPRESARIAL", Stock: 1},
		{ID: 2, Title: "GESTION AMBIENTAL EN LA EMPRESA", Stock: 1},
		{ID: 3, Title: "FUNDAMENTOS EN MEDIO AMBIENTE Y GESTION DE RESIDUOS", Stock: 1},
	}

	assert.Equal(t, 302, ScoreBook(books[0], query))
	assert.Equal(t, 1086, ScoreBook(books[1], query))
	assert.Equal(t, 349, ScoreBook(books[2], query))
	assert.Equal(t, []int{2, 3, 1}, catalog.IDs(Rerank(books, query)))
}

func TestScoreBookTypoedTitleAndAuthor(t *testing.T) {
	query := "el alqimsta del autor pablo cuello"
	books := []catalog.Book{
		{ID: 1, Title: "EL PODER DEL AHORA", Author: "Eckhart Tolle"},
		{ID: 2, Title: "EL ALQUIMISTA", Author: "Paulo Coelho"},
	}

	assert.Equal(t, -639, ScoreBook(books[0], query))
	assert.Equal(t, 25, ScoreBook(books[1], query))
	assert.Equal(t, []int{2, 1}, catalog.IDs(Rerank(books, query)))
}

func TestScoreBookAuthorIntentIsSelective(t *testing.T) {
	query := "Paulo Coelho"
	books := []catalog.Book{
		{ID: 1, Title: "EL ALQUIMISTA", Author: "Paulo Coelho"},
		{ID: 2, Title: "PAULO COELHO BIOGRAFIA", Author: "Fernando Morais"},
		{ID: 3, Title: "ONCE MINUTOS", Author: "Coelho, Paulo", Stock: 20},
	}

	scores := []int{ScoreBook(books[0], query), ScoreBook(books[1], query), ScoreBook(books[2], query)}
	assert.Equal(t, []int{961, -398, 974}, scores)

	// A book whose author does not match stays a full penalty below both
	// matching books.
	assert.Less(t, scores[1], min(scores[0], scores[2])-1000)
	assert.Equal(t, []int{3, 1, 2}, catalog.IDs(Rerank(books, query)))
}

func TestScoreBookISBN(t *testing.T) {
	book := catalog.Book{ID: 1, Title: "HARRY POTTER Y LA PIEDRA FILOSOFAL", ISBN: "978-84-9838-380-6"}
	other := catalog.Book{ID: 2, Title: "HARRY POTTER Y LA CAMARA SECRETA", ISBN: "9788498383820"}
	noISBN := catalog.Book{ID: 3, Title: "SIN ISBN"}

	for _, q := range []string{"9788498383806", "978-84-9838-380-6"} {
		assert.Equal(t, 350, ScoreBook(book, q), q)
		assert.Equal(t, -650, ScoreBook(other, q), q)
		assert.Equal(t, -650, ScoreBook(noISBN, q), q)
	}
}

func TestScoreBookMissingFieldsNeverFail(t *testing.T) {
	book := catalog.Book{ID: 1, Title: "X"}
	assert.NotPanics(t, func() {
		ScoreBook(book, "")
		ScoreBook(book, "   ")
		ScoreBook(book, "autor")
		ScoreBook(catalog.Book{}, "harry potter")
	})
}

func TestScoreBookIsDeterministic(t *testing.T) {
	book := catalog.Book{ID: 1, Title: "HARRY POTTER Y LA PIEDRA FILOSOFAL 1", Author: "Rowling, J.K."}
	want := ScoreBook(book, "jarry poter 1")
	for range 50 {
		assert.Equal(t, want, ScoreBook(book, "jarry poter 1"))
	}
}

func TestStockBonusIsCapped(t *testing.T) {
	base := catalog.Book{ID: 1, Title: "ONCE MINUTOS"}
	query := "once minutos"
	none := ScoreBook(base, query)

	base.Stock = 4
	assert.Equal(t, none+6, ScoreBook(base, query))
	base.Stock = 500
	assert.Equal(t, none+15, ScoreBook(base, query))
	base.Stock = -3
	assert.Equal(t, none, ScoreBook(base, query))
}

func TestSplitTitleAuthor(t *testing.T) {
	tests := []struct {
		query        string
		title, autor string
	}{
		{"el alqimsta del autor pablo cuello", "el alqimsta del", "pablo cuello"},
		{"El Alquimista", "el alquimista", ""},
		{"autor coelho", "", "coelho"},
		// The separator is matched inside words too.
		{"autores latinos", "", "es latinos"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			title, author := SplitTitleAuthor(tt.query)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.autor, author)
		})
	}
}

func TestEditionPriority(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"HARRY POTTER Y LA PIEDRA FILOSOFAL", standardEditionBonus},
		{"GUIA DE HARRY POTTER", spinOffPenalty},
		{"Navidad en Hogwarts", spinOffPenalty},
		{"HARRY POTTER. Diseño e ilustraciones de MinaLima", illustratorBonus},
		{"HARRY POTTER 20 AÑOS DE MAGIA", anniversaryBonus},
		{"HARRY POTTER ILUSTRADO", illustratedBonus},
		{"HARRY POTTER T/D", specialEditionBonus},
		{"Edicion de bolsillo", specialEditionBonus},
		// Spin-off markers win over any edition marker.
		{"GUIA ILUSTRADO", spinOffPenalty},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, editionPriority(tt.title))
		})
	}
}

func TestSeriesBonus(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  int
	}{
		{"matching number", "harry potter 2", "harry potter y la camara secreta 2", seriesMatchBonus},
		{"different number", "harry potter 2", "harry potter y el prisionero de azkaban 3", seriesMismatchPenalty},
		{"title without number", "harry potter 2", "harry potter y la camara secreta", seriesMissingPenalty},
		{"typo words with match", "jarry poter 1", "jarripoter 1", seriesTypoMatchBonus},
		{"typo words without match", "jarry poter 1", "jarripoter 2", 0},
		{"query without number", "harry potter", "harry potter 1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newQuery(tt.query).seriesBonus(tt.title))
		})
	}
}

func TestTypoBonus(t *testing.T) {
	q := newQuery("jarry poter")
	// "jarr" from "jarry" and the whole of "poter" are inside "jarripoter".
	assert.Equal(t, typoGramBonus+typoSubstringBonus, q.typoBonus(toSet([]string{"jarripoter"})))
	assert.Equal(t, typoCloseBonus, q.typoBonus(toSet([]string{"potter"})))
	assert.Equal(t, typoGramBonus, q.typoBonus(toSet([]string{"xpoteh"})))
	assert.Equal(t, 0, q.typoBonus(toSet([]string{"el", "de", "casa"})))
}
