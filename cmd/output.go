package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookrank/internal/batch"
	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/intent"
	"github.com/lepinkainen/bookrank/internal/ranking"
	"github.com/lepinkainen/bookrank/internal/search"
	"github.com/lepinkainen/bookrank/internal/synonyms"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type column struct {
	title string
	width int
}

var bookColumns = []column{
	{"#", 4},
	{"ID", 11},
	{"TITLE", 44},
	{"AUTHOR", 26},
	{"PRICE", 9},
	{"STOCK", 6},
}

// renderRow lays cells out in fixed-width columns, cutting long values.
func renderRow(cols []column, cells []string, style lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = style.Width(c.width).Render(clip(cell, c.width-1))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderTable(w io.Writer, cols []column, rows [][]string) {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	fmt.Fprintln(w, renderRow(cols, header, headerStyle))
	for _, row := range rows {
		fmt.Fprintln(w, renderRow(cols, row, lipgloss.NewStyle()))
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func bookCells(pos int, b catalog.Book) []string {
	return []string{
		strconv.Itoa(pos),
		strconv.Itoa(b.ID),
		b.Title,
		b.Author,
		formatPrice(b.Price),
		strconv.Itoa(b.Stock),
	}
}

func printSearchResult(w io.Writer, query string, res search.Result) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%q", query)))

	if len(res.Books) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No books found"))
		return
	}

	meta := fmt.Sprintf("%d books, stage %s", len(res.Books), res.Stage)
	if res.Query != "" && res.Query != query {
		meta += fmt.Sprintf(", searched as %q", res.Query)
	}
	fmt.Fprintln(w, dimStyle.Render(meta))

	rows := make([][]string, len(res.Books))
	for i, b := range res.Books {
		rows[i] = bookCells(i+1, b)
	}
	renderTable(w, bookColumns, rows)
}

var rankColumns = append([]column{{"SCORE", 7}, {"SERIES", 7}}, bookColumns...)

func printRanking(w io.Writer, query string, in intent.Intent, scored []ranking.Scored) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%q", query)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("intent %s, %d candidates", in, len(scored))))

	if len(scored) == 0 {
		return
	}

	rows := make([][]string, len(scored))
	for i, s := range scored {
		series := "-"
		if s.HasSeries {
			series = strconv.Itoa(s.SeriesNumber)
		}
		rows[i] = append([]string{strconv.Itoa(s.Score), series}, bookCells(i+1, s.Book)...)
	}
	renderTable(w, rankColumns, rows)
}

var intentColumns = []column{
	{"QUERY", 34},
	{"INTENT", 10},
	{"WEIGHTS a/t/c/d/i", 26},
	{"EXPANSIONS", 50},
}

func printIntents(w io.Writer, queries []string, lex *synonyms.Lexicon) {
	rows := make([][]string, 0, len(queries))
	for _, q := range queries {
		in := intent.Detect(q)
		p := intent.PriorityFor(in)
		weights := fmt.Sprintf("%.2g/%.2g/%.2g/%.2g/%.2g", p.Author, p.Title, p.Category, p.Description, p.ISBN)

		var expansions []string
		if variants := lex.Expand(q); len(variants) > 1 {
			expansions = variants[1:]
		}
		if aliases := lex.Aliases(q); len(aliases) > 0 {
			expansions = append(expansions, "alias: "+strings.Join(aliases, " | "))
		}

		rows = append(rows, []string{q, in.String(), weights, strings.Join(expansions, ", ")})
	}
	renderTable(w, intentColumns, rows)
}

var batchColumns = []column{
	{"QUERY", 34},
	{"BOOKS", 6},
	{"TOP RESULT", 44},
	{"TIME", 10},
}

// printBatch writes one row per query and returns how many failed.
func printBatch(w io.Writer, results []batch.Result) int {
	failed := 0
	rows := make([][]string, len(results))
	for i, r := range results {
		top := ""
		switch {
		case r.Err != nil:
			failed++
			top = "error: " + r.Err.Error()
		case len(r.Books) > 0:
			top = r.Books[0].Title
		}
		rows[i] = []string{r.Query, strconv.Itoa(len(r.Books)), top, r.Elapsed.Round(time.Millisecond).String()}
	}
	renderTable(w, batchColumns, rows)
	if failed > 0 {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%d of %d queries failed", failed, len(results))))
	}
	return failed
}
