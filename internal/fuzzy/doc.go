// Package fuzzy scores how closely a query matches a single catalog field.
//
// Score is the general field matcher: it rejects pairs of very different
// length, treats small edit distances as typos, and otherwise takes the best
// of a plain, a partial (substring aligned) and a token-sorted similarity
// ratio. AuthorScore is tuned for personal names, where the surname carries
// the signal and common given names or initials are often wrong or missing.
//
// All similarity values are on a 0-100 scale. Every function is total and
// returns 0 for empty input.
package fuzzy
