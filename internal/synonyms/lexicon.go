// Package synonyms maps colloquial query phrasings to the catalog's preferred
// terms: per-word synonym groups and whole-query title aliases.
package synonyms

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bookrank/internal/textnorm"
	"github.com/lepinkainen/bookrank/internal/typo"
)

// Lexicon holds synonym groups and title aliases. A Lexicon is read-only
// after construction and safe for concurrent use.
type Lexicon struct {
	// Synonyms maps a main term to its variations.
	Synonyms map[string][]string `yaml:"synonyms"`
	// TitleAliases maps a lower-cased query to canonical search phrasings,
	// most specific first.
	TitleAliases map[string][]string `yaml:"title_aliases"`
	// Vocabulary extends the typo corrector's built-in word set.
	Vocabulary []string `yaml:"vocabulary"`

	reverse map[string]string
}

// New builds a Lexicon and its reverse synonym index.
func New(synonyms, aliases map[string][]string, vocabulary []string) *Lexicon {
	l := &Lexicon{
		Synonyms:     synonyms,
		TitleAliases: aliases,
		Vocabulary:   vocabulary,
	}
	l.index()
	return l
}

func (l *Lexicon) index() {
	if l.Synonyms == nil {
		l.Synonyms = map[string][]string{}
	}
	if l.TitleAliases == nil {
		l.TitleAliases = map[string][]string{}
	}

	// Main terms are indexed first so a main term is never shadowed by an
	// identical variation of another group.
	l.reverse = make(map[string]string)
	mains := sortedKeys(l.Synonyms)
	for _, main := range mains {
		for _, v := range l.Synonyms[main] {
			if _, ok := l.reverse[v]; !ok {
				l.reverse[v] = main
			}
		}
	}
	for _, main := range mains {
		l.reverse[main] = main
	}
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return New(cloneMap(defaultSynonyms), cloneMap(defaultAliases), nil)
}

// LoadFile reads a YAML lexicon and merges it over the defaults. Entries in
// the file replace built-in entries with the same key.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var file Lexicon
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file %s: %w", path, err)
	}

	synonyms := cloneMap(defaultSynonyms)
	for k, v := range file.Synonyms {
		synonyms[textnorm.Normalize(k)] = v
	}
	aliases := cloneMap(defaultAliases)
	for k, v := range file.TitleAliases {
		aliases[aliasKey(k)] = v
	}

	return New(synonyms, aliases, file.Vocabulary), nil
}

// Expand returns query followed by every variation of the synonym groups it
// touches, either as a whole or through any of its words. Variations are
// sorted and never repeat the query.
func (l *Lexicon) Expand(query string) []string {
	normalized := textnorm.Normalize(query)
	variations := make(map[string]struct{})

	for _, v := range l.Synonyms[normalized] {
		variations[v] = struct{}{}
	}
	for _, w := range strings.Fields(normalized) {
		main, ok := l.reverse[w]
		if !ok {
			continue
		}
		for _, v := range l.Synonyms[main] {
			variations[v] = struct{}{}
		}
	}
	delete(variations, query)

	out := make([]string, 0, len(variations)+1)
	out = append(out, query)
	out = append(out, sortedKeys(variations)...)
	return out
}

// NormalizeWithSynonyms normalizes text and replaces each known variation
// with its main term.
func (l *Lexicon) NormalizeWithSynonyms(text string) string {
	words := strings.Fields(textnorm.Normalize(text))
	for i, w := range words {
		if main, ok := l.reverse[w]; ok {
			words[i] = main
		}
	}
	return strings.Join(words, " ")
}

// Aliases returns the canonical search phrasings for query, or nil.
func (l *Lexicon) Aliases(query string) []string {
	return l.TitleAliases[aliasKey(query)]
}

// TypoVocabulary is the built-in typo vocabulary extended with the lexicon's
// own words.
func (l *Lexicon) TypoVocabulary() typo.Vocabulary {
	vocab := typo.DefaultVocabulary()
	for _, w := range l.Vocabulary {
		vocab[textnorm.Normalize(w)] = struct{}{}
	}
	return vocab
}

func aliasKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}
