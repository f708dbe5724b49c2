package typo

import "sort"

// Vocabulary is a set of known-good catalog words that misspellings are
// corrected towards.
type Vocabulary map[string]struct{}

// NewVocabulary builds a Vocabulary from words.
func NewVocabulary(words ...string) Vocabulary {
	v := make(Vocabulary, len(words))
	for _, w := range words {
		v[w] = struct{}{}
	}
	return v
}

// Contains reports whether word is in the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v[word]
	return ok
}

// Words returns the vocabulary in sorted order.
func (v Vocabulary) Words() []string {
	words := make([]string, 0, len(v))
	for w := range v {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Merge returns a new vocabulary holding the words of v and extra.
func (v Vocabulary) Merge(extra ...string) Vocabulary {
	out := make(Vocabulary, len(v)+len(extra))
	for w := range v {
		out[w] = struct{}{}
	}
	for _, w := range extra {
		out[w] = struct{}{}
	}
	return out
}

var defaultWords = []string{
	"gestion", "ambiental", "empresa", "calidad", "competitividad",
	"medio", "ambiente", "residuos", "sostenible", "turismo",
	"auditoria", "financiero", "desarrollo", "implementacion",
	"fundamentos", "lineamientos", "comunicacion", "sustentabilidad",
	"paulo", "coelho", "alquimista", "alquimia", "poder",
	"harry", "potter", "piedra", "filosofal", "hogwarts", "magia",
	"rowling", "hermione", "ron", "voldemort", "dumbledore",
}

var defaultVocabulary = NewVocabulary(defaultWords...)

// DefaultVocabulary returns a copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return defaultVocabulary.Merge()
}

var stopWords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {},
	"un": {}, "una": {},
	"de": {}, "del": {},
	"autor":  {},
	"libro":  {},
	"libros": {},
	"busco":  {}, "quiero": {}, "necesito": {},
}

// IsStopWord reports whether a normalized word carries no search meaning.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
