package ranking

// Series numbers.
const (
	seriesMatchBonus      = 200
	seriesMismatchPenalty = -100
	seriesMissingPenalty  = -30
	// seriesTypoMatchBonus applies when the query also carries words that
	// look like typos, which outweigh the number.
	seriesTypoMatchBonus = 80
)

// Typo-tolerant title word matching for query words outside coreSeriesWords.
const (
	typoCloseBonus     = 250
	typoSubstringBonus = 200
	typoGramBonus      = 150
	typoDistanceRatio  = 0.3
	typoGramLen        = 4
	// uniqueWordMinLen is the length a word must exceed to be considered.
	uniqueWordMinLen = 3
)

// coreSeriesWords are never treated as typos.
var coreSeriesWords = map[string]bool{
	"harry": true, "potter": true, "piedra": true, "filosofal": true,
}

// Field contributions.
const (
	authorMismatchPenalty  = -1000
	authorIntentMinScore   = 50
	authorIntentFactor     = 8.0
	authorFieldFactor      = 2.5
	strongAuthorScore      = 80
	strongAuthorFactor     = 1.5
	titleFieldFactor       = 3.0
	categoryFieldFactor    = 1.5
	descriptionFieldFactor = 0.5
	isbnMatchBonus         = 1000
)

// Keyword coverage of the title fragment.
const (
	coverageFactor         = 30
	noCoveragePenalty      = -300
	noCoverageTitleFactor  = 2
	longKeywordMinLen      = 6
	longKeywordMaxDistance = 2
	longKeywordPenalty     = -400
)

var coverageStopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "de": true, "del": true,
	"y": true, "un": true, "una": true, "autor": true,
}

// Edition preference. The first matching rule wins.
const (
	spinOffPenalty       = -50
	illustratorBonus     = 5
	anniversaryBonus     = 10
	illustratedBonus     = 15
	specialEditionBonus  = 8
	standardEditionBonus = 50
)

var (
	spinOffMarkers = []string{
		"NAVIDAD EN", "DE HARRY POTTER", "DEL UNIVERSO DE",
		"FRAGMENTO", "COMPANION", "GUIA", "GUIDE", "COLORING",
		"ANIMALES FANTASTICOS", "MARAVILLAS DE LA NATURALEZA",
	}
	// Matched against the title as written.
	illustratorMarkers    = []string{"Diseño e ilustraciones", "diseño", "ilustraciones de MINALIMA"}
	anniversaryMarkers    = []string{"AÑO", "ANO"}
	illustratedMarkers    = []string{"ILUSTRADO"}
	specialEditionMarkers = []string{"T/D", "TAPA DURA", "EDICION"}
)

// Secondary matches against the fragments split around "autor".
const (
	fragmentAuthorFactor      = 1.5
	fragmentCategoryFactor    = 0.5
	fragmentDescriptionFactor = 0.3
)

// Stock.
const (
	stockFactor   = 1.5
	maxStockBonus = 15.0
)

// Reranking.
const (
	// BoostBonus is added to books passed through WithBoostIDs.
	BoostBonus = 500
	// seriesOrderMinBooks is how many numbered books by the queried author
	// switch the ordering to reading order.
	seriesOrderMinBooks = 3
)

// authorSeparator splits "<title> autor <author>" queries.
const authorSeparator = "autor"
