package synonyms

var defaultSynonyms = map[string][]string{
	"gestion":         {"gestión", "manejo", "administración", "management"},
	"ambiental":       {"ambiente", "medio ambiente", "ecologico", "ecológico", "sostenible", "sustentable"},
	"empresa":         {"empresarial", "corporativo", "organizacional", "negocio"},
	"calidad":         {"quality", "excelencia", "estándar", "norma"},
	"competitividad":  {"competencia", "ventaja competitiva", "eficiencia"},
	"paulo":           {"paulo coelho", "paulo cohelo", "paul"},
	"coelho":          {"cohelo", "paulo coelho"},
	"alquimista":      {"alquimia", "alqimista"},
	"desarrollo":      {"desarrollar", "evolución", "crecimiento"},
	"implementacion":  {"implementación", "ejecución", "puesta en marcha"},
	"fundamentos":     {"fundación", "base", "principios"},
	"lineamientos":    {"lineamiento", "directriz", "guía"},
	"comunicacion":    {"comunicaciones", "medios"},
	"sustentabilidad": {"sustentable", "sostenible", "sostenibilidad"},
}

// Keys are lower-cased queries.
var defaultAliases = map[string][]string{
	// A bare number is what separates "the first book" from "any book".
	"harry potter 1": {"piedra filosofal 1", "harry potter 1"},
	"harry potte 1":  {"piedra filosofal 1", "harry potte 1"},
	"jarry poter 1":  {"jarripoter 1", "jarripoter"},

	"harry potter y la piedra filosofal":   {"piedra filosofal 1", "piedra filosofal", "harry potter piedra filosofal"},
	"harry potter y la piedra filosofal 1": {"piedra filosofal 1", "harry potter piedra filosofal 1"},

	"harry potter ilustrado": {"harry potter ilustrado"},
	"ahrry poter ilustrado":  {"harry potter ilustrado"},
	"harry potte ilustrado":  {"harry potter ilustrado"},

	"el alquimista": {"paulo coelho"},
	"el alqimsta":   {"paulo coelho"},
}
