package search

// Synonyms maps a normalized film-industry term to equivalent search terms.
var Synonyms = map[string][]string{
	"dop":             {"cinematography", "director of photography", "camera"},
	"cinematographer": {"cinematography", "camera"},
	"dp":              {"cinematography", "director of photography"},
	"editor":          {"editing", "post production"},
	"post":            {"post production", "editing", "color grading"},
	"colorist":        {"color grading", "colour grading"},
	"colour":          {"color"},
	"sound":           {"sound design", "audio", "mixing"},
	"audio":           {"sound", "sound design"},
	"writer":          {"screenwriting", "script"},
	"script":          {"screenwriting", "screenplay"},
	"doc":             {"documentary"},
	"docs":            {"documentary"},
	"director":        {"directing"},
	"gaffer":          {"lighting"},
	"short film":      {"short", "film"},
	"funding":         {"grant", "fund"},
	"fellowship":      {"grant"},
	"festival":        {"competition"},
	"gig":             {"job", "collaboration"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
