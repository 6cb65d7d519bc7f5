package search

import (
	"strings"
	"unicode"
)

const maxVariants = 10

type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lower-cases input, drops punctuation and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandQuery returns normalized followed by synonym variants, capped at ten.
// A leading term with synonyms is replaced in place so the rest of the query
// is kept ("dop lagos" also yields "cinematography lagos").
func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)
	replacePrefix := func(n int) {
		if len(words) < n {
			return
		}
		phrase := strings.Join(words[:n], " ")
		rest := strings.Join(words[n:], " ")
		for _, syn := range GetSynonyms(phrase) {
			add(strings.TrimSpace(syn + " " + rest))
		}
	}
	replacePrefix(1)
	replacePrefix(2)

	// Compact spellings of spaced terms, "shortfilm" for "short film".
	if len(words) > 0 {
		for k := range Synonyms {
			if !strings.Contains(k, " ") || strings.ReplaceAll(k, " ", "") != words[0] {
				continue
			}
			rest := strings.Join(words[1:], " ")
			add(strings.TrimSpace(k + " " + rest))
			for _, syn := range Synonyms[k] {
				add(strings.TrimSpace(syn + " " + rest))
			}
			break
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func ProcessQuery(input string) QueryContext {
	qc := QueryContext{Original: input, Normalized: NormalizeQuery(input)}
	if qc.Normalized == "" {
		qc.Variants = []string{}
		return qc
	}
	qc.Variants = ExpandQuery(qc.Normalized)
	return qc
}
