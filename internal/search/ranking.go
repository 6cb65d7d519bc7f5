package search

import (
	"sort"
	"strings"
	"time"
)

type Kind string

const (
	KindCourse      Kind = "course"
	KindOpportunity Kind = "opportunity"
	KindUser        Kind = "user"
)

// Document is the ranking view of a searchable entity.
type Document struct {
	Kind        Kind
	ID          string
	Title       string
	Description string
	Secondary   string
	Image       string
	Popularity  int
	CreatedAt   time.Time
}

type Score struct {
	ID          string
	Relevance   float64
	Freshness   float64
	Popularity  float64
	DataQuality float64
	FinalScore  float64
}

// ComputeRelevance weighs title hits over description and secondary hits, capped at 10.
func ComputeRelevance(doc Document, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}
	title := strings.ToLower(doc.Title)
	desc := strings.ToLower(doc.Description)
	secondary := strings.ToLower(doc.Secondary)

	score := 0.0
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if strings.Contains(title, v) {
			score += 3
			if strings.HasPrefix(title, v) {
				score++
			}
		}
		if strings.Contains(desc, v) {
			score++
		}
		if strings.Contains(secondary, v) {
			score++
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func ComputeFreshness(doc Document, now time.Time) float64 {
	if doc.CreatedAt.IsZero() {
		return 0
	}
	age := now.Sub(doc.CreatedAt)
	if age < 0 {
		age = 0
	}
	day := 24 * time.Hour
	switch {
	case age <= 7*day:
		return 5
	case age <= 30*day:
		return 4
	case age <= 90*day:
		return 3
	case age <= 180*day:
		return 2
	case age <= 365*day:
		return 1
	}
	return 0
}

// ComputePopularity buckets enrollments, applications or followers onto 0..5.
func ComputePopularity(n int) float64 {
	switch {
	case n >= 1000:
		return 5
	case n >= 250:
		return 4
	case n >= 50:
		return 3
	case n >= 10:
		return 2
	case n > 0:
		return 1
	}
	return 0
}

func ComputeDataQuality(doc Document) float64 {
	score := 0.0
	if strings.TrimSpace(doc.Title) != "" {
		score++
	}
	if strings.TrimSpace(doc.Secondary) != "" {
		score++
	}
	if len(strings.TrimSpace(doc.Description)) > 100 {
		score++
	}
	if strings.TrimSpace(doc.Image) != "" {
		score++
	}
	return score
}

func ScoreDocument(doc Document, variants []string, now time.Time) Score {
	rel := ComputeRelevance(doc, variants)
	fresh := ComputeFreshness(doc, now)
	pop := ComputePopularity(doc.Popularity)
	qual := ComputeDataQuality(doc)

	return Score{
		ID:          doc.ID,
		Relevance:   rel,
		Freshness:   fresh,
		Popularity:  pop,
		DataQuality: qual,
		FinalScore:  (rel * 2.0) + (fresh * 1.0) + (pop * 1.5) + (qual * 0.5),
	}
}

// Rank orders docs by descending score. Ties, and input with no relevant
// document at all, keep their original order.
func Rank(docs []Document, variants []string, now time.Time) []Document {
	if len(docs) == 0 {
		return docs
	}

	type scored struct {
		idx   int
		score float64
	}
	items := make([]scored, len(docs))
	anyRelevant := false
	for i := range docs {
		s := ScoreDocument(docs[i], variants, now)
		items[i] = scored{idx: i, score: s.FinalScore}
		if s.Relevance > 0 {
			anyRelevant = true
		}
	}
	if !anyRelevant {
		return docs
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]Document, 0, len(docs))
	for _, it := range items {
		out = append(out, docs[it.idx])
	}
	return out
}
