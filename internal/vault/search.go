package vault

import (
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Search scoring weights. Scores are summed per page; pages scoring zero are
// excluded from results.
const (
	scoreTitleContains = 100
	scoreTitleExact    = 50
	scoreTitlePrefix   = 25
	scoreAliasContains = 75
	scoreAliasExact    = 50
	scorePathContains  = 25
)

// Search scores pages against the query and returns them ranked: score
// descending, ties broken by case-insensitive title ascending. limit <= 0
// means no truncation. An empty or whitespace-only query matches nothing.
// Pure function over the snapshot it is handed.
func Search(pages []models.Page, query string, limit int) []models.Page {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type scored struct {
		page  models.Page
		score int
	}
	var hits []scored
	for _, p := range pages {
		if s := scorePage(p, q); s > 0 {
			hits = append(hits, scored{page: p, score: s})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return strings.ToLower(hits[i].page.Title) < strings.ToLower(hits[j].page.Title)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]models.Page, len(hits))
	for i, h := range hits {
		out[i] = h.page
	}
	return out
}

// scorePage computes the match score for one page against a lowercased query.
func scorePage(p models.Page, q string) int {
	score := 0

	title := strings.ToLower(p.Title)
	if strings.Contains(title, q) {
		score += scoreTitleContains
		if title == q {
			score += scoreTitleExact
		}
		if strings.HasPrefix(title, q) {
			score += scoreTitlePrefix
		}
	}

	aliasContains, aliasExact := false, false
	for _, a := range p.Aliases {
		alias := strings.ToLower(a)
		if strings.Contains(alias, q) {
			aliasContains = true
		}
		if alias == q {
			aliasExact = true
		}
	}
	if aliasContains {
		score += scoreAliasContains
	}
	if aliasExact {
		score += scoreAliasExact
	}

	if strings.Contains(strings.ToLower(p.RelativePath), q) {
		score += scorePathContains
	}

	return score
}
