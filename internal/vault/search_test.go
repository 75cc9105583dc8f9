package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ansuz/internal/models"
)

func titles(pages []models.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Title
	}
	return out
}

func TestSearchEmptyQuery(t *testing.T) {
	pages := []models.Page{page("a.md", "Anything")}
	assert.Nil(t, Search(pages, "", 10))
	assert.Nil(t, Search(pages, "   ", 10))
}

func TestSearchTitleScoring(t *testing.T) {
	pages := []models.Page{
		page("1.md", "go"),             // exact: 100+50+25
		page("2.md", "go patterns"),    // prefix: 100+25
		page("3.md", "learning go"),    // contains: 100
		page("4.md", "rust patterns"),  // no match
	}

	got := Search(pages, "go", 0)
	require.Equal(t, []string{"go", "go patterns", "learning go"}, titles(got))
}

func TestSearchAliasScoring(t *testing.T) {
	pages := []models.Page{
		page("1.md", "Unrelated One", "golang"),  // alias contains: 75
		page("2.md", "Unrelated Two", "go"),      // alias exact: 75+50
		page("3.md", "Unrelated Three"),          // no match
	}

	got := Search(pages, "go", 0)
	require.Equal(t, []string{"Unrelated Two", "Unrelated One"}, titles(got))
}

func TestSearchAliasBonusAwardedOnce(t *testing.T) {
	// Multiple matching aliases count once, so one page cannot outrank a
	// title match by stacking aliases.
	multi := page("m.md", "Zzz", "go tools", "go tips", "go tricks")
	title := page("t.md", "notes on go")

	got := Search([]models.Page{multi, title}, "go", 0)
	require.Equal(t, []string{"notes on go", "Zzz"}, titles(got))
}

func TestSearchPathScoring(t *testing.T) {
	pages := []models.Page{
		page("projects/go-service.md", "Service Design"), // path contains: 25
		page("misc/other.md", "Other"),
	}

	got := Search(pages, "go", 0)
	require.Equal(t, []string{"Service Design"}, titles(got))
}

func TestSearchTieBreakByTitle(t *testing.T) {
	pages := []models.Page{
		page("1.md", "beta go"),
		page("2.md", "Alpha go"),
	}

	got := Search(pages, "go", 0)
	require.Equal(t, []string{"Alpha go", "beta go"}, titles(got),
		"equal scores ordered by case-insensitive title")
}

func TestSearchLimit(t *testing.T) {
	pages := []models.Page{
		page("1.md", "go one"),
		page("2.md", "go two"),
		page("3.md", "go three"),
	}

	assert.Len(t, Search(pages, "go", 2), 2)
	assert.Len(t, Search(pages, "go", 0), 3)
	assert.Len(t, Search(pages, "go", -1), 3)
}

func TestSearchCaseInsensitive(t *testing.T) {
	pages := []models.Page{page("1.md", "The Go Language")}
	got := Search(pages, "GO LANG", 0)
	require.Len(t, got, 1)
}

func TestSearchTitleAndAliasBonusesStack(t *testing.T) {
	c := page("c.md", "Gamma Notes", "Gamma")      // title contains + alias contains + alias exact
	pathOnly := page("docs/gamma-draft.md", "Wip") // path contains only

	got := Search([]models.Page{pathOnly, c}, "gamma", 10)
	require.Equal(t, []string{"Gamma Notes", "Wip"}, titles(got))
}

func TestSearchCombinedScores(t *testing.T) {
	// Title contains + path contains beats alias contains alone.
	both := page("go/notes.md", "go stuff")           // 100+25+25(prefix)+25(path)
	aliasOnly := page("misc/a.md", "Aaa", "all go")   // 75

	got := Search([]models.Page{aliasOnly, both}, "go", 0)
	require.Equal(t, []string{"go stuff", "Aaa"}, titles(got))
}
