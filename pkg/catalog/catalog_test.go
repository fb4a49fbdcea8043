package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListArticlesUnfiltered(t *testing.T) {
	all := ListArticles(ArticleFilter{})
	assert.Len(t, all, 4)
}

func TestListArticlesByLevel(t *testing.T) {
	got := ListArticles(ArticleFilter{Level: 300})
	assert.Len(t, got, 1)
	assert.Equal(t, "art-311", got[0].ID)
}

func TestListArticlesByCategory(t *testing.T) {
	got := ListArticles(ArticleFilter{Category: "Ballistics"})
	assert.Len(t, got, 1)
	assert.Equal(t, "art-411", got[0].ID)
	assert.True(t, got[0].IsPremium)
}

func TestListArticlesCombinedFilterNoMatch(t *testing.T) {
	got := ListArticles(ArticleFilter{Level: 100, Category: "Ballistics"})
	assert.Empty(t, got)
}

func TestFindArticle(t *testing.T) {
	a, ok := FindArticle("art-203")
	assert.True(t, ok)
	assert.Equal(t, "Physical", a.Category)

	_, ok = FindArticle("art-999")
	assert.False(t, ok)
}

func TestListNotesByLevel(t *testing.T) {
	assert.Len(t, ListNotes(0), 3)

	got := ListNotes(200)
	assert.Len(t, got, 1)
	assert.Equal(t, "note-002", got[0].ID)
	assert.Zero(t, got[0].Price)
}

func TestFindNote(t *testing.T) {
	n, ok := FindNote("note-001")
	assert.True(t, ok)
	assert.Equal(t, 1000, n.Price)

	_, ok = FindNote("note-404")
	assert.False(t, ok)
}

func TestListCasesReturnsCopy(t *testing.T) {
	first := ListCases()
	assert.Len(t, first, 3)

	first[0].Title = "mutated"
	again := ListCases()
	assert.NotEqual(t, "mutated", again[0].Title)
}

func TestFindCase(t *testing.T) {
	c, ok := FindCase("case-NG-2024-001")
	assert.True(t, ok)
	assert.NotEmpty(t, c.Evidence)

	_, ok = FindCase("case-XX")
	assert.False(t, ok)
}
