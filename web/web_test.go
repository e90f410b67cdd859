package web

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/blog/internal/serializers"
)

func TestTemplates_ParsesAllPages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "post-details.html", "posts-list.html", "archive.html", "contacts.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestParagraphs(t *testing.T) {
	got := paragraphs("one\r\n\r\ntwo <b>\n\n\n")
	assert.Equal(t, "<p>one</p>\n<p>two &lt;b&gt;</p>\n", string(got))
}

func TestNumber(t *testing.T) {
	number := funcs["number"].(func(int) string)
	assert.Equal(t, "12,345", number(12345))
	assert.Equal(t, "7", number(7))
}

func TestPostCard_ShowsTeaserAsIs(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var b strings.Builder
	err = tmpl.ExecuteTemplate(&b, "post-card", serializers.PostTeaser{
		Title:         "Short",
		TeaserText:    serializers.Teaser("Fits in full."),
		Author:        "alice",
		PublishedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Slug:          "short",
		Tags:          []serializers.TagSummary{{Title: "go", PostsWithTag: 1}},
		FirstTagTitle: "go",
	})
	require.NoError(t, err)

	assert.Contains(t, b.String(), "<p>Fits in full.</p>")
	assert.NotContains(t, b.String(), "…")
}
