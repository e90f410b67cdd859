package serializers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/blog/internal/models"
)

func samplePost() models.Post {
	return models.Post{
		ID:            7,
		Title:         "Hello",
		Text:          "Short body",
		Slug:          "hello",
		PublishedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Image:         "posts/hello.png",
		AuthorID:      2,
		AuthorName:    "alice",
		CommentsCount: 4,
		LikesCount:    9,
		Tags: []models.Tag{
			{ID: 1, Title: "go", PostsCount: 12},
			{ID: 3, Title: "web", PostsCount: 2},
		},
	}
}

func TestTeaser_Length(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short", "hello", 5},
		{"exactly limit", strings.Repeat("a", TeaserLength), TeaserLength},
		{"over limit", strings.Repeat("a", 1000), TeaserLength},
		{"multibyte over limit", strings.Repeat("ж", 350), TeaserLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Teaser(tt.text)
			assert.Equal(t, tt.want, utf8.RuneCountInString(got))
			assert.True(t, utf8.ValidString(got))
			assert.True(t, strings.HasPrefix(tt.text, got))
		})
	}
}

func TestImageURL(t *testing.T) {
	assert.Nil(t, ImageURL("/media/", ""))

	got := ImageURL("/media/", "posts/a.png")
	require.NotNil(t, got)
	assert.Equal(t, "/media/posts/a.png", *got)

	got = ImageURL("https://cdn.example.com", "/posts/a.png")
	require.NotNil(t, got)
	assert.Equal(t, "https://cdn.example.com/posts/a.png", *got)

	got = ImageURL("/media/", "https://img.example.com/a.png")
	require.NotNil(t, got)
	assert.Equal(t, "https://img.example.com/a.png", *got)
}

func TestSerializer_Post(t *testing.T) {
	s := New("/media/")

	teaser, err := s.Post(samplePost())
	require.NoError(t, err)

	assert.Equal(t, "Hello", teaser.Title)
	assert.Equal(t, "alice", teaser.Author)
	assert.Equal(t, 4, teaser.CommentsAmount)
	assert.Equal(t, "go", teaser.FirstTagTitle)
	require.NotNil(t, teaser.ImageURL)
	assert.Equal(t, "/media/posts/hello.png", *teaser.ImageURL)
	assert.Equal(t, []TagSummary{{"go", 12}, {"web", 2}}, teaser.Tags)
}

func TestSerializer_Post_FirstTagBelongsToPost(t *testing.T) {
	s := New("/media/")
	post := samplePost()

	teaser, err := s.Post(post)
	require.NoError(t, err)

	var titles []string
	for _, tag := range post.Tags {
		titles = append(titles, tag.Title)
	}
	assert.Contains(t, titles, teaser.FirstTagTitle)
}

func TestSerializer_Post_NoTagsFails(t *testing.T) {
	s := New("/media/")
	post := samplePost()
	post.Tags = nil

	_, err := s.Post(post)
	assert.ErrorIs(t, err, ErrPostHasNoTags)

	_, err = s.Posts([]models.Post{samplePost(), post})
	assert.ErrorIs(t, err, ErrPostHasNoTags)
}

func TestSerializer_PostDetail(t *testing.T) {
	s := New("/media/")
	post := samplePost()
	post.Image = ""
	post.Tags = nil

	detail := s.PostDetail(post, []models.Comment{
		{Text: "first!", AuthorName: "bob", PublishedAt: post.PublishedAt.Add(time.Hour)},
	})

	assert.Equal(t, "Short body", detail.Text)
	assert.Equal(t, 9, detail.LikesAmount)
	assert.Nil(t, detail.ImageURL)
	assert.Empty(t, detail.Tags)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "bob", detail.Comments[0].Author)
}

type fakeLoader struct {
	users    map[int64]string
	tags     map[int64][]models.Tag
	comments map[int64]int
	counts   map[int64]int
	calls    int
	err      error
}

func (f *fakeLoader) Username(ctx context.Context, userID int64) (string, error) {
	f.calls++
	return f.users[userID], f.err
}

func (f *fakeLoader) CountComments(ctx context.Context, postID int64) (int, error) {
	f.calls++
	return f.comments[postID], f.err
}

func (f *fakeLoader) PostTags(ctx context.Context, postID int64) ([]models.Tag, error) {
	f.calls++
	return f.tags[postID], f.err
}

func (f *fakeLoader) CountPostsWithTag(ctx context.Context, tagID int64) (int, error) {
	f.calls++
	return f.counts[tagID], f.err
}

func TestNaiveSerializer_MatchesOptimized(t *testing.T) {
	post := samplePost()
	loader := &fakeLoader{
		users:    map[int64]string{2: "alice"},
		tags:     map[int64][]models.Tag{7: {{ID: 1, Title: "go"}, {ID: 3, Title: "web"}}},
		comments: map[int64]int{7: 4},
		counts:   map[int64]int{1: 12, 3: 2},
	}

	bare := post
	bare.Tags = nil
	bare.CommentsCount = 0
	bare.AuthorName = ""

	naive, err := NewNaive("/media/", loader).Post(context.Background(), bare)
	require.NoError(t, err)

	optimized, err := New("/media/").Post(post)
	require.NoError(t, err)

	assert.Equal(t, optimized, naive)
	// author + tags + comments + one count per tag
	assert.Equal(t, 5, loader.calls)
}

func TestNaiveSerializer_NoTagsFails(t *testing.T) {
	loader := &fakeLoader{}

	_, err := NewNaive("/media/", loader).Posts(context.Background(), []models.Post{samplePost()})
	assert.ErrorIs(t, err, ErrPostHasNoTags)
}

func TestNaiveSerializer_LoaderError(t *testing.T) {
	boom := errors.New("db down")
	loader := &fakeLoader{err: boom}

	_, err := NewNaive("/media/", loader).Post(context.Background(), samplePost())
	assert.ErrorIs(t, err, boom)
}
