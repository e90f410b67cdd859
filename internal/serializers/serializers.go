// Package serializers turns loaded rows into the flat records the page
// templates render.
package serializers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lehmann314159/blog/internal/models"
)

// TeaserLength is the maximum number of characters kept in a teaser.
const TeaserLength = 200

// ErrPostHasNoTags is returned when a teaser is built for a post without
// tags; FirstTagTitle has nothing to point at.
var ErrPostHasNoTags = errors.New("post has no tags")

type TagSummary struct {
	Title        string `json:"title"`
	PostsWithTag int    `json:"posts_with_tag"`
}

type PostTeaser struct {
	Title          string       `json:"title"`
	TeaserText     string       `json:"teaser_text"`
	Author         string       `json:"author"`
	CommentsAmount int          `json:"comments_amount"`
	ImageURL       *string      `json:"image_url"`
	PublishedAt    time.Time    `json:"published_at"`
	Slug           string       `json:"slug"`
	Tags           []TagSummary `json:"tags"`
	FirstTagTitle  string       `json:"first_tag_title"`
}

type CommentView struct {
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"published_at"`
	Author      string    `json:"author"`
}

type PostDetail struct {
	Title       string        `json:"title"`
	Text        string        `json:"text"`
	Author      string        `json:"author"`
	Comments    []CommentView `json:"comments"`
	LikesAmount int           `json:"likes_amount"`
	ImageURL    *string       `json:"image_url"`
	PublishedAt time.Time     `json:"published_at"`
	Slug        string        `json:"slug"`
	Tags        []TagSummary  `json:"tags"`
}

// Serializer builds records from rows that already carry their counts and
// tags, so it never touches the database.
type Serializer struct {
	MediaURL string
}

func New(mediaURL string) *Serializer {
	return &Serializer{MediaURL: mediaURL}
}

func (s *Serializer) Tag(t models.Tag) TagSummary {
	return TagSummary{Title: t.Title, PostsWithTag: t.PostsCount}
}

func (s *Serializer) Tags(tags []models.Tag) []TagSummary {
	out := make([]TagSummary, 0, len(tags))
	for _, t := range tags {
		out = append(out, s.Tag(t))
	}
	return out
}

func (s *Serializer) Post(p models.Post) (PostTeaser, error) {
	if len(p.Tags) == 0 {
		return PostTeaser{}, fmt.Errorf("serialize post %q: %w", p.Slug, ErrPostHasNoTags)
	}
	return PostTeaser{
		Title:          p.Title,
		TeaserText:     Teaser(p.Text),
		Author:         p.AuthorName,
		CommentsAmount: p.CommentsCount,
		ImageURL:       ImageURL(s.MediaURL, p.Image),
		PublishedAt:    p.PublishedAt,
		Slug:           p.Slug,
		Tags:           s.Tags(p.Tags),
		FirstTagTitle:  p.Tags[0].Title,
	}, nil
}

func (s *Serializer) Posts(posts []models.Post) ([]PostTeaser, error) {
	out := make([]PostTeaser, 0, len(posts))
	for _, p := range posts {
		teaser, err := s.Post(p)
		if err != nil {
			return nil, err
		}
		out = append(out, teaser)
	}
	return out, nil
}

func (s *Serializer) Comment(c models.Comment) CommentView {
	return CommentView{
		Text:        c.Text,
		PublishedAt: c.PublishedAt,
		Author:      c.AuthorName,
	}
}

// PostDetail does not need a tag, unlike Post.
func (s *Serializer) PostDetail(p models.Post, comments []models.Comment) PostDetail {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, s.Comment(c))
	}
	return PostDetail{
		Title:       p.Title,
		Text:        p.Text,
		Author:      p.AuthorName,
		Comments:    views,
		LikesAmount: p.LikesCount,
		ImageURL:    ImageURL(s.MediaURL, p.Image),
		PublishedAt: p.PublishedAt,
		Slug:        p.Slug,
		Tags:        s.Tags(p.Tags),
	}
}

// Teaser returns the first TeaserLength characters of text.
func Teaser(text string) string {
	runes := []rune(text)
	if len(runes) <= TeaserLength {
		return text
	}
	return string(runes[:TeaserLength])
}

// ImageURL resolves a stored image path against the media URL. Absolute
// URLs are returned as they are.
func ImageURL(mediaURL, image string) *string {
	if image == "" {
		return nil
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return &image
	}
	url := strings.TrimSuffix(mediaURL, "/") + "/" + strings.TrimPrefix(image, "/")
	return &url
}
