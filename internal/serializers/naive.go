package serializers

import (
	"context"
	"fmt"

	"github.com/lehmann314159/blog/internal/models"
)

// Loader fetches, one row at a time, what the optimized queries annotate.
type Loader interface {
	Username(ctx context.Context, userID int64) (string, error)
	CountComments(ctx context.Context, postID int64) (int, error)
	PostTags(ctx context.Context, postID int64) ([]models.Tag, error)
	CountPostsWithTag(ctx context.Context, tagID int64) (int, error)
}

// NaiveSerializer produces the same records as Serializer from bare rows,
// issuing 3+T queries per post where T is the number of its tags.
type NaiveSerializer struct {
	*Serializer
	Loader Loader
}

func NewNaive(mediaURL string, loader Loader) *NaiveSerializer {
	return &NaiveSerializer{Serializer: New(mediaURL), Loader: loader}
}

func (s *NaiveSerializer) Tag(ctx context.Context, t models.Tag) (TagSummary, error) {
	n, err := s.Loader.CountPostsWithTag(ctx, t.ID)
	if err != nil {
		return TagSummary{}, fmt.Errorf("count posts with tag %q: %w", t.Title, err)
	}
	return TagSummary{Title: t.Title, PostsWithTag: n}, nil
}

func (s *NaiveSerializer) Post(ctx context.Context, p models.Post) (PostTeaser, error) {
	author, err := s.Loader.Username(ctx, p.AuthorID)
	if err != nil {
		return PostTeaser{}, fmt.Errorf("load author of %q: %w", p.Slug, err)
	}
	tags, err := s.Loader.PostTags(ctx, p.ID)
	if err != nil {
		return PostTeaser{}, fmt.Errorf("load tags of %q: %w", p.Slug, err)
	}
	comments, err := s.Loader.CountComments(ctx, p.ID)
	if err != nil {
		return PostTeaser{}, fmt.Errorf("count comments of %q: %w", p.Slug, err)
	}

	summaries := make([]TagSummary, 0, len(tags))
	for _, t := range tags {
		summary, err := s.Tag(ctx, t)
		if err != nil {
			return PostTeaser{}, err
		}
		summaries = append(summaries, summary)
	}

	if len(tags) == 0 {
		return PostTeaser{}, fmt.Errorf("serialize post %q: %w", p.Slug, ErrPostHasNoTags)
	}

	return PostTeaser{
		Title:          p.Title,
		TeaserText:     Teaser(p.Text),
		Author:         author,
		CommentsAmount: comments,
		ImageURL:       ImageURL(s.MediaURL, p.Image),
		PublishedAt:    p.PublishedAt,
		Slug:           p.Slug,
		Tags:           summaries,
		FirstTagTitle:  tags[0].Title,
	}, nil
}

func (s *NaiveSerializer) Posts(ctx context.Context, posts []models.Post) ([]PostTeaser, error) {
	out := make([]PostTeaser, 0, len(posts))
	for _, p := range posts {
		teaser, err := s.Post(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, teaser)
	}
	return out, nil
}
