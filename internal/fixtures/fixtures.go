// Package fixtures loads blog content described in YAML into the database.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/lehmann314159/blog/internal/models"
)

type Fixture struct {
	Users []string `yaml:"users"`
	Tags  []string `yaml:"tags"`
	Posts []Post   `yaml:"posts"`
}

type Post struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Text        string    `yaml:"text"`
	PublishedAt time.Time `yaml:"published_at"`
	Image       string    `yaml:"image"`
	Author      string    `yaml:"author"`
	Tags        []string  `yaml:"tags"`
	Likes       []string  `yaml:"likes"`
	Comments    []Comment `yaml:"comments"`
}

type Comment struct {
	Author      string    `yaml:"author"`
	Text        string    `yaml:"text"`
	PublishedAt time.Time `yaml:"published_at"`
}

// Writer is the subset of the repository used to store a fixture.
type Writer interface {
	GetOrCreateUser(ctx context.Context, username string) (int64, error)
	GetOrCreateTag(ctx context.Context, title string) (int64, error)
	CreatePost(ctx context.Context, p *models.Post) (int64, error)
	SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error
	AddLike(ctx context.Context, postID, userID int64) error
	CreateComment(ctx context.Context, c *models.Comment) (int64, error)
}

type Summary struct {
	Users    int
	Tags     int
	Posts    int
	Comments int
}

func Decode(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) Validate() error {
	seen := make(map[string]bool, len(f.Posts))
	for i, p := range f.Posts {
		switch {
		case p.Slug == "":
			return fmt.Errorf("post %d: slug is required", i)
		case p.Title == "":
			return fmt.Errorf("post %q: title is required", p.Slug)
		case p.Author == "":
			return fmt.Errorf("post %q: author is required", p.Slug)
		case seen[p.Slug]:
			return fmt.Errorf("post %q: duplicate slug", p.Slug)
		}
		seen[p.Slug] = true
		for j, c := range p.Comments {
			if c.Author == "" || c.Text == "" {
				return fmt.Errorf("post %q comment %d: author and text are required", p.Slug, j)
			}
		}
	}
	return nil
}

// Apply stores f through w. Users and tags referenced by posts are created
// on first use; existing ones are reused.
func Apply(ctx context.Context, w Writer, f *Fixture) (*Summary, error) {
	users := map[string]int64{}
	tags := map[string]int64{}
	summary := &Summary{}

	user := func(name string) (int64, error) {
		if id, ok := users[name]; ok {
			return id, nil
		}
		id, err := w.GetOrCreateUser(ctx, name)
		if err != nil {
			return 0, err
		}
		users[name] = id
		summary.Users++
		return id, nil
	}
	tag := func(title string) (int64, error) {
		if id, ok := tags[title]; ok {
			return id, nil
		}
		id, err := w.GetOrCreateTag(ctx, title)
		if err != nil {
			return 0, err
		}
		tags[title] = id
		summary.Tags++
		return id, nil
	}

	for _, name := range f.Users {
		if _, err := user(name); err != nil {
			return nil, err
		}
	}
	for _, title := range f.Tags {
		if _, err := tag(title); err != nil {
			return nil, err
		}
	}

	for _, p := range f.Posts {
		authorID, err := user(p.Author)
		if err != nil {
			return nil, err
		}

		postID, err := w.CreatePost(ctx, &models.Post{
			Title:       p.Title,
			Text:        p.Text,
			Slug:        p.Slug,
			PublishedAt: p.PublishedAt,
			Image:       p.Image,
			AuthorID:    authorID,
		})
		if err != nil {
			return nil, err
		}
		summary.Posts++

		tagIDs := make([]int64, 0, len(p.Tags))
		for _, title := range p.Tags {
			id, err := tag(title)
			if err != nil {
				return nil, err
			}
			tagIDs = append(tagIDs, id)
		}
		if err := w.SetPostTags(ctx, postID, tagIDs); err != nil {
			return nil, fmt.Errorf("tag post %q: %w", p.Slug, err)
		}

		for _, name := range p.Likes {
			uid, err := user(name)
			if err != nil {
				return nil, err
			}
			if err := w.AddLike(ctx, postID, uid); err != nil {
				return nil, fmt.Errorf("like post %q: %w", p.Slug, err)
			}
		}

		for _, c := range p.Comments {
			uid, err := user(c.Author)
			if err != nil {
				return nil, err
			}
			if _, err := w.CreateComment(ctx, &models.Comment{
				PostID:      postID,
				AuthorID:    uid,
				Text:        c.Text,
				PublishedAt: c.PublishedAt,
			}); err != nil {
				return nil, err
			}
			summary.Comments++
		}
	}

	return summary, nil
}
