package handlers

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/lehmann314159/blog/internal/repository"
	"github.com/lehmann314159/blog/internal/serializers"
)

type sidebarData struct {
	popularPosts []serializers.PostTeaser
	popularTags  []serializers.TagSummary
}

// Sidebar loads the popular posts and popular tags shown next to every
// listing. Concurrent loads share one pair of queries; nothing is kept once
// the shared call returns.
type Sidebar struct {
	store Store
	ser   *serializers.Serializer
	group singleflight.Group
}

func NewSidebar(store Store, ser *serializers.Serializer) *Sidebar {
	return &Sidebar{store: store, ser: ser}
}

func (s *Sidebar) load(ctx context.Context) (*sidebarData, error) {
	// One caller going away must not fail the others waiting on the call.
	shared := context.WithoutCancel(ctx)

	v, err, _ := s.group.Do("sidebar", func() (interface{}, error) {
		posts, err := s.store.PopularPosts(shared, repository.PopularPostsLimit)
		if err != nil {
			return nil, err
		}
		teasers, err := s.ser.Posts(posts)
		if err != nil {
			return nil, err
		}
		tags, err := s.store.PopularTags(shared, repository.PopularTagsLimit)
		if err != nil {
			return nil, err
		}
		return &sidebarData{popularPosts: teasers, popularTags: s.ser.Tags(tags)}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sidebarData), nil
}

// fill adds the sidebar keys to a page context.
func (s *Sidebar) fill(ctx context.Context, data map[string]interface{}) error {
	sb, err := s.load(ctx)
	if err != nil {
		return err
	}
	data["most_popular_posts"] = sb.popularPosts
	data["popular_tags"] = sb.popularTags
	return nil
}
