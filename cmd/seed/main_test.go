package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/blog/internal/config"
	"github.com/lehmann314159/blog/internal/database"
	"github.com/lehmann314159/blog/internal/repository"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(content, []byte(`
posts:
  - title: Hello
    slug: hello
    text: Hi there.
    published_at: 2024-01-01T00:00:00Z
    author: alice
    tags: [intro]
`), 0o644))

	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite3", DataDir: dir}}
	require.NoError(t, run(context.Background(), cfg, content))

	db, err := database.New(&cfg.Database)
	require.NoError(t, err)
	defer db.Close()

	post, err := repository.New(db).GetPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "alice", post.AuthorName)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "intro", post.Tags[0].Title)
}

func TestRun_MissingFile(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite3", DataDir: t.TempDir()}}
	assert.Error(t, run(context.Background(), cfg, filepath.Join(t.TempDir(), "nope.yaml")))
}
