package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lehmann314159/blog/internal/models"
)

// ErrNotFound is returned when a lookup by slug or title matches no row.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Posts

const postSelect = `
	SELECT p.id, p.title, p.text, p.slug, p.published_at,
	       COALESCE(p.image, '') AS image, p.author_id,
	       u.username AS author_name,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS likes_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

// ListPosts returns posts matching q with author, comment and like counts
// and their tags (each with its post count) already loaded. It issues two
// queries regardless of how many posts are returned.
func (r *Repository) ListPosts(ctx context.Context, q PostQuery) ([]models.Post, error) {
	query := postSelect
	args := []interface{}{}
	conditions := []string{}

	if q.TagID != 0 {
		query += ` JOIN post_tags pt ON pt.post_id = p.id`
		conditions = append(conditions, "pt.tag_id = ?")
		args = append(args, q.TagID)
	}
	if q.Year != 0 {
		from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		conditions = append(conditions, "p.published_at >= ? AND p.published_at < ?")
		args = append(args, from, from.AddDate(1, 0, 0))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + q.Order.clause()
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := r.prefetchTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *Repository) PopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return r.ListPosts(ctx, PostQuery{Order: OrderByLikes, Limit: limit})
}

func (r *Repository) FreshPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return r.ListPosts(ctx, PostQuery{Order: OrderByPublishedDesc, Limit: limit})
}

func (r *Repository) PostsByTag(ctx context.Context, tagID int64, limit int) ([]models.Post, error) {
	return r.ListPosts(ctx, PostQuery{Order: OrderByPublishedDesc, TagID: tagID, Limit: limit})
}

// PostsByYear returns every post published in the given year, oldest first.
func (r *Repository) PostsByYear(ctx context.Context, year int) ([]models.Post, error) {
	return r.ListPosts(ctx, PostQuery{Order: OrderByPublishedAsc, Year: year})
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := r.db.GetContext(ctx, &p, r.db.Rebind(postSelect+` WHERE p.slug = ?`), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get post %q: %w", slug, err)
	}

	posts := []models.Post{p}
	if err := r.prefetchTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

type postTag struct {
	PostID int64 `db:"post_id"`
	models.Tag
}

// prefetchTags loads the tags of all posts in one query and attaches them in
// tag id order.
func (r *Repository) prefetchTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int64][]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = append(index[p.ID], i)
	}

	query, args, err := sqlx.In(`
		SELECT pt.post_id, t.id, t.title,
		       (SELECT COUNT(*) FROM post_tags x WHERE x.tag_id = t.id) AS posts_count
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (?)
		ORDER BY pt.post_id, t.id
	`, ids)
	if err != nil {
		return fmt.Errorf("prefetch tags: %w", err)
	}

	var rows []postTag
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("prefetch tags: %w", err)
	}

	for _, row := range rows {
		for _, i := range index[row.PostID] {
			posts[i].Tags = append(posts[i].Tags, row.Tag)
		}
	}
	return nil
}

// CreatePost inserts p and returns its id. PublishedAt is stored in UTC with
// second precision so that text comparisons on sqlite order correctly.
func (r *Repository) CreatePost(ctx context.Context, p *models.Post) (int64, error) {
	published := p.PublishedAt
	if published.IsZero() {
		published = time.Now()
	}
	published = published.UTC().Truncate(time.Second)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO posts (title, text, slug, published_at, image, author_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`), p.Title, p.Text, p.Slug, published, nullString(p.Image), p.AuthorID)
	if err != nil {
		return 0, fmt.Errorf("create post %q: %w", p.Slug, err)
	}
	return result.LastInsertId()
}

// SetPostTags replaces the tags attached to a post.
func (r *Repository) SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_tags WHERE post_id = ?`), postID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`), postID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddLike records that a user likes a post. Liking twice is a no-op.
func (r *Repository) AddLike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(r.insertIgnore()+` INTO post_likes (post_id, user_id) VALUES (?, ?)`), postID, userID)
	return err
}

// Username, CountComments, PostTags and CountPostsWithTag issue one query
// per call. The naive serializer uses them to load what ListPosts would have
// annotated.

func (r *Repository) Username(ctx context.Context, userID int64) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, r.db.Rebind(`SELECT username FROM users WHERE id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

func (r *Repository) CountComments(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM comments WHERE post_id = ?`), postID)
	return n, err
}

func (r *Repository) PostTags(ctx context.Context, postID int64) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.SelectContext(ctx, &tags, r.db.Rebind(`
		SELECT t.id, t.title FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ?
		ORDER BY t.id
	`), postID)
	return tags, err
}

func (r *Repository) CountPostsWithTag(ctx context.Context, tagID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM post_tags WHERE tag_id = ?`), tagID)
	return n, err
}

// Tags

const tagSelect = `
	SELECT t.id, t.title,
	       (SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id) AS posts_count
	FROM tags t
`

func (r *Repository) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.SelectContext(ctx, &tags, r.db.Rebind(tagSelect+`
		ORDER BY posts_count DESC, t.title ASC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	return tags, nil
}

func (r *Repository) GetTagByTitle(ctx context.Context, title string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.GetContext(ctx, &t, r.db.Rebind(tagSelect+` WHERE t.title = ?`), title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("get tag %q: %w", title, err)
	}
	return &t, nil
}

func (r *Repository) CreateTag(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO tags (title) VALUES (?)`), title)
	if err != nil {
		return 0, fmt.Errorf("create tag %q: %w", title, err)
	}
	return result.LastInsertId()
}

func (r *Repository) GetOrCreateTag(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM tags WHERE title = ?`), title)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return r.CreateTag(ctx, title)
}

// Comments

func (r *Repository) CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments, r.db.Rebind(`
		SELECT c.id, c.post_id, c.author_id, c.text, c.published_at,
		       u.username AS author_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.published_at, c.id
	`), postID)
	if err != nil {
		return nil, fmt.Errorf("comments for post %d: %w", postID, err)
	}
	return comments, nil
}

func (r *Repository) CreateComment(ctx context.Context, c *models.Comment) (int64, error) {
	published := c.PublishedAt
	if published.IsZero() {
		published = time.Now()
	}
	published = published.UTC().Truncate(time.Second)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO comments (post_id, author_id, text, published_at) VALUES (?, ?, ?, ?)
	`), c.PostID, c.AuthorID, c.Text, published)
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return result.LastInsertId()
}

// Users

func (r *Repository) CreateUser(ctx context.Context, username string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO users (username) VALUES (?)`), username)
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", username, err)
	}
	return result.LastInsertId()
}

func (r *Repository) GetOrCreateUser(ctx context.Context, username string) (int64, error) {
	username = strings.TrimSpace(username)
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM users WHERE username = ?`), username)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return r.CreateUser(ctx, username)
}

// Stats

func (r *Repository) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := r.db.GetContext(ctx, &stats, `
		SELECT (SELECT COUNT(*) FROM posts) AS post_count,
		       (SELECT COUNT(*) FROM tags) AS tag_count,
		       (SELECT COUNT(*) FROM comments) AS comment_count
	`)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &stats, nil
}

func (r *Repository) insertIgnore() string {
	if r.db.DriverName() == "mysql" {
		return "INSERT IGNORE"
	}
	return "INSERT OR IGNORE"
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
