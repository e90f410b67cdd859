package models

import "time"

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
}

type Post struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Text        string    `db:"text"`
	Slug        string    `db:"slug"`
	PublishedAt time.Time `db:"published_at"`
	Image       string    `db:"image"` // relative to the media root, empty when absent
	AuthorID    int64     `db:"author_id"`

	AuthorName    string `db:"author_name"`    // computed field
	CommentsCount int    `db:"comments_count"` // computed field
	LikesCount    int    `db:"likes_count"`    // computed field
	Tags          []Tag  `db:"-"`              // computed field - prefetched
}

type Tag struct {
	ID         int64  `db:"id"`
	Title      string `db:"title"`
	PostsCount int    `db:"posts_count"` // computed field
}

type Comment struct {
	ID          int64     `db:"id"`
	PostID      int64     `db:"post_id"`
	AuthorID    int64     `db:"author_id"`
	Text        string    `db:"text"`
	PublishedAt time.Time `db:"published_at"`

	AuthorName string `db:"author_name"` // computed field
}

type Stats struct {
	PostCount    int `db:"post_count"`
	TagCount     int `db:"tag_count"`
	CommentCount int `db:"comment_count"`
}
