package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lehmann314159/blog/internal/config"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    username TEXT NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    text TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    published_at DATETIME NOT NULL,
    image TEXT,
    author_id INTEGER NOT NULL REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY(post_id, tag_id)
)`,
	`CREATE TABLE IF NOT EXISTS post_likes (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    PRIMARY KEY(post_id, user_id)
)`,
	`CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY,
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    author_id INTEGER NOT NULL REFERENCES users(id),
    text TEXT NOT NULL,
    published_at DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_post_tags_tag ON post_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_post_likes_post ON post_likes(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(150) NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS posts (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    text LONGTEXT NOT NULL,
    slug VARCHAR(200) NOT NULL UNIQUE,
    published_at DATETIME NOT NULL,
    image VARCHAR(255) NULL,
    author_id BIGINT NOT NULL,
    INDEX idx_posts_published (published_at),
    FOREIGN KEY (author_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS tags (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(40) NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
    post_id BIGINT NOT NULL,
    tag_id BIGINT NOT NULL,
    PRIMARY KEY (post_id, tag_id),
    INDEX idx_post_tags_tag (tag_id),
    FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
    FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS post_likes (
    post_id BIGINT NOT NULL,
    user_id BIGINT NOT NULL,
    PRIMARY KEY (post_id, user_id),
    FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS comments (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    post_id BIGINT NOT NULL,
    author_id BIGINT NOT NULL,
    text LONGTEXT NOT NULL,
    published_at DATETIME NOT NULL,
    INDEX idx_comments_post (post_id),
    FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
    FOREIGN KEY (author_id) REFERENCES users(id)
)`,
}

// New opens the configured database, applies the connection pool limits and
// creates the schema if it does not exist yet.
func New(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		dsn    string
		schema []string
	)

	switch cfg.Driver {
	case "sqlite3":
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "./data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = cfg.DSN
		if dsn == "" {
			dsn = filepath.Join(dataDir, "blog.db") + "?_foreign_keys=on"
		}
		schema = sqliteSchema
	case "mysql":
		dsn = cfg.DSN
		schema = mysqlSchema
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	if err := Migrate(db, schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs each schema statement separately; the mysql driver rejects
// multi-statement Exec calls unless multiStatements is set on the DSN.
func Migrate(db *sqlx.DB, schema []string) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

