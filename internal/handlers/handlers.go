package handlers

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/lehmann314159/blog/internal/logger"
	"github.com/lehmann314159/blog/internal/models"
	"github.com/lehmann314159/blog/internal/repository"
)

// Store is the read side of the repository the pages need.
type Store interface {
	Ping(ctx context.Context) error
	PopularPosts(ctx context.Context, limit int) ([]models.Post, error)
	FreshPosts(ctx context.Context, limit int) ([]models.Post, error)
	PostsByTag(ctx context.Context, tagID int64, limit int) ([]models.Post, error)
	PostsByYear(ctx context.Context, year int) ([]models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	CommentsForPost(ctx context.Context, postID int64) ([]models.Comment, error)
	PopularTags(ctx context.Context, limit int) ([]models.Tag, error)
	GetTagByTitle(ctx context.Context, title string) (*models.Tag, error)
}

var _ Store = (*repository.Repository)(nil)

// render executes the named page into a buffer so a template failure can
// still produce a clean 500.
func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, name string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// fail maps a lookup or serialization error to a response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		notFound(w, r)
		return
	}
	serverError(w, r, err)
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Err(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	logger.Debug("not found", logger.String("path", r.URL.Path))
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
