package handlers

import (
	"html/template"
	"net/http"

	"github.com/lehmann314159/blog/internal/serializers"
)

type RouterConfig struct {
	MediaURL  string
	MediaDir  string
	StaticDir string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// NewRouter wires the page handlers onto a ServeMux.
func NewRouter(store Store, tmpl *template.Template, cfg RouterConfig) *http.ServeMux {
	ser := serializers.New(cfg.MediaURL)
	sidebar := NewSidebar(store, ser)

	homeHandler := NewHomeHandler(store, sidebar, ser, tmpl)
	postHandler := NewPostHandler(store, sidebar, ser, tmpl)
	tagHandler := NewTagHandler(store, sidebar, ser, tmpl)

	mux := http.NewServeMux()

	// Static files
	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}
	if cfg.MediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	}

	// Pages
	mux.HandleFunc("GET /{$}", homeHandler.Index)
	mux.HandleFunc("GET /contacts/{$}", homeHandler.Contacts)
	mux.HandleFunc("GET /posts/{slug}/{$}", postHandler.Detail)
	mux.HandleFunc("GET /archive/{year}/{$}", postHandler.Archive)
	mux.HandleFunc("GET /tags/{title}/{$}", tagHandler.Filter)

	// Operations
	mux.HandleFunc("GET /healthz", homeHandler.Health)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return mux
}
