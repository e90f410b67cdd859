package handlers

import (
	"html/template"
	"net/http"

	"github.com/lehmann314159/blog/internal/repository"
	"github.com/lehmann314159/blog/internal/serializers"
)

type HomeHandler struct {
	store   Store
	sidebar *Sidebar
	ser     *serializers.Serializer
	tmpl    *template.Template
}

func NewHomeHandler(store Store, sidebar *Sidebar, ser *serializers.Serializer, tmpl *template.Template) *HomeHandler {
	return &HomeHandler{store: store, sidebar: sidebar, ser: ser, tmpl: tmpl}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.FreshPosts(r.Context(), repository.FreshPostsLimit)
	if err != nil {
		serverError(w, r, err)
		return
	}

	pagePosts, err := h.ser.Posts(posts)
	if err != nil {
		serverError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"page_posts": pagePosts,
	}
	if err := h.sidebar.fill(r.Context(), data); err != nil {
		serverError(w, r, err)
		return
	}

	render(w, r, h.tmpl, "index.html", data)
}

func (h *HomeHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "contacts.html", map[string]interface{}{})
}

// Health reports whether the database answers.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
