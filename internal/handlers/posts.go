package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/lehmann314159/blog/internal/serializers"
)

type PostHandler struct {
	store   Store
	sidebar *Sidebar
	ser     *serializers.Serializer
	tmpl    *template.Template
}

func NewPostHandler(store Store, sidebar *Sidebar, ser *serializers.Serializer, tmpl *template.Template) *PostHandler {
	return &PostHandler{store: store, sidebar: sidebar, ser: ser, tmpl: tmpl}
}

func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPostBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		fail(w, r, err)
		return
	}

	comments, err := h.store.CommentsForPost(r.Context(), post.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"post": h.ser.PostDetail(*post, comments),
	}
	if err := h.sidebar.fill(r.Context(), data); err != nil {
		serverError(w, r, err)
		return
	}

	render(w, r, h.tmpl, "post-details.html", data)
}

// Archive lists everything published in one calendar year.
func (h *PostHandler) Archive(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 || year > 9999 {
		notFound(w, r)
		return
	}

	posts, err := h.store.PostsByYear(r.Context(), year)
	if err != nil {
		serverError(w, r, err)
		return
	}

	teasers, err := h.ser.Posts(posts)
	if err != nil {
		serverError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"year":  year,
		"posts": teasers,
	}
	if err := h.sidebar.fill(r.Context(), data); err != nil {
		serverError(w, r, err)
		return
	}

	render(w, r, h.tmpl, "archive.html", data)
}
