package handlers

import (
	"html/template"
	"net/http"

	"github.com/lehmann314159/blog/internal/repository"
	"github.com/lehmann314159/blog/internal/serializers"
)

type TagHandler struct {
	store   Store
	sidebar *Sidebar
	ser     *serializers.Serializer
	tmpl    *template.Template
}

func NewTagHandler(store Store, sidebar *Sidebar, ser *serializers.Serializer, tmpl *template.Template) *TagHandler {
	return &TagHandler{store: store, sidebar: sidebar, ser: ser, tmpl: tmpl}
}

// Filter lists the posts carrying one tag.
func (h *TagHandler) Filter(w http.ResponseWriter, r *http.Request) {
	tag, err := h.store.GetTagByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		fail(w, r, err)
		return
	}

	data := map[string]interface{}{}
	if err := h.sidebar.fill(r.Context(), data); err != nil {
		serverError(w, r, err)
		return
	}

	posts, err := h.store.PostsByTag(r.Context(), tag.ID, repository.TagPostsLimit)
	if err != nil {
		serverError(w, r, err)
		return
	}

	teasers, err := h.ser.Posts(posts)
	if err != nil {
		serverError(w, r, err)
		return
	}

	data["tag"] = tag.Title
	data["posts"] = teasers

	render(w, r, h.tmpl, "posts-list.html", data)
}
