package repository

// PostOrder selects the ordering of a post listing.
type PostOrder int

const (
	OrderByPublishedDesc PostOrder = iota
	OrderByPublishedAsc
	OrderByLikes
)

func (o PostOrder) clause() string {
	switch o {
	case OrderByLikes:
		return "likes_count DESC, p.id ASC"
	case OrderByPublishedAsc:
		return "p.published_at ASC, p.id ASC"
	default:
		return "p.published_at DESC, p.id DESC"
	}
}

// PostQuery describes a post listing. Zero-valued filters are ignored and a
// zero Limit returns every match.
type PostQuery struct {
	Order PostOrder
	Limit int
	TagID int64
	Year  int
}

// Listing sizes used by the pages.
const (
	PopularPostsLimit = 5
	FreshPostsLimit   = 5
	PopularTagsLimit  = 5
	TagPostsLimit     = 20
)
