package types

import "time"

// Content status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Content represents an article managed by the CMS.
type Content struct {
	// ID is the unique identifier of the article.
	ID string `json:"id"`

	// Title is the human-readable headline.
	Title string `json:"title"`

	// Slug is the URL-safe form of Title, re-derived whenever Title changes.
	Slug string `json:"slug"`

	// Body is the full article text.
	Body string `json:"content"`

	// Excerpt is a short summary. When omitted on write it is derived from
	// the first characters of Body.
	Excerpt string `json:"excerpt"`

	// FeaturedImage is an optional image URL.
	FeaturedImage *string `json:"featuredImage"`

	// Status is either "draft" or "published". New articles start as drafts.
	Status string `json:"status"`

	// CategoryID references an existing category, or is nil.
	CategoryID *string `json:"categoryId"`

	// Tags are free-form labels used for filtering in the admin client.
	Tags []string `json:"tags"`

	// AuthorID is the id of the user who created the article. It never
	// changes after creation and drives the ownership checks.
	AuthorID string `json:"authorId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidStatus reports whether status is a known content status.
func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}
