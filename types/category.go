package types

import "time"

// Category groups content articles. A category cannot be removed while any
// content still references it.
type Category struct {
	// ID is the unique identifier of the category.
	ID string `json:"id"`

	// Name is the human-readable label. Names are unique ignoring case.
	Name string `json:"name"`

	// Slug is the URL-safe form of Name, re-derived whenever Name changes.
	Slug string `json:"slug"`

	// Description is optional free text.
	Description string `json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
