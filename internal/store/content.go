package store

import (
	"context"
	"slices"
	"strings"

	"github.com/inkwell-cms/apiserver/types"
)

// ContentFilter narrows a content listing. Empty fields match everything.
type ContentFilter struct {
	Status     string
	CategoryID string
	AuthorID   string
	// Search is matched case-insensitively against title and body.
	Search string
}

func (f ContentFilter) match(c types.Content) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.CategoryID != "" && (c.CategoryID == nil || *c.CategoryID != f.CategoryID) {
		return false
	}
	if f.AuthorID != "" && c.AuthorID != f.AuthorID {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), term) &&
			!strings.Contains(strings.ToLower(c.Body), term) {
			return false
		}
	}
	return true
}

// ContentRepository handles persistence for content articles.
type ContentRepository struct {
	db *MemoryStore
}

func NewContentRepository(db *MemoryStore) *ContentRepository {
	return &ContentRepository{db: db}
}

// List returns matching articles, most recently updated first. Articles with
// equal update times keep their insertion order.
func (r *ContentRepository) List(ctx context.Context, filter ContentFilter) ([]types.Content, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]types.Content, 0, len(r.db.contents))
	for _, c := range r.db.contents {
		if filter.match(c) {
			items = append(items, cloneContent(c))
		}
	}
	slices.SortStableFunc(items, func(a, b types.Content) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return items, nil
}

func (r *ContentRepository) Get(ctx context.Context, id string) (types.Content, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.db.contentIndex(id)
	if i < 0 {
		return types.Content{}, ErrNotFound
	}
	return cloneContent(r.db.contents[i]), nil
}

// Create inserts content. A non-nil CategoryID must name an existing
// category, otherwise ErrInvalidCategory is returned.
func (r *ContentRepository) Create(ctx context.Context, content types.Content) (types.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.categoryRefValid(content.CategoryID) {
		return types.Content{}, ErrInvalidCategory
	}

	now := r.db.now()
	content = cloneContent(content)
	content.ID = r.db.newID()
	content.CreatedAt = now
	content.UpdatedAt = now
	r.db.contents = append(r.db.contents, content)
	return cloneContent(content), nil
}

// Update replaces the stored article with the same id. The author and
// creation time of the stored article are kept regardless of the input.
func (r *ContentRepository) Update(ctx context.Context, content types.Content) (types.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.contentIndex(content.ID)
	if i < 0 {
		return types.Content{}, ErrNotFound
	}
	if !r.db.categoryRefValid(content.CategoryID) {
		return types.Content{}, ErrInvalidCategory
	}

	content = cloneContent(content)
	content.AuthorID = r.db.contents[i].AuthorID
	content.CreatedAt = r.db.contents[i].CreatedAt
	content.UpdatedAt = r.db.now()
	r.db.contents[i] = content
	return cloneContent(content), nil
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.contentIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.contents = slices.Delete(r.db.contents, i, i+1)
	return nil
}

func (s *MemoryStore) contentIndex(id string) int {
	return slices.IndexFunc(s.contents, func(c types.Content) bool { return c.ID == id })
}

func (s *MemoryStore) categoryRefValid(id *string) bool {
	return id == nil || s.categoryIndex(*id) >= 0
}
