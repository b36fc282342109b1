package store

import (
	"context"
	"slices"
	"strings"

	"github.com/inkwell-cms/apiserver/types"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *MemoryStore
}

func NewCategoryRepository(db *MemoryStore) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]types.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return slices.Clone(r.db.categories), nil
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (types.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.db.categoryIndex(id)
	if i < 0 {
		return types.Category{}, ErrNotFound
	}
	return r.db.categories[i], nil
}

// Create inserts category unless its name collides, ignoring case, with an
// existing category.
func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.categoryNameTaken(category.Name, "") {
		return types.Category{}, ErrDuplicate
	}

	now := r.db.now()
	category.ID = r.db.newID()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.db.categories = append(r.db.categories, category)
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category types.Category) (types.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.categoryIndex(category.ID)
	if i < 0 {
		return types.Category{}, ErrNotFound
	}
	if r.db.categoryNameTaken(category.Name, category.ID) {
		return types.Category{}, ErrDuplicate
	}

	category.CreatedAt = r.db.categories[i].CreatedAt
	category.UpdatedAt = r.db.now()
	r.db.categories[i] = category
	return category, nil
}

// Delete removes the category, or returns ErrCategoryInUse while any content
// references it.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.categoryIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	inUse := slices.ContainsFunc(r.db.contents, func(c types.Content) bool {
		return c.CategoryID != nil && *c.CategoryID == id
	})
	if inUse {
		return ErrCategoryInUse
	}

	r.db.categories = slices.Delete(r.db.categories, i, i+1)
	return nil
}

func (s *MemoryStore) categoryIndex(id string) int {
	return slices.IndexFunc(s.categories, func(c types.Category) bool { return c.ID == id })
}

func (s *MemoryStore) categoryNameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(s.categories, func(c types.Category) bool {
		return strings.EqualFold(c.Name, name) && c.ID != exceptID
	})
}
