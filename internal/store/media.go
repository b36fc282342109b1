package store

import (
	"context"
	"slices"

	"github.com/inkwell-cms/apiserver/types"
)

// MediaRepository handles persistence for media records. The stored objects
// themselves live in object storage.
type MediaRepository struct {
	db *MemoryStore
}

func NewMediaRepository(db *MemoryStore) *MediaRepository {
	return &MediaRepository{db: db}
}

// List returns every media record, newest upload first.
func (r *MediaRepository) List(ctx context.Context) ([]types.Media, error) {
	r.db.mu.RLock()
	items := slices.Clone(r.db.media)
	r.db.mu.RUnlock()

	slices.SortStableFunc(items, func(a, b types.Media) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return items, nil
}

func (r *MediaRepository) Get(ctx context.Context, id string) (types.Media, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.db.mediaIndex(id)
	if i < 0 {
		return types.Media{}, ErrNotFound
	}
	return r.db.media[i], nil
}

func (r *MediaRepository) Create(ctx context.Context, media types.Media) (types.Media, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	media.ID = r.db.newID()
	media.UploadedAt = r.db.now()
	r.db.media = append(r.db.media, media)
	return media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.mediaIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.media = slices.Delete(r.db.media, i, i+1)
	return nil
}

func (s *MemoryStore) mediaIndex(id string) int {
	return slices.IndexFunc(s.media, func(m types.Media) bool { return m.ID == id })
}
