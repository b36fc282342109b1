package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-cms/apiserver/types"
)

// MemoryStore holds every collection in process memory. A single lock guards
// all of them so that checks spanning collections (a category being
// referenced by content) see a consistent view.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []types.User
	categories []types.Category
	contents   []types.Content
	media      []types.Media

	newID func() string
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func cloneContent(c types.Content) types.Content {
	c.Tags = slices.Clone(c.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CategoryID = cloneStringPtr(c.CategoryID)
	c.FeaturedImage = cloneStringPtr(c.FeaturedImage)
	return c
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
