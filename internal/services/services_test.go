package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-cms/apiserver/internal/auth"
	"github.com/inkwell-cms/apiserver/internal/storage"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []types.ContentEvent
}

func (r *recordedEvents) PublishContentEvent(ctx context.Context, event types.ContentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	users      *UserService
	categories *CategoryService
	contents   *ContentService
	media      *MediaService
	events     *recordedEvents
	objects    *storage.Storage

	admin   types.User
	editor  types.User
	editor2 types.User
	viewer  types.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := store.NewMemoryStore()
	creds := auth.NewCredentials("test-secret", time.Hour, bcrypt.MinCost)

	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)
	objects := storage.NewStorage(disk)
	require.NoError(t, objects.EnsureBucket(ctx))

	f := &fixture{
		users:      NewUserService(store.NewUserRepository(db), creds),
		categories: NewCategoryService(store.NewCategoryRepository(db)),
		events:     &recordedEvents{},
		objects:    objects,
	}
	f.contents = NewContentService(store.NewContentRepository(db), f.events)
	f.media = NewMediaService(store.NewMediaRepository(db), objects, 1024, nil)

	userRepo := store.NewUserRepository(db)
	mk := func(name, role string) types.User {
		u, err := userRepo.Create(ctx, types.User{Username: name, Email: name + "@example.com", Role: role})
		require.NoError(t, err)
		return u
	}
	f.admin = mk("admin", types.RoleAdmin)
	f.editor = mk("editor", types.RoleEditor)
	f.editor2 = mk("editor2", types.RoleEditor)
	f.viewer = mk("viewer", types.RoleViewer)
	return f
}

func ptr[T any](v T) *T { return &v }
