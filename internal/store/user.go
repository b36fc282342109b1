package store

import (
	"context"
	"slices"

	"github.com/inkwell-cms/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *MemoryStore
}

func NewUserRepository(db *MemoryStore) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return slices.Clone(r.db.users), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.db.userIndex(id)
	if i < 0 {
		return types.User{}, ErrNotFound
	}
	return r.db.users[i], nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create inserts user unless another user already has the same email, in
// which case it returns ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.emailTaken(user.Email, "") {
		return types.User{}, ErrDuplicate
	}

	user.ID = r.db.newID()
	user.CreatedAt = r.db.now()
	r.db.users = append(r.db.users, user)
	return user, nil
}

// Update replaces the stored user with the same id. The creation time is
// preserved.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.userIndex(user.ID)
	if i < 0 {
		return types.User{}, ErrNotFound
	}
	if r.db.emailTaken(user.Email, user.ID) {
		return types.User{}, ErrDuplicate
	}

	user.CreatedAt = r.db.users[i].CreatedAt
	r.db.users[i] = user
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.userIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	r.db.users = slices.Delete(r.db.users, i, i+1)
	return nil
}

func (s *MemoryStore) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u types.User) bool { return u.ID == id })
}

func (s *MemoryStore) emailTaken(email, exceptID string) bool {
	return slices.ContainsFunc(s.users, func(u types.User) bool {
		return u.Email == email && u.ID != exceptID
	})
}
