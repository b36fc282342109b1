package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inkwell-cms/apiserver/internal/auth"
	"github.com/inkwell-cms/apiserver/internal/policy"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
}

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput carries a partial update. Empty fields keep the stored
// value.
type UpdateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo   UserRepository
	creds  *auth.Credentials
	policy policy.Evaluator
}

func NewUserService(repo UserRepository, creds *auth.Credentials) *UserService {
	return &UserService{repo: repo, creds: creds}
}

// Register creates a viewer account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return types.User{}, err
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         types.RoleViewer,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return types.User{}, invalid("email", "user already exists")
	}
	return user, err
}

// Login checks credentials and returns a signed token for the user.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, types.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return "", types.User{}, err
	}

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", types.User{}, ErrInvalidCredentials
		}
		return "", types.User{}, err
	}
	if !s.creds.CheckPassword(in.Password, user.PasswordHash) {
		return "", types.User{}, ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return "", types.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to the user it was issued for. The
// user must still exist.
func (s *UserService) Authenticate(ctx context.Context, token string) (types.User, error) {
	userID, err := s.creds.VerifyToken(token)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return types.User{}, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with id if actor may view it.
func (s *UserService) Get(ctx context.Context, actor types.User, id string) (types.User, error) {
	if !s.policy.Can(actor, userResource(id), policy.ActionRead) {
		return types.User{}, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to the user with id. Only admins may
// change roles.
func (s *UserService) Update(ctx context.Context, actor types.User, id string, in UpdateUserInput) (types.User, error) {
	res := userResource(id)
	if !s.policy.Can(actor, res, policy.ActionUpdate) {
		return types.User{}, ErrForbidden
	}
	if in.Role != "" && !s.policy.Can(actor, res, policy.ActionChangeRole) {
		return types.User{}, ErrForbidden
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return types.User{}, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	if in.Password != "" {
		if user.PasswordHash, err = s.creds.HashPassword(in.Password); err != nil {
			return types.User{}, err
		}
	}

	updated, err := s.repo.Update(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return types.User{}, invalid("email", "email already in use")
	}
	return updated, err
}

// Delete removes the user with id. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actor types.User, id string) error {
	switch policy.Evaluate(actor, userResource(id), policy.ActionDelete) {
	case policy.Allow:
		return s.repo.Delete(ctx, id)
	case policy.DenySelf:
		return invalid("", "cannot delete your own account")
	default:
		return ErrForbidden
	}
}

func userResource(id string) policy.Resource {
	return policy.Resource{Kind: policy.KindUser, ID: id, OwnerID: id}
}
