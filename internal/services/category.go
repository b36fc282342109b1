package services

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwell-cms/apiserver/internal/policy"
	"github.com/inkwell-cms/apiserver/internal/slug"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]types.Category, error)
	Get(ctx context.Context, id string) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryInput struct {
	Name string `json:"name" validate:"required"`
	// Description is optional. On update a nil Description keeps the stored
	// text.
	Description *string `json:"description"`
}

// CategoryService encapsulates category use-cases.
type CategoryService struct {
	repo   CategoryRepository
	policy policy.Evaluator
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]types.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (types.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, actor types.User, in CategoryInput) (types.Category, error) {
	if !s.policy.Can(actor, policy.Resource{Kind: policy.KindCategory}, policy.ActionUpdate) {
		return types.Category{}, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return types.Category{}, err
	}

	category := types.Category{Name: in.Name, Slug: slug.Make(in.Name)}
	if in.Description != nil {
		category.Description = *in.Description
	}

	created, err := s.repo.Create(ctx, category)
	if errors.Is(err, store.ErrDuplicate) {
		return types.Category{}, invalid("name", "category with this name already exists")
	}
	return created, err
}

// Update renames the category and optionally replaces its description. The
// slug is re-derived only when the name actually changes.
func (s *CategoryService) Update(ctx context.Context, actor types.User, id string, in CategoryInput) (types.Category, error) {
	if !s.policy.Can(actor, policy.Resource{Kind: policy.KindCategory, ID: id}, policy.ActionUpdate) {
		return types.Category{}, ErrForbidden
	}

	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Category{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return types.Category{}, err
	}

	if in.Name != category.Name {
		category.Name = in.Name
		category.Slug = slug.Make(in.Name)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	updated, err := s.repo.Update(ctx, category)
	if errors.Is(err, store.ErrDuplicate) {
		return types.Category{}, invalid("name", "category with this name already exists")
	}
	return updated, err
}

// Delete removes the category. Categories still referenced by content are
// rejected with a validation error.
func (s *CategoryService) Delete(ctx context.Context, actor types.User, id string) error {
	if !s.policy.Can(actor, policy.Resource{Kind: policy.KindCategory, ID: id}, policy.ActionDelete) {
		return ErrForbidden
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrCategoryInUse) {
		return invalid("", "cannot delete category that is used by content")
	}
	return err
}
