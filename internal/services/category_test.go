package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/apiserver/internal/store"
)

func TestCategoryService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.categories.Create(ctx, f.editor, CategoryInput{Name: "News"})
	assert.ErrorIs(t, err, ErrForbidden)

	news, err := f.categories.Create(ctx, f.admin, CategoryInput{Name: "Breaking News!"})
	require.NoError(t, err)
	assert.Equal(t, "breaking-news", news.Slug)
	assert.Equal(t, "", news.Description)

	_, err = f.categories.Create(ctx, f.admin, CategoryInput{Name: "breaking news!"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = f.categories.Create(ctx, f.admin, CategoryInput{Name: "  "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	// Same name keeps the slug; description is replaced only when present.
	withDesc, err := f.categories.Update(ctx, f.admin, news.ID, CategoryInput{Name: news.Name, Description: ptr("daily")})
	require.NoError(t, err)
	assert.Equal(t, news.Slug, withDesc.Slug)
	assert.Equal(t, "daily", withDesc.Description)

	renamed, err := f.categories.Update(ctx, f.admin, news.ID, CategoryInput{Name: "World"})
	require.NoError(t, err)
	assert.Equal(t, "world", renamed.Slug)
	assert.Equal(t, "daily", renamed.Description)

	_, err = f.categories.Update(ctx, f.admin, "missing", CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	used, err := f.categories.Create(ctx, f.admin, CategoryInput{Name: "Used"})
	require.NoError(t, err)
	unused, err := f.categories.Create(ctx, f.admin, CategoryInput{Name: "Unused"})
	require.NoError(t, err)

	_, err = f.contents.Create(ctx, f.editor, CreateContentInput{Title: "t", Body: "b", CategoryID: &used.ID})
	require.NoError(t, err)

	err = f.categories.Delete(ctx, f.admin, used.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	_, err = f.categories.Get(ctx, used.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.categories.Delete(ctx, f.editor, unused.ID), ErrForbidden)
	require.NoError(t, f.categories.Delete(ctx, f.admin, unused.ID))
	_, err = f.categories.Get(ctx, unused.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
