package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Register(ctx, RegisterInput{Username: " jane ", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, types.RoleViewer, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = f.users.Register(ctx, RegisterInput{Username: "other", Email: "jane@example.com", Password: "secret2"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Email: "a@example.com", Password: "secret1"}, "username"},
		{"bad email", RegisterInput{Username: "a", Email: "nope", Password: "secret1"}, "email"},
		{"short password", RegisterInput{Username: "a", Email: "a@example.com", Password: "123"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(ctx, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUserService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, err := f.users.Register(ctx, RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = f.users.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.users.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, user, err := f.users.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	authed, err := f.users.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, authed.ID)

	require.NoError(t, f.users.Delete(ctx, f.admin, registered.ID))
	_, err = f.users.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.users.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_GetAndUpdatePermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.Get(ctx, f.viewer, f.editor.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	self, err := f.users.Get(ctx, f.viewer, f.viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.viewer.ID, self.ID)

	_, err = f.users.Get(ctx, f.admin, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.users.Update(ctx, f.viewer, f.viewer.ID, UpdateUserInput{Role: types.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.users.Update(ctx, f.editor, f.viewer.ID, UpdateUserInput{Username: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	renamed, err := f.users.Update(ctx, f.viewer, f.viewer.ID, UpdateUserInput{Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Username)
	assert.Equal(t, f.viewer.Email, renamed.Email)
	assert.Equal(t, types.RoleViewer, renamed.Role)

	promoted, err := f.users.Update(ctx, f.admin, f.viewer.ID, UpdateUserInput{Role: types.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, types.RoleEditor, promoted.Role)

	_, err = f.users.Update(ctx, f.admin, f.viewer.ID, UpdateUserInput{Role: "superuser"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	_, err = f.users.Update(ctx, f.viewer, f.viewer.ID, UpdateUserInput{Email: f.editor.Email})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestUserService_UpdatePasswordRehashes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.Register(ctx, RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, jane, err := f.users.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.users.Update(ctx, jane, jane.ID, UpdateUserInput{Password: "secret2"})
	require.NoError(t, err)

	_, _, err = f.users.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.users.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.users.Delete(ctx, f.admin, f.admin.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.ErrorIs(t, f.users.Delete(ctx, f.editor, f.viewer.ID), ErrForbidden)

	require.NoError(t, f.users.Delete(ctx, f.admin, f.viewer.ID))
	list, err := f.users.List(ctx)
	require.NoError(t, err)
	for _, u := range list {
		assert.NotEqual(t, f.viewer.ID, u.ID)
	}
	assert.ErrorIs(t, f.users.Delete(ctx, f.admin, f.viewer.ID), store.ErrNotFound)
}
