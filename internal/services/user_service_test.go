package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventify_backend/pkg/apperrors"
)

func newTestUserService() (UserService, *fakeUserRepo) {
	users := newFakeUserRepo(userWith("customer"))
	return NewUserService(users, newFakeRoleRepo("admin", "organizer", "customer")), users
}

func TestSetRoles_ReplacesRoles(t *testing.T) {
	svc, _ := newTestUserService()

	user, err := svc.SetRoles(context.Background(), "user-1", []string{"admin", "organizer"})
	require.NoError(t, err)
	require.Len(t, user.Roles, 2)
	assert.True(t, user.HasRole("admin"))
	assert.True(t, user.HasRole("organizer"))
	assert.False(t, user.HasRole("customer"))
}

func TestSetRoles_RepeatedSlugsCollapse(t *testing.T) {
	svc, _ := newTestUserService()

	user, err := svc.SetRoles(context.Background(), "user-1", []string{"admin", "admin"})
	require.NoError(t, err, "a repeated slug is not an unknown slug")
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "admin", user.Roles[0].Slug)
}

func TestSetRoles_UnknownSlugRejected(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.SetRoles(context.Background(), "user-1", []string{"admin", "superuser"})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPCode)

	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"superuser"}, details["unknown_roles"])
}

func TestSetRoles_UnknownUser(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.SetRoles(context.Background(), "no-such-user", []string{"admin"})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
}
