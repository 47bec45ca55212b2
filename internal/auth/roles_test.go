package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

func TestRoleCode_GrantsElevatedAccess(t *testing.T) {
	assert.True(t, RoleAdmin.GrantsElevatedAccess())
	assert.True(t, RoleEditor.GrantsElevatedAccess())
	assert.False(t, RoleViewer.GrantsElevatedAccess())
	assert.False(t, RoleCode("owner").GrantsElevatedAccess())

	assert.ElementsMatch(t, []RoleCode{RoleAdmin, RoleEditor}, ElevatedRoles)
}

func TestParseRoleCodes(t *testing.T) {
	codes, err := ParseRoleCodes(" Admin,editor,,viewer ,admin")
	require.NoError(t, err)
	assert.Equal(t, []RoleCode{RoleAdmin, RoleEditor, RoleViewer, RoleAdmin}, codes)

	codes, err = ParseRoleCodes("")
	require.NoError(t, err)
	assert.Empty(t, codes)

	_, err = ParseRoleCodes("admin,root")
	assert.ErrorContains(t, err, "root")
}

func TestHasAnyRole(t *testing.T) {
	assert.True(t, HasAnyRole([]RoleCode{RoleViewer, RoleEditor}, ElevatedRoles))
	assert.False(t, HasAnyRole([]RoleCode{RoleViewer}, ElevatedRoles))
	assert.False(t, HasAnyRole(nil, ElevatedRoles))
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)

	user := &models.User{ID: 7, Username: "alice"}
	ctx = WithUser(ctx, user)
	got, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, user, got)

	_, ok = AuthorizedUserFromContext(ctx)
	assert.False(t, ok)

	ctx = WithAuthorizedUser(ctx, &AuthorizedUser{User: user, Roles: []RoleCode{RoleEditor}})
	au, ok := AuthorizedUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []RoleCode{RoleEditor}, au.Roles)
}
