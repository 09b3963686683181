package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" teacher ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, r)

	_, err = ParseRole("owner")
	assert.Error(t, err)
}

func TestRoleIsStaff(t *testing.T) {
	assert.True(t, RoleAdministrator.IsStaff())
	assert.True(t, RoleReceptionist.IsStaff())
	assert.False(t, RoleTeacher.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
	assert.False(t, Role("GUEST").IsStaff())
}
