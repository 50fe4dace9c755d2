package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected Role
	}{
		{"admin@campus.edu", RoleAdministrator},
		{"Admin@campus.edu", RoleAdministrator},
		{"sysadmin@campus.edu", RoleAdministrator},
		{"administrator@campus.edu", RoleAdministrator},
		{"student@campus.edu", RoleRegular},
		{"ogrenci@campus.edu", RoleRegular},
		// "admin" в домене не даёт прав, смотрим только локальную часть
		{"student@admin.campus.edu", RoleRegular},
		{"", RoleRegular},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoleForEmail(tt.email), "email: %s", tt.email)
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdministrator, ParseRole("ADMINISTRATOR"))
	assert.Equal(t, RoleRegular, ParseRole("REGULAR"))
	assert.Equal(t, RoleRegular, ParseRole("SUPERUSER"))
	assert.Equal(t, RoleRegular, ParseRole(""))
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, User{Role: RoleAdministrator}.IsAdmin())
	assert.False(t, User{Role: RoleRegular}.IsAdmin())
	assert.False(t, User{}.IsAdmin())
}

func TestUserFollows(t *testing.T) {
	user := User{FollowedIncidents: []string{"1", "2"}}

	assert.True(t, user.Follows("1"))
	assert.False(t, user.Follows("3"))
	assert.False(t, User{}.Follows("1"))
}
