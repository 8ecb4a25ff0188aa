package authz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcerAdminSurface(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		role, path, method string
		want               bool
	}{
		{"admin", "/admin/posts", http.MethodGet, true},
		{"admin", "/admin/posts/abc", http.MethodDelete, true},
		{"admin", "/admin/author-requests/1", http.MethodPut, true},
		{"user", "/admin/posts", http.MethodGet, false},
		{"developer", "/admin/users/1/role", http.MethodPut, false},
		{"", "/admin/posts", http.MethodGet, false},
		{"admin", "/posts", http.MethodGet, false},
	}
	for _, tc := range tests {
		got, err := e.Allow(tc.role, tc.path, tc.method)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s %s", tc.role, tc.method, tc.path)
	}
}

func TestLoadPolicyRejectsMalformed(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)
	assert.Error(t, loadPolicy(e.enforcer, "p, admin"))
	assert.Error(t, loadPolicy(e.enforcer, "x, a, b"))
}
