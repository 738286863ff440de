package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, name := range []string{"user", "publisher", "admin"} {
		r, err := ParseRole(name)
		require.NoError(t, err)
		require.Equal(t, name, r.String())
	}
	_, err := ParseRole("root")
	require.Error(t, err)
}

func TestRoleSet(t *testing.T) {
	s := NewRoleSet(RolePublisher, RoleAdmin)
	require.True(t, s.Has(RolePublisher))
	require.True(t, s.Has(RoleAdmin))
	require.False(t, s.Has(RoleUser))
	require.False(t, s.Has(Role(0)))
	require.False(t, s.Has(Role(42)))
	require.False(t, NewRoleSet().Has(RoleAdmin))
}

func TestRoleJSONAndScan(t *testing.T) {
	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RolePublisher})
	require.NoError(t, err)
	require.JSONEq(t, `{"role":"publisher"}`, string(b))

	var v struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &v))
	require.True(t, v.Role.IsAdmin())
	require.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &v))

	var r Role
	require.NoError(t, r.Scan("user"))
	require.Equal(t, RoleUser, r)
	require.NoError(t, r.Scan([]byte("admin")))
	require.Equal(t, RoleAdmin, r)
	require.Error(t, r.Scan(12))

	val, err := RolePublisher.Value()
	require.NoError(t, err)
	require.Equal(t, "publisher", val)
	_, err = Role(9).Value()
	require.Error(t, err)
}
