// File: internal/model/role.go
package model

import (
	"database/sql/driver"
	"fmt"
)

// Role 使用者角色
type Role uint8

const (
	RoleUser Role = iota + 1
	RolePublisher
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:      "user",
	RolePublisher: "publisher",
	RoleAdmin:     "admin",
}

// ParseRole 將文字角色轉成 Role，未知值回傳錯誤
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// IsAdmin reports whether r bypasses ownership checks.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) MarshalText() ([]byte, error) {
	if _, ok := roleNames[r]; !ok {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements sql.Scanner for the users.role text column.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if _, ok := roleNames[r]; !ok {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return r.String(), nil
}

// RoleSet 是固定的角色集合，用於路由授權
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= 1 << r
	}
	return s
}

// Has reports whether r is a member of s.
func (s RoleSet) Has(r Role) bool {
	if r == 0 || r > RoleAdmin {
		return false
	}
	return s&(1<<r) != 0
}
