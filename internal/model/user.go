// File: internal/model/user.go
package model

import "time"

type User struct {
	ID                  int        `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	Role                Role       `db:"role" json:"role"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	ResetPasswordToken  *string    `db:"reset_password_token" json:"-"`
	ResetPasswordExpire *time.Time `db:"reset_password_expire" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
}
