// File: internal/store/users.go
package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, role, password_hash, reset_password_token, reset_password_expire, created_at`

// UserSchema 列表查詢可用的欄位；password 與 reset token 不在其中
var UserSchema = query.Schema{
	Table: "users",
	Fields: []query.Field{
		{Name: "id", Column: "id", Kind: query.Int},
		{Name: "name", Column: "name", Kind: query.Text},
		{Name: "email", Column: "email", Kind: query.Text},
		{Name: "role", Column: "role", Kind: query.Text},
		{Name: "createdAt", Column: "created_at", Kind: query.Time},
	},
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.ResetPasswordToken,
		&u.ResetPasswordExpire,
		&u.CreatedAt,
	)
	return u, err
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

// GetUserByResetToken 只回傳 token 尚未過期的使用者
func GetUserByResetToken(ctx context.Context, db database.DB, hashedToken string, now time.Time) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE reset_password_token = $1 AND reset_password_expire > $2`,
		hashedToken,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByResetToken: %w", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	if u.Role == 0 {
		u.Role = model.RoleUser
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, role, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.Role,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// UpdateUser 更新姓名、Email 與角色；使用者不存在時回傳 pgx.ErrNoRows
func UpdateUser(ctx context.Context, db database.DB, u *model.User) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, role = $3
		 WHERE id = $4`,
		u.Name,
		u.Email,
		u.Role,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUser: %w", pgx.ErrNoRows)
	}
	return nil
}

// UpdateUserPassword 設定新密碼並清除重設 token
func UpdateUserPassword(ctx context.Context, db database.DB, userID int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, reset_password_token = NULL, reset_password_expire = NULL
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}

// SetUserResetToken 寫入或清除 (nil) 重設密碼 token
func SetUserResetToken(ctx context.Context, db database.DB, userID int, hashedToken *string, expire *time.Time) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET reset_password_token = $1, reset_password_expire = $2
		 WHERE id = $3`,
		hashedToken,
		expire,
		userID,
	)
	if err != nil {
		return fmt.Errorf("SetUserResetToken: %w", err)
	}
	return nil
}

func DeleteUser(ctx context.Context, db database.DB, userID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteUser: %w", pgx.ErrNoRows)
	}
	return nil
}

func ListUsers(ctx context.Context, db database.DB, params url.Values) (*query.Result, error) {
	return query.Run(ctx, db, UserSchema, params, query.Options{})
}
