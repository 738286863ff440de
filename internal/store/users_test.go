package store

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"devcamper/internal/database"
	"devcamper/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userRow(u model.User) *fakeRow {
	return &fakeRow{vals: []any{u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.ResetPasswordToken, u.ResetPasswordExpire, u.CreatedAt}}
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	want := model.User{ID: 1, Name: "a", Email: "a@b.com", Role: model.RolePublisher, PasswordHash: "h", CreatedAt: now}

	var gotSQL string
	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		gotSQL = sql
		return userRow(want)
	}}

	u, err := GetUserByID(ctx, db, 1)
	require.NoError(t, err)
	require.Equal(t, want, *u)
	require.Contains(t, gotSQL, "WHERE id = $1")

	u, err = GetUserByEmail(ctx, db, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", u.Email)
	require.Contains(t, gotSQL, "WHERE email = $1")

	var resetArgs []any
	db.QueryRowFn = func(_ context.Context, sql string, args ...any) pgx.Row {
		gotSQL, resetArgs = sql, args
		return userRow(want)
	}
	_, err = GetUserByResetToken(ctx, db, "hashed", now)
	require.NoError(t, err)
	require.Contains(t, gotSQL, "reset_password_expire > $2")
	require.Equal(t, []any{"hashed", now}, resetArgs)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return &fakeRow{err: pgx.ErrNoRows} }
	_, err = GetUserByID(ctx, db, 2)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = GetUserByEmail(ctx, db, "x")
	require.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = GetUserByResetToken(ctx, db, "x", now)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	var args []any
	db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, a ...any) pgx.Row {
		args = a
		return &fakeRow{vals: []any{7, now}}
	}}

	u, err := CreateUser(ctx, db, &model.User{Name: "a", Email: "a@b.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.Equal(t, 7, u.ID)
	require.Equal(t, now, u.CreatedAt)
	require.Equal(t, model.RoleUser, u.Role)
	require.Equal(t, []any{"a", "a@b.com", model.RoleUser, "h"}, args)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeRow{err: &pgconn.PgError{Code: "23505"}}
	}
	_, err = CreateUser(ctx, db, &model.User{Role: model.RoleAdmin})
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	var args []any
	db := &database.FakeDB{ExecFn: func(_ context.Context, _ string, a ...any) (pgconn.CommandTag, error) {
		args = a
		return tag("UPDATE 1"), nil
	}}
	require.NoError(t, UpdateUser(ctx, db, &model.User{ID: 3, Name: "n", Email: "e", Role: model.RoleAdmin}))
	require.Equal(t, []any{"n", "e", model.RoleAdmin, 3}, args)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) { return tag("UPDATE 0"), nil }
	require.ErrorIs(t, UpdateUser(ctx, db, &model.User{ID: 3}), pgx.ErrNoRows)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("exec")
	}
	require.ErrorContains(t, UpdateUser(ctx, db, &model.User{ID: 3}), "UpdateUser: exec")
}

func TestUpdateUserPasswordAndResetToken(t *testing.T) {
	ctx := context.Background()
	var sql string
	var args []any
	db := &database.FakeDB{ExecFn: func(_ context.Context, s string, a ...any) (pgconn.CommandTag, error) {
		sql, args = s, a
		return tag("UPDATE 1"), nil
	}}

	require.NoError(t, UpdateUserPassword(ctx, db, 4, "hash"))
	require.Contains(t, sql, "reset_password_token = NULL")
	require.Equal(t, []any{"hash", 4}, args)

	token := "abc"
	exp := time.Now()
	require.NoError(t, SetUserResetToken(ctx, db, 4, &token, &exp))
	require.Equal(t, []any{&token, &exp, 4}, args)

	require.NoError(t, SetUserResetToken(ctx, db, 4, nil, nil))
	require.Nil(t, args[0])

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("exec")
	}
	require.Error(t, UpdateUserPassword(ctx, db, 4, "hash"))
	require.Error(t, SetUserResetToken(ctx, db, 4, nil, nil))
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return tag("DELETE 1"), nil
	}}
	require.NoError(t, DeleteUser(ctx, db, 1))

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) { return tag("DELETE 0"), nil }
	require.ErrorIs(t, DeleteUser(ctx, db, 1), pgx.ErrNoRows)
}

func TestListUsers(t *testing.T) {
	var listSQL string
	db := &database.FakeDB{
		QueryRowFn: func(context.Context, string, ...any) pgx.Row { return &fakeRow{vals: []any{1}} },
		QueryFn: func(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
			listSQL = sql
			return &fakeRows{data: [][]any{{int32(1), "Alice"}}}, nil
		},
	}
	res, err := ListUsers(context.Background(), db, url.Values{"select": {"name"}, "role": {"admin"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Contains(t, listSQL, "FROM users WHERE role = $1")
	require.NotContains(t, listSQL, "password_hash")

	_, err = ListUsers(context.Background(), db, url.Values{"password": {"x"}})
	require.Error(t, err)
}
