package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, Deps{DB: &database.FakeDB{}, Cache: &cache.FakeCache{}})

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/v1/ping",
		http.MethodPost + " /api/v1/auth/register",
		http.MethodPost + " /api/v1/auth/login",
		http.MethodGet + " /api/v1/auth/logout",
		http.MethodGet + " /api/v1/auth/me",
		http.MethodPut + " /api/v1/auth/updatedetails",
		http.MethodPut + " /api/v1/auth/updatepassword",
		http.MethodPost + " /api/v1/auth/forgotpassword",
		http.MethodPut + " /api/v1/auth/resetpassword/:resettoken",
		http.MethodGet + " /api/v1/bootcamps",
		http.MethodPost + " /api/v1/bootcamps",
		http.MethodGet + " /api/v1/bootcamps/radius/:zipcode/:distance",
		http.MethodGet + " /api/v1/bootcamps/:id",
		http.MethodPut + " /api/v1/bootcamps/:id",
		http.MethodDelete + " /api/v1/bootcamps/:id",
		http.MethodPut + " /api/v1/bootcamps/:id/image",
		http.MethodGet + " /api/v1/bootcamps/:bootcampId/courses",
		http.MethodPost + " /api/v1/bootcamps/:bootcampId/courses",
		http.MethodGet + " /api/v1/bootcamps/:bootcampId/reviews",
		http.MethodPost + " /api/v1/bootcamps/:bootcampId/reviews",
		http.MethodGet + " /api/v1/courses",
		http.MethodGet + " /api/v1/courses/:id",
		http.MethodPut + " /api/v1/courses/:id",
		http.MethodDelete + " /api/v1/courses/:id",
		http.MethodGet + " /api/v1/reviews",
		http.MethodGet + " /api/v1/reviews/:id",
		http.MethodPut + " /api/v1/reviews/:id",
		http.MethodDelete + " /api/v1/reviews/:id",
		http.MethodGet + " /api/v1/users",
		http.MethodPost + " /api/v1/users",
		http.MethodGet + " /api/v1/users/:id",
		http.MethodPut + " /api/v1/users/:id",
		http.MethodDelete + " /api/v1/users/:id",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

// userRow 依 store 的 users 欄位順序回傳固定使用者
type userRow struct{ u model.User }

func (r userRow) Scan(dest ...any) error {
	*dest[0].(*int) = r.u.ID
	*dest[1].(*string) = r.u.Name
	*dest[2].(*string) = r.u.Email
	*dest[3].(*model.Role) = r.u.Role
	*dest[4].(*string) = r.u.PasswordHash
	*dest[7].(*time.Time) = r.u.CreatedAt
	return nil
}

func newServer(t *testing.T, role model.Role) *echo.Echo {
	t.Helper()
	t.Setenv("JWT_SECRET", "router-secret")
	db := &database.FakeDB{
		PingFn: func(context.Context) error { return nil },
		QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			return userRow{u: model.User{ID: args[0].(int), Name: "Alice", Email: "alice@example.com", Role: role}}
		},
	}
	rdb := &cache.FakeCache{
		ExistsFn: func(context.Context, ...string) *redis.IntCmd {
			return redis.NewIntResult(0, nil)
		},
		PingFn: func(context.Context) *redis.StatusCmd {
			return redis.NewStatusResult("PONG", nil)
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	Setup(e, Deps{DB: db, Cache: rdb, Log: log})
	return e
}

func serve(e *echo.Echo, method, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestAccessControl(t *testing.T) {
	e := newServer(t, model.RoleUser)
	token, err := service.IssueAccessToken(model.User{ID: 1}, time.Hour)
	require.NoError(t, err)

	rec, body := serve(e, http.MethodGet, "/api/v1/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pong", body["message"])

	// 受保護路由未帶 token
	rec, body = serve(e, http.MethodPost, "/api/v1/bootcamps", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Not authorized to access this route", body["error"])

	rec, _ = serve(e, http.MethodPost, "/api/v1/bootcamps", "forged.token.value")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// 角色不符
	rec, body = serve(e, http.MethodPost, "/api/v1/bootcamps", token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "User role user is not authorized to access this route", body["error"])

	rec, _ = serve(e, http.MethodGet, "/api/v1/users", token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(e, http.MethodPut, "/api/v1/courses/1", token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// 已驗證即可存取
	rec, body = serve(e, http.MethodGet, "/api/v1/auth/me", token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, float64(1), data["id"])
	require.Equal(t, "alice@example.com", data["email"])
}

func TestAccessControl_Publisher(t *testing.T) {
	e := newServer(t, model.RolePublisher)
	token, err := service.IssueAccessToken(model.User{ID: 2}, time.Hour)
	require.NoError(t, err)

	// publisher 不能評論
	rec, _ := serve(e, http.MethodPost, "/api/v1/bootcamps/1/reviews", token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(e, http.MethodDelete, "/api/v1/users/1", token)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
