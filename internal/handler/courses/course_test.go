package courses

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	listCourses = store.ListCourses
	getCourseByID = store.GetCourseByID
	getBootcampByID = store.GetBootcampByID
	getBootcampRefs = store.GetBootcampRefs
	createCourse = store.CreateCourse
	updateCourse = store.UpdateCourse
	deleteCourse = store.DeleteCourse
}

type realValidator struct{ v *validator.Validate }

func (r *realValidator) Validate(i interface{}) error { return r.v.Struct(i) }

func newCtx(t *testing.T, method, body string, user *model.User, name, value string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	t.Cleanup(restoreGlobals)
	e := echo.New()
	e.Validator = &realValidator{v: validator.New()}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
	}
	if name != "" {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	return c, rec
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

var (
	publisher = &model.User{ID: 1, Role: model.RolePublisher}
	other     = &model.User{ID: 2, Role: model.RolePublisher}
	admin     = &model.User{ID: 3, Role: model.RoleAdmin}
)

func stubCourse() {
	getCourseByID = func(_ context.Context, _ database.DB, id int) (*model.Course, error) {
		if id != 5 {
			return nil, pgx.ErrNoRows
		}
		return &model.Course{ID: 5, BootcampID: 10, UserID: publisher.ID, Title: "Go", Description: "d",
			Weeks: "8", Tuition: 1000, MinimumSkill: "beginner"}, nil
	}
}

func TestListCoursesHandler(t *testing.T) {
	var gotBootcamp int
	var gotParams url.Values
	c, rec := newCtx(t, http.MethodGet, "", nil, "", "")
	listCourses = func(_ context.Context, _ database.DB, params url.Values, bootcampID int) (*query.Result, error) {
		gotBootcamp, gotParams = bootcampID, params
		return &query.Result{Success: true, Data: []query.Row{}}, nil
	}
	c.Request().URL.RawQuery = "tuition[lt]=5000"
	require.NoError(t, ListCoursesHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, gotBootcamp)
	require.Equal(t, "5000", gotParams.Get("tuition[lt]"))

	c, _ = newCtx(t, http.MethodGet, "", nil, "bootcampId", "10")
	require.NoError(t, ListCoursesHandler(&database.FakeDB{})(c))
	require.Equal(t, 10, gotBootcamp)

	c, _ = newCtx(t, http.MethodGet, "", nil, "bootcampId", "x")
	requireStatus(t, ListCoursesHandler(&database.FakeDB{})(c), http.StatusNotFound)
}

func TestGetCourseHandler(t *testing.T) {
	c, rec := newCtx(t, http.MethodGet, "", nil, "id", "5")
	stubCourse()
	getBootcampRefs = func(_ context.Context, _ database.DB, ids []int) (map[int]*model.BootcampRef, error) {
		require.Equal(t, []int{10}, ids)
		return map[int]*model.BootcampRef{10: {ID: 10, Name: "Devworks", Description: "Full stack"}}, nil
	}
	require.NoError(t, GetCourseHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"bootcamp":{"id":10,"name":"Devworks","description":"Full stack"}`)

	c, _ = newCtx(t, http.MethodGet, "", nil, "id", "6")
	require.ErrorIs(t, GetCourseHandler(&database.FakeDB{})(c), pgx.ErrNoRows)
}

func TestAddCourseHandler(t *testing.T) {
	body := `{"title":"Go","description":"d","weeks":"8","tuition":1000,"minimumSkill":"beginner"}`
	c, rec := newCtx(t, http.MethodPost, body, publisher, "bootcampId", "10")
	getBootcampByID = func(_ context.Context, _ database.DB, id int) (*model.Bootcamp, error) {
		if id != 10 {
			return nil, pgx.ErrNoRows
		}
		return &model.Bootcamp{ID: 10, UserID: publisher.ID}, nil
	}
	var created *model.Course
	createCourse = func(_ context.Context, _ database.DB, course *model.Course) (*model.Course, error) {
		created = course
		course.ID = 5
		return course, nil
	}

	require.NoError(t, AddCourseHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 10, created.BootcampID)
	require.Equal(t, publisher.ID, created.UserID)
	require.Contains(t, rec.Body.String(), `"bootcamp":10`)

	// 非 bootcamp 擁有者
	created = nil
	c, _ = newCtx(t, http.MethodPost, body, other, "bootcampId", "10")
	requireStatus(t, AddCourseHandler(&database.FakeDB{})(c), http.StatusForbidden)
	require.Nil(t, created)

	// admin 不受限制
	c, _ = newCtx(t, http.MethodPost, body, admin, "bootcampId", "10")
	require.NoError(t, AddCourseHandler(&database.FakeDB{})(c))
	require.Equal(t, admin.ID, created.UserID)

	c, _ = newCtx(t, http.MethodPost, body, publisher, "bootcampId", "11")
	require.ErrorIs(t, AddCourseHandler(&database.FakeDB{})(c), pgx.ErrNoRows)

	c, _ = newCtx(t, http.MethodPost, `{"title":"Go","minimumSkill":"expert"}`, publisher, "bootcampId", "10")
	var ve validator.ValidationErrors
	require.ErrorAs(t, AddCourseHandler(&database.FakeDB{})(c), &ve)
}

func TestUpdateCourseHandler(t *testing.T) {
	c, rec := newCtx(t, http.MethodPut, `{"tuition":2500}`, publisher, "id", "5")
	stubCourse()
	var updated *model.Course
	updateCourse = func(_ context.Context, _ database.DB, course *model.Course) error {
		updated = course
		return nil
	}

	require.NoError(t, UpdateCourseHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2500.0, updated.Tuition)
	require.Equal(t, "Go", updated.Title)

	c, _ = newCtx(t, http.MethodPut, `{"tuition":2500}`, other, "id", "5")
	requireStatus(t, UpdateCourseHandler(&database.FakeDB{})(c), http.StatusForbidden)

	c, _ = newCtx(t, http.MethodPut, `{"tuition":2500}`, other, "id", "6")
	require.ErrorIs(t, UpdateCourseHandler(&database.FakeDB{})(c), pgx.ErrNoRows)
}

func TestDeleteCourseHandler(t *testing.T) {
	c, rec := newCtx(t, http.MethodDelete, "", admin, "id", "5")
	stubCourse()
	var deleted *model.Course
	deleteCourse = func(_ context.Context, _ database.DB, course *model.Course) error {
		deleted = course
		return nil
	}

	require.NoError(t, DeleteCourseHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, deleted.ID)

	deleted = nil
	c, _ = newCtx(t, http.MethodDelete, "", other, "id", "5")
	requireStatus(t, DeleteCourseHandler(&database.FakeDB{})(c), http.StatusForbidden)
	require.Nil(t, deleted)
}
