// File: internal/handler/courses/course.go
package courses

import (
	"fmt"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/policy"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listCourses     = store.ListCourses
	getCourseByID   = store.GetCourseByID
	getBootcampByID = store.GetBootcampByID
	getBootcampRefs = store.GetBootcampRefs
	createCourse    = store.CreateCourse
	updateCourse    = store.UpdateCourse
	deleteCourse    = store.DeleteCourse
)

// ListCoursesHandler 列出全部課程，或在 /bootcamps/:bootcampId/courses 下只列出該 bootcamp 的課程
// @Summary     List courses
// @Tags        courses
// @Produce     json
// @Param       select query    string false "逗號分隔的欄位"
// @Param       sort   query    string false "排序欄位" default(-createdAt)
// @Param       page   query    int    false "頁碼"   default(1)
// @Param       limit  query    int    false "每頁筆數" default(100)
// @Success     200    {object} query.Result
// @Failure     400    {object} api.ErrorResponse
// @Router      /courses [get]
// @Router      /bootcamps/{bootcampId}/courses [get]
func ListCoursesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID := 0
		if c.Param("bootcampId") != "" {
			id, err := handler.PathID(c, "bootcampId")
			if err != nil {
				return err
			}
			bootcampID = id
		}
		res, err := listCourses(c.Request().Context(), db, c.QueryParams(), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// GetCourseHandler 取得單一課程，bootcamp 以摘要內嵌
// @Summary     Get a course
// @Tags        courses
// @Produce     json
// @Param       id  path     int true "Course ID"
// @Success     200 {object} api.CourseResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /courses/{id} [get]
func GetCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return err
		}
		refs, err := getBootcampRefs(ctx, db, []int{course.BootcampID})
		if err != nil {
			return err
		}
		course.Bootcamp = refs[course.BootcampID]
		return c.JSON(http.StatusOK, api.CourseResponse{Success: true, Data: course})
	}
}

// AddCourseHandler 在 bootcamp 下新增課程，只有 bootcamp 擁有者或 admin 可以新增
// @Summary     Add a course
// @Tags        courses
// @Accept      json
// @Produce     json
// @Param       bootcampId path     int               true "Bootcamp ID"
// @Param       body       body     api.CourseRequest true "課程資料"
// @Success     201        {object} api.CourseResponse
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps/{bootcampId}/courses [post]
func AddCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID, err := handler.PathID(c, "bootcampId")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		bootcamp, err := getBootcampByID(ctx, db, bootcampID)
		if err != nil {
			return err
		}
		user := middleware.CurrentUser(c)
		if err := policy.CheckOwnership(user, bootcamp, fmt.Sprintf("add a course to bootcamp %d", bootcamp.ID)); err != nil {
			return err
		}

		var req api.CourseRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		course := &model.Course{BootcampID: bootcamp.ID, UserID: user.ID}
		req.Apply(course)
		created, err := createCourse(ctx, db, course)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.CourseResponse{Success: true, Data: created})
	}
}

// UpdateCourseHandler 部分更新課程
// @Summary     Update a course
// @Tags        courses
// @Accept      json
// @Produce     json
// @Param       id   path     int               true "Course ID"
// @Param       body body     api.CourseRequest true "要更新的欄位"
// @Success     200  {object} api.CourseResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /courses/{id} [put]
func UpdateCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), course, fmt.Sprintf("update course %d", course.ID)); err != nil {
			return err
		}

		req := api.NewCourseRequest(course)
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		req.Apply(course)
		if err := updateCourse(ctx, db, course); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.CourseResponse{Success: true, Data: course})
	}
}

// DeleteCourseHandler 刪除課程並重新計算 bootcamp 平均學費
// @Summary     Delete a course
// @Tags        courses
// @Produce     json
// @Param       id  path     int true "Course ID"
// @Success     200 {object} api.EmptyResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /courses/{id} [delete]
func DeleteCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), course, fmt.Sprintf("delete course %d", course.ID)); err != nil {
			return err
		}
		if err := deleteCourse(ctx, db, course); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.EmptyResponse{Success: true})
	}
}
