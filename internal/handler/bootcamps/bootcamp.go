// File: internal/handler/bootcamps/bootcamp.go
package bootcamps

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/geo"
	"devcamper/internal/handler"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/policy"
	"devcamper/internal/store"
	"devcamper/internal/upload"
	"devcamper/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	listBootcamps        = store.ListBootcamps
	getBootcampByID      = store.GetBootcampByID
	getCoursesByBootcamp = store.GetCoursesByBootcamp
	createBootcamp       = store.CreateBootcamp
	updateBootcamp       = store.UpdateBootcamp
	updateBootcampPhoto  = store.UpdateBootcampPhoto
	deleteBootcamp       = store.DeleteBootcamp
	getBootcampsInRadius = store.GetBootcampsInRadius
	openImage            = upload.Open
)

// geocode 將查無結果轉為 400，其餘外部服務錯誤轉為 503
func geocode(ctx context.Context, g geo.Geocoder, address string) (*model.Location, error) {
	loc, err := g.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, geo.ErrNoResult) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not geocode %q", address))
		}
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "Geocoding service unavailable").SetInternal(err)
	}
	return loc, nil
}

// ListBootcampsHandler 列出 bootcamp，支援篩選、排序、分頁與 select
// @Summary     List bootcamps
// @Description 支援 field[gt|gte|lt|lte|in]=value、select、sort、page、limit；每筆結果內嵌 courses
// @Tags        bootcamps
// @Produce     json
// @Param       select query    string false "逗號分隔的欄位"
// @Param       sort   query    string false "排序欄位，-開頭為遞減"   default(-createdAt)
// @Param       page   query    int    false "頁碼"             default(1)
// @Param       limit  query    int    false "每頁筆數"           default(100)
// @Success     200    {object} query.Result
// @Failure     400    {object} api.ErrorResponse
// @Router      /bootcamps [get]
func ListBootcampsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := listBootcamps(c.Request().Context(), db, c.QueryParams())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// GetBootcampHandler 取得單一 bootcamp 與其課程
// @Summary     Get a bootcamp
// @Tags        bootcamps
// @Produce     json
// @Param       id  path     int true "Bootcamp ID"
// @Success     200 {object} api.BootcampResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /bootcamps/{id} [get]
func GetBootcampHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		b, err := getBootcampByID(ctx, db, id)
		if err != nil {
			return err
		}
		if b.Courses, err = getCoursesByBootcamp(ctx, db, b.ID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BootcampResponse{Success: true, Data: b})
	}
}

// CreateBootcampHandler 建立 bootcamp，地址會轉換為座標
// @Summary     Create a bootcamp
// @Description publisher 只能發佈一個 bootcamp，admin 不受限制
// @Tags        bootcamps
// @Accept      json
// @Produce     json
// @Param       body body     api.BootcampRequest true "Bootcamp 資料"
// @Success     201  {object} api.BootcampResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps [post]
func CreateBootcampHandler(db database.DB, g geo.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.BootcampRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user := middleware.CurrentUser(c)
		b := &model.Bootcamp{UserID: user.ID}
		req.Apply(b)

		loc, err := geocode(ctx, g, b.Address)
		if err != nil {
			return err
		}
		b.Location = *loc

		created, err := createBootcamp(ctx, db, b, user.Role.IsAdmin())
		if err != nil {
			if errors.Is(err, store.ErrBootcampLimit) {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("The user with ID %d has already published a bootcamp", user.ID))
			}
			return err
		}
		return c.JSON(http.StatusCreated, api.BootcampResponse{Success: true, Data: created})
	}
}

// UpdateBootcampHandler 部分更新 bootcamp；地址變更時重新轉換座標
// @Summary     Update a bootcamp
// @Tags        bootcamps
// @Accept      json
// @Produce     json
// @Param       id   path     int                 true "Bootcamp ID"
// @Param       body body     api.BootcampRequest true "要更新的欄位"
// @Success     200  {object} api.BootcampResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id} [put]
func UpdateBootcampHandler(db database.DB, g geo.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		b, err := getBootcampByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), b, "update this bootcamp"); err != nil {
			return err
		}

		req := api.NewBootcampRequest(b)
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		prevAddress := b.Address
		req.Apply(b)
		if b.Address != prevAddress {
			loc, err := geocode(ctx, g, b.Address)
			if err != nil {
				return err
			}
			b.Location = *loc
		}

		if err := updateBootcamp(ctx, db, b); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BootcampResponse{Success: true, Data: b})
	}
}

// DeleteBootcampHandler 刪除 bootcamp 及其課程與評論，圖片交由背景 worker 移除
// @Summary     Delete a bootcamp
// @Tags        bootcamps
// @Produce     json
// @Param       id  path     int true "Bootcamp ID"
// @Success     200 {object} api.EmptyResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id} [delete]
func DeleteBootcampHandler(db database.DB, images upload.Store, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		b, err := getBootcampByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), b, "delete this bootcamp"); err != nil {
			return err
		}
		if err := deleteBootcamp(ctx, db, b.ID); err != nil {
			return err
		}

		if photo := b.Photo; photo != "" && photo != model.DefaultPhoto {
			pool.Submit(worker.Task{
				Name: "remove " + photo,
				Run:  func(ctx context.Context) error { return images.Remove(ctx, photo) },
			})
		}
		return c.JSON(http.StatusOK, api.EmptyResponse{Success: true})
	}
}
