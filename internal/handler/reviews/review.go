// File: internal/handler/reviews/review.go
package reviews

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
	listReviews     = store.ListReviews
	getReviewByID   = store.GetReviewByID
	getBootcampByID = store.GetBootcampByID
	getBootcampRefs = store.GetBootcampRefs
	createReview    = store.CreateReview
	updateReview    = store.UpdateReview
	deleteReview    = store.DeleteReview
)

// ListReviewsHandler 列出評論；巢狀路由下只列出該 bootcamp 的評論
// @Summary     List reviews
// @Tags        reviews
// @Produce     json
// @Param       select query    string false "逗號分隔的欄位"
// @Param       sort   query    string false "排序欄位" default(-createdAt)
// @Param       page   query    int    false "頁碼"   default(1)
// @Param       limit  query    int    false "每頁筆數" default(100)
// @Success     200    {object} query.Result
// @Failure     400    {object} api.ErrorResponse
// @Router      /reviews [get]
// @Router      /bootcamps/{bootcampId}/reviews [get]
func ListReviewsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID := 0
		if c.Param("bootcampId") != "" {
			id, err := handler.PathID(c, "bootcampId")
			if err != nil {
				return err
			}
			bootcampID = id
		}
		res, err := listReviews(c.Request().Context(), db, c.QueryParams(), bootcampID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// @Summary     Get a review
// @Tags        reviews
// @Produce     json
// @Param       id  path     int true "Review ID"
// @Success     200 {object} api.ReviewResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /reviews/{id} [get]
func GetReviewHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		review, err := getReviewByID(ctx, db, id)
		if err != nil {
			return err
		}
		refs, err := getBootcampRefs(ctx, db, []int{review.BootcampID})
		if err != nil {
			return err
		}
		review.Bootcamp = refs[review.BootcampID]
		return c.JSON(http.StatusOK, api.ReviewResponse{Success: true, Data: review})
	}
}

// AddReviewHandler 新增評論；每位使用者對同一 bootcamp 只能評論一次
// @Summary     Add a review
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       bootcampId path     int               true "Bootcamp ID"
// @Param       body       body     api.ReviewRequest true "評論內容"
// @Success     201        {object} api.ReviewResponse
// @Failure     400        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /bootcamps/{bootcampId}/reviews [post]
func AddReviewHandler(db database.DB) echo.HandlerFunc {
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

		var req api.ReviewRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		review := &model.Review{BootcampID: bootcamp.ID, UserID: middleware.CurrentUser(c).ID}
		req.Apply(review)
		created, err := createReview(ctx, db, review)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.ReviewResponse{Success: true, Data: created})
	}
}

// @Summary     Update a review
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       id   path     int               true "Review ID"
// @Param       body body     api.ReviewRequest true "要更新的欄位"
// @Success     200  {object} api.ReviewResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /reviews/{id} [put]
func UpdateReviewHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		review, err := getReviewByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), review, fmt.Sprintf("update review %d", review.ID)); err != nil {
			return err
		}

		req := api.NewReviewRequest(review)
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		req.Apply(review)
		if err := updateReview(ctx, db, review); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.ReviewResponse{Success: true, Data: review})
	}
}

// @Summary     Delete a review
// @Tags        reviews
// @Produce     json
// @Param       id  path     int true "Review ID"
// @Success     200 {object} api.EmptyResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /reviews/{id} [delete]
func DeleteReviewHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		review, err := getReviewByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err := policy.CheckOwnership(middleware.CurrentUser(c), review, fmt.Sprintf("delete review %d", review.ID)); err != nil {
			return err
		}
		if err := deleteReview(ctx, db, review); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.EmptyResponse{Success: true})
	}
}
