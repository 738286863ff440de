package users

import (
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	listUsers    = store.ListUsers
	createUser   = store.CreateUser
	getUserByID  = store.GetUserByID
	updateUser   = store.UpdateUser
	deleteUser   = store.DeleteUser
)

// @Summary     List users
// @Description 僅限 admin；支援與其他列表相同的查詢參數
// @Tags        users
// @Produce     json
// @Param       select query    string false "逗號分隔的欄位"
// @Param       sort   query    string false "排序欄位" default(-createdAt)
// @Param       page   query    int    false "頁碼"   default(1)
// @Param       limit  query    int    false "每頁筆數" default(100)
// @Success     200    {object} query.Result
// @Failure     401    {object} api.ErrorResponse
// @Failure     403    {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := listUsers(c.Request().Context(), db, c.QueryParams())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// @Summary     Create a new user
// @Description 接收使用者資料並建立新帳號 (Email 會自動轉小寫)，可指定任何角色
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user := &model.User{Name: req.Name, Email: strings.ToLower(req.Email)}
		if req.Role != "" {
			role, err := model.ParseRole(req.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			user.Role = role
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash

		created, err := createUser(c.Request().Context(), db, user)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.UserResponse{Success: true, Data: created})
	}
}

// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.UserResponse{Success: true, Data: user})
	}
}

// @Summary     Update a user
// @Description 部分更新姓名、Email 與角色；密碼不可由此修改
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "使用者 ID"
// @Param       body body     api.UpdateUserRequest true "要更新的欄位"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [put]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, id)
		if err != nil {
			return err
		}

		req := api.NewUpdateUserRequest(user)
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		role, err := model.ParseRole(req.Role)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		user.Name = req.Name
		user.Email = strings.ToLower(req.Email)
		user.Role = role

		if err := updateUser(ctx, db, user); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.UserResponse{Success: true, Data: user})
	}
}

// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.EmptyResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.EmptyResponse{Success: true})
	}
}
