// File: internal/handler/auth/register.go
package auth

import (
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/model"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 註冊新帳號並直接登入
// @Summary     Register user
// @Description 建立帳號 (role 只能是 user 或 publisher)，回傳 token 並設定 cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, opts TokenOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		role := model.RoleUser
		if req.Role != "" {
			r, err := model.ParseRole(req.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			role = r
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        strings.ToLower(req.Email),
			Role:         role,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		return sendTokenResponse(c, http.StatusOK, user, opts)
	}
}
