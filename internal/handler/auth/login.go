// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     Login user
// @Description 驗證成功回傳 token，並設定 HttpOnly cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, opts TokenOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errInvalidCredentials
			}
			return err
		}
		// 找不到使用者與密碼錯誤回傳相同訊息
		if err := authenticateUser(*user, req.Password); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return errInvalidCredentials
			}
			return err
		}
		return sendTokenResponse(c, http.StatusOK, user, opts)
	}
}
