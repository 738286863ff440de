// File: internal/handler/auth/me.go
package auth

import (
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/middleware"

	"github.com/labstack/echo/v4"
)

// MeHandler 回傳目前登入的使用者
// @Summary     Get current user
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/me [get]
func MeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.UserResponse{Success: true, Data: middleware.CurrentUser(c)})
	}
}

// UpdateDetailsHandler 更新目前使用者的姓名與 Email
// @Summary     Update current user details
// @Description 只接受 name 與 email；未帶的欄位沿用目前的值
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateDetailsRequest true "使用者資料"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/updatedetails [put]
func UpdateDetailsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		current := middleware.CurrentUser(c)
		req := api.UpdateDetailsRequest{Name: current.Name, Email: current.Email}
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user := *current
		user.Name = req.Name
		user.Email = strings.ToLower(req.Email)
		if err := updateUser(c.Request().Context(), db, &user); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.UserResponse{Success: true, Data: &user})
	}
}

// UpdatePasswordHandler 驗證目前密碼後更換新密碼，並發行新的 token
// @Summary     Update current user password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdatePasswordRequest true "目前密碼與新密碼"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/updatepassword [put]
func UpdatePasswordHandler(db database.DB, opts TokenOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdatePasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user := middleware.CurrentUser(c)
		if err := authenticateUser(*user, req.CurrentPassword); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Password is incorrect")
		}
		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if err := updateUserPassword(c.Request().Context(), db, user.ID, hash); err != nil {
			return err
		}
		return sendTokenResponse(c, http.StatusOK, user, opts)
	}
}

// LogoutHandler 撤銷目前的 token 並清除 cookie
// @Summary     Logout
// @Description token 的 jti 寫入 Redis 直到原本到期，cookie 改為 "none" 並於 10 秒後失效
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.EmptyResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [get]
func LogoutHandler(rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims := middleware.CurrentClaims(c); claims != nil {
			if err := revokeAccessToken(c.Request().Context(), rdb, claims); err != nil {
				return err
			}
		}
		c.SetCookie(&http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "none",
			Path:     "/",
			Expires:  timeNow().Add(logoutCookieTTL),
			HttpOnly: true,
		})
		return c.JSON(http.StatusOK, api.EmptyResponse{Success: true})
	}
}
