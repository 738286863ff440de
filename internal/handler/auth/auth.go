// File: internal/handler/auth/auth.go
package auth

import (
	"net/http"
	"time"

	"devcamper/internal/api"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword        = service.HashPassword
	authenticateUser    = service.AuthenticateUser
	issueAccessToken    = service.IssueAccessToken
	revokeAccessToken   = service.RevokeAccessToken
	newResetToken       = service.NewResetToken
	createUser          = store.CreateUser
	getUserByEmail      = store.GetUserByEmail
	getUserByResetToken = store.GetUserByResetToken
	updateUser          = store.UpdateUser
	updateUserPassword  = store.UpdateUserPassword
	setUserResetToken   = store.SetUserResetToken
	timeNow             = time.Now
)

// logoutCookieTTL 登出後 token cookie 以 "none" 覆蓋的存活時間
const logoutCookieTTL = 10 * time.Second

// TokenOptions 控制登入類回應發出的 token 與 cookie
type TokenOptions struct {
	TTL        time.Duration
	CookieDays int
	Secure     bool
}

// sendTokenResponse 發行 token，同時寫入 HttpOnly cookie 與 JSON body
func sendTokenResponse(c echo.Context, status int, user *model.User, opts TokenOptions) error {
	token, err := issueAccessToken(*user, opts.TTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  timeNow().Add(time.Duration(opts.CookieDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   opts.Secure,
	})
	return c.JSON(status, api.TokenResponse{Success: true, Token: token})
}
