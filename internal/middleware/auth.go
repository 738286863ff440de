// File: internal/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"

	// TokenCookie 登入成功後設定的 cookie 名稱
	TokenCookie = "token"
)

// 所有驗證失敗共用同一個訊息，不區分過期、格式錯誤或被竄改
var errNotAuthorized = echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")

var (
	verifyAccessToken    = service.VerifyAccessToken
	isAccessTokenRevoked = service.IsAccessTokenRevoked
	getUserByID          = store.GetUserByID
)

// tokenFromRequest 先讀 Authorization: Bearer，沒有才讀 token cookie
func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") && token != "" {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" && cookie.Value != "none" {
		return cookie.Value
	}
	return ""
}

// Authenticate 驗證 token、確認未登出，並將資料庫中的使用者放入 context
func Authenticate(db database.DB, rdb cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return errNotAuthorized
			}
			claims, err := verifyAccessToken(token)
			if err != nil {
				return errNotAuthorized
			}

			ctx := c.Request().Context()
			revoked, err := isAccessTokenRevoked(ctx, rdb, claims)
			if err != nil {
				return err
			}
			if revoked {
				return errNotAuthorized
			}

			// 使用者已刪除才視為未授權，其餘錯誤交給 ErrorHandler
			user, err := getUserByID(ctx, db, claims.UserID)
			if errors.Is(err, pgx.ErrNoRows) {
				return errNotAuthorized
			}
			if err != nil {
				return err
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextClaimsKey, claims)
			return next(c)
		}
	}
}

// Authorize 必須接在 Authenticate 之後；角色不在允許清單內回傳 403
func Authorize(roles ...model.Role) echo.MiddlewareFunc {
	allowed := model.NewRoleSet(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return errNotAuthorized
			}
			if !allowed.Has(user.Role) {
				return echo.NewHTTPError(http.StatusForbidden,
					"User role "+user.Role.String()+" is not authorized to access this route")
			}
			return next(c)
		}
	}
}

// CurrentUser 取得 Authenticate 放入的使用者；未驗證時回傳 nil
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ContextUserKey).(*model.User)
	return u
}

// CurrentClaims 取得目前請求的 token claims
func CurrentClaims(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextClaimsKey).(*service.CustomClaims)
	return claims
}
