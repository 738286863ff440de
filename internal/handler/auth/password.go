// File: internal/handler/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/mailer"
	"devcamper/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ForgotPasswordHandler 產生重設 token 並寄出重設連結
// @Summary     Forgot password
// @Description 寄出有效 10 分鐘的重設連結；寄信失敗時清除 token 並回傳 500
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ForgotPasswordRequest true "Email"
// @Success     200  {object} api.MessageResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/forgotpassword [post]
func ForgotPasswordHandler(db database.DB, sender mailer.Sender, log *logrus.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ForgotPasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, strings.ToLower(req.Email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return echo.NewHTTPError(http.StatusNotFound, "There is no user with that email")
			}
			return err
		}

		token, err := newResetToken()
		if err != nil {
			return err
		}
		if err := setUserResetToken(ctx, db, user.ID, &token.Hashed, &token.ExpiresAt); err != nil {
			return err
		}

		resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", c.Scheme(), c.Request().Host, token.Raw)
		err = sender.Send(ctx, mailer.Message{
			To:      user.Email,
			Subject: "Password reset token",
			Text: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
				"Please make a PUT request to: \n\n" + resetURL,
		})
		if err != nil {
			log.WithField("user_id", user.ID).WithError(err).Error("send reset email")
			// 寄信失敗時撤回 token
			if rbErr := setUserResetToken(ctx, db, user.ID, nil, nil); rbErr != nil {
				log.WithField("user_id", user.ID).WithError(rbErr).Error("clear reset token")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Email could not be sent").SetInternal(err)
		}

		return c.JSON(http.StatusOK, api.MessageResponse{Success: true, Data: "Email sent"})
	}
}

// ResetPasswordHandler 以重設 token 設定新密碼
// @Summary     Reset password
// @Description token 過期或不存在回傳 400；成功後 token 失效並直接登入
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       resettoken path     string                   true "重設 token"
// @Param       body       body     api.ResetPasswordRequest true "新密碼"
// @Success     200        {object} api.TokenResponse
// @Failure     400        {object} api.ErrorResponse
// @Router      /auth/resetpassword/{resettoken} [put]
func ResetPasswordHandler(db database.DB, opts TokenOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		hashed := service.HashResetToken(c.Param("resettoken"))
		user, err := getUserByResetToken(ctx, db, hashed, timeNow())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
			}
			return err
		}

		var req api.ResetPasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		// UpdateUserPassword 同時清除 reset token，同一個 token 不能再用
		if err := updateUserPassword(ctx, db, user.ID, hash); err != nil {
			return err
		}
		return sendTokenResponse(c, http.StatusOK, user, opts)
	}
}
