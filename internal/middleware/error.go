// File: internal/middleware/error.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"devcamper/internal/api"
	"devcamper/internal/query"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// translate 將錯誤轉為 (狀態碼, 訊息)
func translate(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, "Resource not found"
	}
	if errors.Is(err, query.ErrBadQuery) {
		return http.StatusBadRequest, err.Error()
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, validationMessage(fe))
		}
		return http.StatusBadRequest, strings.Join(msgs, ", ")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusBadRequest, "Duplicate field value entered"
		case pgForeignKeyViolation:
			return http.StatusBadRequest, "Referenced resource does not exist"
		case pgCheckViolation, pgStringTooLong:
			return http.StatusBadRequest, "Invalid field value"
		}
	}
	return http.StatusInternalServerError, "Server Error"
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Please add a " + fe.Field()
	case "email":
		return "Please add a valid email"
	case "url":
		return "Please use a valid URL with HTTP or HTTPS"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min", "gt":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s can not be more than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ErrorHandler 是唯一的錯誤輸出點，回應格式為 {success:false, error}
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := translate(err)
		if code >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": code,
			}).WithError(err).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, api.ErrorResponse{Success: false, Error: msg})
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}
