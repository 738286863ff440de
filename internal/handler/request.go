// File: internal/handler/request.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// PathID 解析路徑上的整數 ID；格式錯誤時與查無資料一樣回傳 404
func PathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}
	return id, nil
}

// BindAndValidate 先 Bind 再交給 echo 的 Validator；驗證錯誤原樣回傳給 ErrorHandler 轉譯
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
