// File: internal/policy/ownership.go
package policy

import (
	"fmt"
	"net/http"

	"devcamper/internal/model"

	"github.com/labstack/echo/v4"
)

// Owned 由 Bootcamp、Course、Review 實作
type Owned interface {
	OwnerID() int
}

// CheckOwnership 只有擁有者或管理員可以修改資源；必須在資源取得之後呼叫
func CheckOwnership(identity *model.User, resource Owned, action string) error {
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
	}
	if identity.Role.IsAdmin() || resource.OwnerID() == identity.ID {
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden,
		fmt.Sprintf("User %d is not authorized to %s", identity.ID, action))
}
