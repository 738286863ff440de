// File: internal/api/update_user_request.go
package api

import "devcamper/internal/model"

// UpdateDetailsRequest 未帶的欄位沿用目前的值
// swagger:model api.UpdateDetailsRequest
type UpdateDetailsRequest struct {
	Name  string `json:"name" form:"name" validate:"required" example:"Alice"`
	Email string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
}

// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name  string `json:"name" form:"name" validate:"required" example:"Alice"`
	Email string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Role  string `json:"role" form:"role" validate:"required,oneof=user publisher admin" example:"publisher"`
}

// NewUpdateUserRequest 以現有資料預填，Bind 只覆蓋請求中出現的欄位
func NewUpdateUserRequest(u *model.User) UpdateUserRequest {
	return UpdateUserRequest{Name: u.Name, Email: u.Email, Role: u.Role.String()}
}
