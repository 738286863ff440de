// File: internal/api/login_request.go
package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
}

// swagger:model api.ResetPasswordRequest
type ResetPasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=6" example:"NewSecret456!"`
}

// swagger:model api.UpdatePasswordRequest
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required" example:"OldSecret123!"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=6" example:"NewSecret456!"`
}
