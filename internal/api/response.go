// File: internal/api/response.go
package api

import "devcamper/internal/model"

// ErrorResponse 所有失敗回應的格式
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Resource not found"`
}

// TokenResponse 登入、註冊、重設密碼成功時回傳，同時設定 token cookie
// swagger:model api.TokenResponse
type TokenResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    string `json:"data" example:"Email sent"`
}

// EmptyResponse 刪除成功時 data 為空物件
// swagger:model api.EmptyResponse
type EmptyResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    struct{} `json:"data"`
}

// swagger:model api.UserResponse
type UserResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    *model.User `json:"data"`
}

// swagger:model api.BootcampResponse
type BootcampResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    *model.Bootcamp `json:"data"`
}

// swagger:model api.BootcampListResponse
type BootcampListResponse struct {
	Success bool             `json:"success" example:"true"`
	Count   int              `json:"count" example:"1"`
	Data    []model.Bootcamp `json:"data"`
}

// swagger:model api.CourseResponse
type CourseResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    *model.Course `json:"data"`
}

// swagger:model api.ReviewResponse
type ReviewResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    *model.Review `json:"data"`
}

// swagger:model api.PhotoResponse
type PhotoResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    string `json:"data" example:"image_1.jpg"`
}
