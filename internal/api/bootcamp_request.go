// File: internal/api/bootcamp_request.go
package api

import (
	"devcamper/internal/model"
)

// swagger:model api.BootcampRequest
type BootcampRequest struct {
	Name          string   `json:"name" form:"name" validate:"required,max=50" example:"Devworks Bootcamp"`
	Description   string   `json:"description" form:"description" validate:"required,max=500" example:"Full stack web development"`
	Website       string   `json:"website" form:"website" validate:"omitempty,url" example:"https://devworks.com"`
	Phone         string   `json:"phone" form:"phone" validate:"omitempty,max=20" example:"(111) 111-1111"`
	Email         string   `json:"email" form:"email" validate:"omitempty,email" example:"enroll@devworks.com"`
	Address       string   `json:"address" form:"address" validate:"required" example:"233 Bay State Rd Boston MA 02215"`
	Careers       []string `json:"careers" form:"careers" validate:"required,min=1,dive,oneof='Web Development' 'Mobile Development' UI/UX 'Data Science' Business Other" example:"Web Development,UI/UX"`
	Housing       bool     `json:"housing" form:"housing" example:"true"`
	JobAssistance bool     `json:"jobAssistance" form:"jobAssistance" example:"true"`
	JobGuarantee  bool     `json:"jobGuarantee" form:"jobGuarantee" example:"false"`
	AcceptGI      bool     `json:"acceptGi" form:"acceptGi" example:"true"`
}

// NewBootcampRequest 以現有 bootcamp 預填，供部分更新使用
func NewBootcampRequest(b *model.Bootcamp) BootcampRequest {
	return BootcampRequest{
		Name:          b.Name,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		Careers:       append([]string(nil), b.Careers...),
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGI:      b.AcceptGI,
	}
}

// Apply 將請求內容寫回 model，地址與座標由 handler 另外處理
func (r *BootcampRequest) Apply(b *model.Bootcamp) {
	b.Name = r.Name
	b.Description = r.Description
	b.Website = r.Website
	b.Phone = r.Phone
	b.Email = r.Email
	b.Address = r.Address
	b.Careers = r.Careers
	b.Housing = r.Housing
	b.JobAssistance = r.JobAssistance
	b.JobGuarantee = r.JobGuarantee
	b.AcceptGI = r.AcceptGI
}
