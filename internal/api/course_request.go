// File: internal/api/course_request.go
package api

import "devcamper/internal/model"

// swagger:model api.CourseRequest
type CourseRequest struct {
	Title                string  `json:"title" form:"title" validate:"required" example:"Front End Web Development"`
	Description          string  `json:"description" form:"description" validate:"required" example:"HTML, CSS and JavaScript"`
	Weeks                string  `json:"weeks" form:"weeks" validate:"required" example:"8"`
	Tuition              float64 `json:"tuition" form:"tuition" validate:"gt=0" example:"8000"`
	MinimumSkill         string  `json:"minimumSkill" form:"minimumSkill" validate:"required,oneof=beginner intermediate advanced" example:"beginner"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable" form:"scholarshipAvailable" example:"true"`
}

func NewCourseRequest(c *model.Course) CourseRequest {
	return CourseRequest{
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
	}
}

func (r *CourseRequest) Apply(c *model.Course) {
	c.Title = r.Title
	c.Description = r.Description
	c.Weeks = r.Weeks
	c.Tuition = r.Tuition
	c.MinimumSkill = r.MinimumSkill
	c.ScholarshipAvailable = r.ScholarshipAvailable
}

// swagger:model api.ReviewRequest
type ReviewRequest struct {
	Title  string `json:"title" form:"title" validate:"required,max=100" example:"Learned a ton!"`
	Text   string `json:"text" form:"text" validate:"required" example:"Great instructors."`
	Rating int    `json:"rating" form:"rating" validate:"required,min=1,max=10" example:"8"`
}

func NewReviewRequest(r *model.Review) ReviewRequest {
	return ReviewRequest{Title: r.Title, Text: r.Text, Rating: r.Rating}
}

func (req *ReviewRequest) Apply(r *model.Review) {
	r.Title = req.Title
	r.Text = req.Text
	r.Rating = req.Rating
}
