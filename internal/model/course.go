// File: internal/model/course.go
package model

import (
	"encoding/json"
	"time"
)

type Course struct {
	ID                   int       `db:"id" json:"id"`
	BootcampID           int       `db:"bootcamp_id" json:"bootcamp"`
	UserID               int       `db:"user_id" json:"user"`
	Title                string    `db:"title" json:"title"`
	Description          string    `db:"description" json:"description"`
	Weeks                string    `db:"weeks" json:"weeks"`
	Tuition              float64   `db:"tuition" json:"tuition"`
	MinimumSkill         string    `db:"minimum_skill" json:"minimumSkill"`
	ScholarshipAvailable bool      `db:"scholarship_available" json:"scholarshipAvailable"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`

	Bootcamp *BootcampRef `json:"-"` // 有值時序列化取代 bootcamp ID
}

func (c *Course) OwnerID() int { return c.UserID }

func (c Course) MarshalJSON() ([]byte, error) {
	type plain Course
	return json.Marshal(struct {
		plain
		Bootcamp any `json:"bootcamp"`
	}{plain(c), bootcampField(c.BootcampID, c.Bootcamp)})
}

type Review struct {
	ID         int       `db:"id" json:"id"`
	BootcampID int       `db:"bootcamp_id" json:"bootcamp"`
	UserID     int       `db:"user_id" json:"user"`
	Title      string    `db:"title" json:"title"`
	Text       string    `db:"text" json:"text"`
	Rating     int       `db:"rating" json:"rating"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	Bootcamp *BootcampRef `json:"-"`
}

func (r *Review) OwnerID() int { return r.UserID }

func (r Review) MarshalJSON() ([]byte, error) {
	type plain Review
	return json.Marshal(struct {
		plain
		Bootcamp any `json:"bootcamp"`
	}{plain(r), bootcampField(r.BootcampID, r.Bootcamp)})
}

func bootcampField(id int, ref *BootcampRef) any {
	if ref != nil {
		return ref
	}
	return id
}
