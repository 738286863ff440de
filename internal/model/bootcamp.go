// File: internal/model/bootcamp.go
package model

import "time"

const DefaultPhoto = "no-photo.jpg"

// Careers 允許的職涯分類
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

type Bootcamp struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user"`
	Name          string    `db:"name" json:"name"`
	Slug          string    `db:"slug" json:"slug"`
	Description   string    `db:"description" json:"description"`
	Website       string    `db:"website" json:"website"`
	Phone         string    `db:"phone" json:"phone"`
	Email         string    `db:"email" json:"email"`
	Address       string    `db:"address" json:"address"`
	Location      Location  `json:"location"`
	Careers       []string  `db:"careers" json:"careers"`
	AverageRating *float64  `db:"average_rating" json:"averageRating"`
	AverageCost   *float64  `db:"average_cost" json:"averageCost"`
	Photo         string    `db:"photo" json:"photo"`
	Housing       bool      `db:"housing" json:"housing"`
	JobAssistance bool      `db:"job_assistance" json:"jobAssistance"`
	JobGuarantee  bool      `db:"job_guarantee" json:"jobGuarantee"`
	AcceptGI      bool      `db:"accept_gi" json:"acceptGi"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	Courses       []Course  `json:"courses,omitempty"`
}

func (b *Bootcamp) OwnerID() int { return b.UserID }

// BootcampRef 是 course、review 內嵌的 bootcamp 摘要
type BootcampRef struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
