package models

import (
	"encoding/json"
	"time"

	"devcamper/internal/query"
)

// Review is a user's rating of a bootcamp. A user reviews a bootcamp at most once.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title      string    `json:"title" validate:"required,max=100"`
	Text       string    `json:"text" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=10"`
	BootcampID string    `json:"-" gorm:"uniqueIndex:idx_review_bootcamp_user;type:varchar(36)" validate:"required"`
	UserID     string    `json:"user" gorm:"uniqueIndex:idx_review_bootcamp_user;type:varchar(36)" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`

	Bootcamp *BootcampSummary `json:"-" gorm:"-"`
}

func (r Review) MarshalJSON() ([]byte, error) {
	type plain Review
	out := struct {
		plain
		Bootcamp any `json:"bootcamp"`
	}{plain: plain(r), Bootcamp: r.BootcampID}
	if r.Bootcamp != nil {
		out.Bootcamp = r.Bootcamp
	}
	return json.Marshal(out)
}

var ReviewSchema = query.Schema{
	"title":     query.String,
	"text":      query.String,
	"rating":    query.Number,
	"bootcamp":  query.ID,
	"user":      query.ID,
	"createdAt": query.Time,
}
