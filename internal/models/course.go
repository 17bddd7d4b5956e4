package models

import (
	"encoding/json"
	"time"

	"devcamper/internal/query"
)

// Skill levels a course may require.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Course belongs to a bootcamp and is created by that bootcamp's publisher.
type Course struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title                string    `json:"title" validate:"required,max=100"`
	Description          string    `json:"description" validate:"required"`
	Weeks                int       `json:"weeks" validate:"required,gt=0"`
	Tuition              float64   `json:"tuition" validate:"gte=0"`
	MinimumSkill         string    `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool      `json:"scholarshipAvailable"`
	BootcampID           string    `json:"-" gorm:"index;type:varchar(36)" validate:"required"`
	UserID               string    `json:"user" gorm:"index;type:varchar(36)" validate:"required"`
	CreatedAt            time.Time `json:"createdAt"`

	// Bootcamp is set when a list request expands the parent bootcamp.
	Bootcamp *BootcampSummary `json:"-" gorm:"-"`
}

// MarshalJSON renders "bootcamp" as the expanded summary when present and as the id otherwise.
func (c Course) MarshalJSON() ([]byte, error) {
	type plain Course
	out := struct {
		plain
		Bootcamp any `json:"bootcamp"`
	}{plain: plain(c), Bootcamp: c.BootcampID}
	if c.Bootcamp != nil {
		out.Bootcamp = c.Bootcamp
	}
	return json.Marshal(out)
}

// CourseSchema lists the course fields usable in list queries.
var CourseSchema = query.Schema{
	"title":                query.String,
	"description":          query.String,
	"weeks":                query.Number,
	"tuition":              query.Number,
	"minimumSkill":         query.String,
	"scholarshipAvailable": query.Bool,
	"bootcamp":             query.ID,
	"user":                 query.ID,
	"createdAt":            query.Time,
}
