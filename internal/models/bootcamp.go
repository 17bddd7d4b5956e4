package models

import (
	"time"

	"devcamper/internal/query"
)

// Careers a bootcamp may prepare students for.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

const DefaultPhoto = "no-photo.jpg"

// Location is a GeoJSON point plus the address it was geocoded from.
// Coordinates are [longitude, latitude].
type Location struct {
	Type             string    `json:"type,omitempty"`
	Coordinates      []float64 `json:"coordinates,omitempty" gorm:"serializer:json"`
	FormattedAddress string    `json:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

// Point returns longitude and latitude, ok is false when the location was never geocoded.
func (l Location) Point() (lng, lat float64, ok bool) {
	if len(l.Coordinates) != 2 {
		return 0, 0, false
	}
	return l.Coordinates[0], l.Coordinates[1], true
}

// Bootcamp is a listed coding school.
type Bootcamp struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
	Slug          string    `json:"slug" gorm:"index"`
	Description   string    `json:"description" validate:"required,max=500"`
	Website       string    `json:"website,omitempty" validate:"omitempty,url"`
	Phone         string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string    `json:"email,omitempty" validate:"omitempty,email"`
	Location      Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Careers       []string  `json:"careers" gorm:"serializer:json" validate:"required,min=1,dive,career"`
	AverageRating *float64  `json:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	UserID        string    `json:"user" gorm:"index;type:varchar(36)" validate:"required"`
	CreatedAt     time.Time `json:"createdAt"`

	// Courses is only filled when a list request expands them.
	Courses []Course `json:"courses,omitempty" gorm:"-"`
}

// BootcampSummary is the part of a bootcamp embedded in expanded courses and reviews.
type BootcampSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (b *Bootcamp) Summary() *BootcampSummary {
	return &BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
}

// BootcampSchema lists the bootcamp fields usable in list queries.
var BootcampSchema = query.Schema{
	"name":             query.String,
	"slug":             query.String,
	"description":      query.String,
	"website":          query.String,
	"phone":            query.String,
	"email":            query.String,
	"careers":          query.StringList,
	"averageRating":    query.Number,
	"averageCost":      query.Number,
	"photo":            query.String,
	"housing":          query.Bool,
	"jobAssistance":    query.Bool,
	"jobGuarantee":     query.Bool,
	"acceptGi":         query.Bool,
	"user":             query.ID,
	"createdAt":        query.Time,
	"location":         query.String,
	"location.city":    query.String,
	"location.state":   query.String,
	"location.zipcode": query.String,
	"location.country": query.String,
}
