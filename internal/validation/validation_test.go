package validation_test

import (
	"errors"
	"testing"

	"devcamper/internal/models"
	"devcamper/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBootcamp() *models.Bootcamp {
	return &models.Bootcamp{
		Name:        "Devworks Bootcamp",
		Description: "Full stack web development",
		Careers:     []string{"Web Development", "UI/UX"},
		Website:     "https://devworks.com",
		UserID:      "u1",
	}
}

func TestCheck_Valid(t *testing.T) {
	assert.NoError(t, validation.Check(validBootcamp()))
}

func TestCheck_ReportsJSONFieldNames(t *testing.T) {
	b := validBootcamp()
	b.Name = ""
	b.Website = "not a url"

	err := validation.Check(b)
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Messages, 2)
	assert.Contains(t, err.Error(), "name is a required field")
	assert.Contains(t, err.Error(), "website must be a valid URL")
}

func TestCheck_UnknownCareer(t *testing.T) {
	b := validBootcamp()
	b.Careers = []string{"Basket Weaving"}

	err := validation.Check(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestCheck_ReviewRatingRange(t *testing.T) {
	r := &models.Review{Title: "Great", Text: "Loved it", Rating: 11, BootcampID: "b1", UserID: "u1"}
	err := validation.Check(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")
}
