package services_test

import (
	"context"
	"net/http"
	"testing"

	"devcamper/internal/apperror"
	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/repositories"
	"devcamper/internal/services"
	"devcamper/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 { return &v }

func TestRoundCost(t *testing.T) {
	assert.Equal(t, 9010.0, services.RoundCost(9000.5))
	assert.Equal(t, 9000.0, services.RoundCost(9000))
	assert.Equal(t, 10.0, services.RoundCost(0.1))
}

func newCourseService() (*services.CourseService, *MockCourseRepository, *MockBootcampRepository) {
	courses, bootcamps := new(MockCourseRepository), new(MockBootcampRepository)
	svc := services.NewCourseService(repositories.Set{Courses: courses, Bootcamps: bootcamps}, events.Nop{}, zap.NewNop())
	return svc, courses, bootcamps
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()
	svc, courses, bootcamps := newCourseService()
	bootcamp := &models.Bootcamp{ID: "b1", Name: "Devworks", UserID: "owner"}
	bootcamps.On("GetByID", ctx, "b1").Return(bootcamp, nil)

	weeks, tuition, skill := 12, 9000.5, models.SkillIntermediate
	in := services.CourseInput{Title: strPtr("Front End"), Description: strPtr("d"), Weeks: &weeks, Tuition: &tuition, MinimumSkill: &skill}

	_, err := svc.Create(ctx, &models.User{ID: "stranger", Role: models.RolePublisher}, "b1", in)
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	courses.On("Create", ctx, mock.AnythingOfType("*models.Course")).Return(nil).Once()
	courses.On("AverageTuition", ctx, "b1").Return(floatPtr(9000.5), nil).Once()
	bootcamps.On("SetAverageCost", ctx, "b1", floatPtr(9010)).Return(nil).Once()

	c, err := svc.Create(ctx, &models.User{ID: "owner", Role: models.RolePublisher}, "b1", in)
	require.NoError(t, err)
	assert.Equal(t, "b1", c.BootcampID)
	assert.Equal(t, "owner", c.UserID)
	courses.AssertExpectations(t)
	bootcamps.AssertExpectations(t)
}

func TestCourseService_CreateValidates(t *testing.T) {
	ctx := context.Background()
	svc, courses, bootcamps := newCourseService()
	bootcamps.On("GetByID", ctx, "b1").Return(&models.Bootcamp{ID: "b1", UserID: "owner"}, nil)

	weeks, skill := 0, "guru"
	_, err := svc.Create(ctx, &models.User{ID: "owner", Role: models.RolePublisher}, "b1", services.CourseInput{Title: strPtr("t"), Weeks: &weeks, MinimumSkill: &skill})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.ErrorContains(t, err, "minimumSkill")
	assert.ErrorContains(t, err, "weeks")
	courses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCourseService_DeleteLastCourseClearsAverage(t *testing.T) {
	ctx := context.Background()
	svc, courses, bootcamps := newCourseService()
	course := &models.Course{ID: "c1", BootcampID: "b1", UserID: "owner"}

	courses.On("GetByID", ctx, "c1").Return(course, nil)
	_, err := svc.Update(ctx, &models.User{ID: "stranger", Role: models.RoleUser}, "c1", services.CourseInput{})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	courses.On("Delete", ctx, "c1").Return(nil).Once()
	courses.On("AverageTuition", ctx, "b1").Return(nil, nil).Once()
	bootcamps.On("SetAverageCost", ctx, "b1", (*float64)(nil)).Return(nil).Once()

	require.NoError(t, svc.Delete(ctx, &models.User{ID: "admin", Role: models.RoleAdmin}, "c1"))
	courses.AssertExpectations(t)
	bootcamps.AssertExpectations(t)
}

func TestCourseService_ListExpandsBootcamps(t *testing.T) {
	ctx := context.Background()
	svc, courses, bootcamps := newCourseService()

	q := query.Query{Select: []string{"title"}, Page: 1, Limit: 25}
	expected := q
	expected.Select = []string{"title", "bootcamp"}

	courses.On("CountAll", ctx).Return(int64(3), nil)
	courses.On("Find", ctx, expected).Return([]models.Course{
		{ID: "c1", BootcampID: "b1"}, {ID: "c2", BootcampID: "b1"}, {ID: "c3", BootcampID: "b2"},
	}, nil)
	bootcamps.On("GetByIDs", ctx, []string{"b1", "b2"}).Return([]models.Bootcamp{
		{ID: "b1", Name: "One", Description: "first"}, {ID: "b2", Name: "Two", Description: "second"},
	}, nil)

	res, err := svc.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, &models.BootcampSummary{ID: "b1", Name: "One", Description: "first"}, res.Items[1].Bootcamp)
	assert.Equal(t, "Two", res.Items[2].Bootcamp.Name)
	assert.Equal(t, []string{"title"}, q.Select, "caller's query is not modified")
}

func TestCourseService_ListByBootcamp(t *testing.T) {
	ctx := context.Background()
	svc, courses, bootcamps := newCourseService()
	q := query.Query{Page: 1, Limit: 25}

	bootcamps.On("GetByID", ctx, "missing").Return(nil, models.ErrNotFound)
	_, err := svc.ListByBootcamp(ctx, "missing", q)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	bootcamps.On("GetByID", ctx, "b1").Return(&models.Bootcamp{ID: "b1"}, nil)
	courses.On("CountAll", ctx).Return(int64(1), nil)
	courses.On("Find", ctx, q.Where("bootcamp", query.ID, "b1")).Return([]models.Course{{ID: "c1", BootcampID: "b1"}}, nil)

	res, err := svc.ListByBootcamp(ctx, "b1", q)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Nil(t, res.Items[0].Bootcamp)
}
