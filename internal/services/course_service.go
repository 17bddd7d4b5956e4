package services

import (
	"context"
	"errors"
	"math"
	"slices"

	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/repositories"
	"devcamper/internal/validation"

	"go.uber.org/zap"
)

// CourseInput is the writable part of a course. Nil fields are left untouched on update.
type CourseInput struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *int     `json:"weeks"`
	Tuition              *float64 `json:"tuition"`
	MinimumSkill         *string  `json:"minimumSkill"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

func (in CourseInput) apply(c *models.Course) {
	setString(&c.Title, in.Title)
	setString(&c.Description, in.Description)
	if in.Weeks != nil {
		c.Weeks = *in.Weeks
	}
	if in.Tuition != nil {
		c.Tuition = *in.Tuition
	}
	setString(&c.MinimumSkill, in.MinimumSkill)
	setBool(&c.ScholarshipAvailable, in.ScholarshipAvailable)
}

// CourseService handles business logic related to courses.
type CourseService struct {
	courses   repositories.CourseRepository
	bootcamps repositories.BootcampRepository
	events    events.Publisher
	logger    *zap.Logger
}

func NewCourseService(repos repositories.Set, pub events.Publisher, logger *zap.Logger) *CourseService {
	return &CourseService{
		courses:   repos.Courses,
		bootcamps: repos.Bootcamps,
		events:    pub,
		logger:    logger.Named("CourseService"),
	}
}

// List runs the list pipeline over every course and attaches the parent bootcamp summary.
func (s *CourseService) List(ctx context.Context, q query.Query) (*query.Result[models.Course], error) {
	return query.Run[models.Course](ctx, s.courses, withField(q, "bootcamp"), expandBootcamps[models.Course](s.bootcamps, func(c *models.Course) (string, **models.BootcampSummary) {
		return c.BootcampID, &c.Bootcamp
	}))
}

// ListByBootcamp lists the courses of one bootcamp.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string, q query.Query) (*query.Result[models.Course], error) {
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, notFound(err, "No bootcamp with the id of %s", bootcampID)
	}
	return query.Run[models.Course](ctx, s.courses, q.Where("bootcamp", query.ID, bootcampID))
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No course with the id of %s", id)
	}
	if b, err := s.bootcamps.GetByID(ctx, c.BootcampID); err == nil {
		c.Bootcamp = b.Summary()
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return c, nil
}

// Create adds a course to a bootcamp the actor owns.
func (s *CourseService) Create(ctx context.Context, actor *models.User, bootcampID string, in CourseInput) (*models.Course, error) {
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, notFound(err, "No bootcamp with the id of %s", bootcampID)
	}
	if err := ensureOwner(actor, b.UserID, "add a course to bootcamp "+b.ID); err != nil {
		return nil, err
	}

	c := &models.Course{BootcampID: b.ID, UserID: actor.ID}
	in.apply(c)
	if err := validation.Check(c); err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.refreshAverageCost(ctx, b.ID); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.CourseCreated, c.ID, actor.ID, b.ID))
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, actor *models.User, id string, in CourseInput) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No course with the id of %s", id)
	}
	if err := ensureOwner(actor, c.UserID, "update course "+c.ID); err != nil {
		return nil, err
	}

	in.apply(c)
	if err := validation.Check(c); err != nil {
		return nil, err
	}
	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := s.refreshAverageCost(ctx, c.BootcampID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *models.User, id string) error {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "No course with the id of %s", id)
	}
	if err := ensureOwner(actor, c.UserID, "delete course "+c.ID); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, c.ID); err != nil {
		return err
	}
	if err := s.refreshAverageCost(ctx, c.BootcampID); err != nil {
		return err
	}

	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.CourseDeleted, c.ID, actor.ID, c.BootcampID))
	return nil
}

// refreshAverageCost stores the mean tuition rounded up to a multiple of ten.
func (s *CourseService) refreshAverageCost(ctx context.Context, bootcampID string) error {
	avg, err := s.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		return err
	}
	if avg != nil {
		rounded := RoundCost(*avg)
		avg = &rounded
	}
	err = s.bootcamps.SetAverageCost(ctx, bootcampID, avg)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("Bootcamp vanished before its average cost was stored", zap.String("bootcamp_id", bootcampID))
		return nil
	}
	return err
}

// RoundCost rounds v up to the next multiple of ten.
func RoundCost(v float64) float64 {
	return math.Ceil(v/10) * 10
}

// withField makes sure a projected query still loads field.
func withField(q query.Query, field string) query.Query {
	if len(q.Select) == 0 || slices.Contains(q.Select, field) {
		return q
	}
	q.Select = append(slices.Clone(q.Select), field)
	return q
}

// expandBootcamps loads the parent bootcamps of a page in one call. ref
// returns the parent id and the field the summary goes into.
func expandBootcamps[T any](repo repositories.BootcampRepository, ref func(*T) (string, **models.BootcampSummary)) query.Expander[T] {
	return func(ctx context.Context, items []T) error {
		ids := make([]string, 0, len(items))
		seen := make(map[string]bool, len(items))
		for i := range items {
			id, _ := ref(&items[i])
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		bootcamps, err := repo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*models.BootcampSummary, len(bootcamps))
		for i := range bootcamps {
			byID[bootcamps[i].ID] = bootcamps[i].Summary()
		}
		for i := range items {
			id, dst := ref(&items[i])
			*dst = byID[id]
		}
		return nil
	}
}
