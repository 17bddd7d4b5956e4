package services

import (
	"context"
	"errors"

	"devcamper/internal/apperror"
	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/repositories"
	"devcamper/internal/validation"

	"go.uber.org/zap"
)

// ReviewInput is the writable part of a review. Nil fields are left untouched on update.
type ReviewInput struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (in ReviewInput) apply(r *models.Review) {
	setString(&r.Title, in.Title)
	setString(&r.Text, in.Text)
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
}

// ReviewService handles business logic related to reviews.
type ReviewService struct {
	reviews   repositories.ReviewRepository
	bootcamps repositories.BootcampRepository
	events    events.Publisher
	logger    *zap.Logger
}

func NewReviewService(repos repositories.Set, pub events.Publisher, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews:   repos.Reviews,
		bootcamps: repos.Bootcamps,
		events:    pub,
		logger:    logger.Named("ReviewService"),
	}
}

func (s *ReviewService) List(ctx context.Context, q query.Query) (*query.Result[models.Review], error) {
	return query.Run[models.Review](ctx, s.reviews, withField(q, "bootcamp"), expandBootcamps[models.Review](s.bootcamps, func(r *models.Review) (string, **models.BootcampSummary) {
		return r.BootcampID, &r.Bootcamp
	}))
}

func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID string, q query.Query) (*query.Result[models.Review], error) {
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, notFound(err, "No bootcamp with the id of %s", bootcampID)
	}
	return query.Run[models.Review](ctx, s.reviews, q.Where("bootcamp", query.ID, bootcampID))
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No review found with the id of %s", id)
	}
	if b, err := s.bootcamps.GetByID(ctx, r.BootcampID); err == nil {
		r.Bootcamp = b.Summary()
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return r, nil
}

// Create stores the actor's review of a bootcamp. A second review of the same bootcamp is rejected.
func (s *ReviewService) Create(ctx context.Context, actor *models.User, bootcampID string, in ReviewInput) (*models.Review, error) {
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, notFound(err, "No bootcamp with the id of %s", bootcampID)
	}

	r := &models.Review{BootcampID: b.ID, UserID: actor.ID}
	in.apply(r)
	if err := validation.Check(r); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, apperror.BadRequest("User %s has already reviewed bootcamp %s", actor.ID, b.ID)
		}
		return nil, err
	}
	if err := s.refreshAverageRating(ctx, b.ID); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.ReviewCreated, r.ID, actor.ID, b.ID))
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *models.User, id string, in ReviewInput) (*models.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No review with the id of %s", id)
	}
	if err := ensureOwner(actor, r.UserID, "update review "+r.ID); err != nil {
		return nil, err
	}

	in.apply(r)
	if err := validation.Check(r); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	if err := s.refreshAverageRating(ctx, r.BootcampID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, id string) error {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "No review with the id of %s", id)
	}
	if err := ensureOwner(actor, r.UserID, "delete review "+r.ID); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, r.ID); err != nil {
		return err
	}
	if err := s.refreshAverageRating(ctx, r.BootcampID); err != nil {
		return err
	}

	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.ReviewDeleted, r.ID, actor.ID, r.BootcampID))
	return nil
}

func (s *ReviewService) refreshAverageRating(ctx context.Context, bootcampID string) error {
	avg, err := s.reviews.AverageRating(ctx, bootcampID)
	if err != nil {
		return err
	}
	err = s.bootcamps.SetAverageRating(ctx, bootcampID, avg)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
