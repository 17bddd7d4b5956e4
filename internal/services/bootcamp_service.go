package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"devcamper/internal/apperror"
	"devcamper/internal/events"
	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/repositories"
	"devcamper/internal/storage"
	"devcamper/internal/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Earth radius used to turn a distance into radians.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
)

// BootcampInput is the writable part of a bootcamp. Nil fields are left untouched on update.
// Address is geocoded into the location and never stored.
type BootcampInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

func (in BootcampInput) apply(b *models.Bootcamp) {
	setString(&b.Name, in.Name)
	setString(&b.Description, in.Description)
	setString(&b.Website, in.Website)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	if in.Careers != nil {
		b.Careers = *in.Careers
	}
	setBool(&b.Housing, in.Housing)
	setBool(&b.JobAssistance, in.JobAssistance)
	setBool(&b.JobGuarantee, in.JobGuarantee)
	setBool(&b.AcceptGi, in.AcceptGi)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// BootcampService handles business logic related to bootcamps.
type BootcampService struct {
	bootcamps     repositories.BootcampRepository
	courses       repositories.CourseRepository
	reviews       repositories.ReviewRepository
	geocoder      geocoder.Geocoder
	photos        storage.PhotoStore
	events        events.Publisher
	maxPhotoBytes int64
	logger        *zap.Logger
}

// NewBootcampService creates a new BootcampService.
func NewBootcampService(repos repositories.Set, geo geocoder.Geocoder, photos storage.PhotoStore, pub events.Publisher, maxPhotoBytes int64, logger *zap.Logger) *BootcampService {
	return &BootcampService{
		bootcamps:     repos.Bootcamps,
		courses:       repos.Courses,
		reviews:       repos.Reviews,
		geocoder:      geo,
		photos:        photos,
		events:        pub,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger.Named("BootcampService"),
	}
}

// List runs the list pipeline and attaches each bootcamp's courses.
func (s *BootcampService) List(ctx context.Context, q query.Query) (*query.Result[models.Bootcamp], error) {
	return query.Run[models.Bootcamp](ctx, s.bootcamps, q, s.expandCourses)
}

func (s *BootcampService) expandCourses(ctx context.Context, items []models.Bootcamp) error {
	ids := make([]string, 0, len(items))
	for _, b := range items {
		ids = append(ids, b.ID)
	}
	courses, err := s.courses.FindByBootcamps(ctx, ids)
	if err != nil {
		return err
	}
	byBootcamp := make(map[string][]models.Course, len(items))
	for _, c := range courses {
		byBootcamp[c.BootcampID] = append(byBootcamp[c.BootcampID], c)
	}
	for i := range items {
		items[i].Courses = byBootcamp[items[i].ID]
		if items[i].Courses == nil {
			items[i].Courses = []models.Course{}
		}
	}
	return nil
}

func (s *BootcampService) Get(ctx context.Context, id string) (*models.Bootcamp, error) {
	b, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Bootcamp not found with id of %s", id)
	}
	return b, nil
}

// Create adds a bootcamp owned by actor. Publishers may own a single bootcamp.
func (s *BootcampService) Create(ctx context.Context, actor *models.User, in BootcampInput) (*models.Bootcamp, error) {
	if !actor.IsAdmin() {
		n, err := s.bootcamps.CountByUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperror.BadRequest("The user with ID %s has already published a bootcamp", actor.ID)
		}
	}
	if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
		return nil, &validation.Error{Messages: []string{"address is a required field"}}
	}

	b := &models.Bootcamp{Photo: models.DefaultPhoto, UserID: actor.ID}
	in.apply(b)
	if err := s.prepare(ctx, b, in.Address); err != nil {
		return nil, err
	}
	if err := s.bootcamps.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Bootcamp created", zap.String("bootcamp_id", b.ID), zap.String("user_id", actor.ID))
	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.BootcampCreated, b.ID, actor.ID, b.ID))
	return b, nil
}

// Update merges in over the stored bootcamp. Only the owner or an admin may do so.
func (s *BootcampService) Update(ctx context.Context, actor *models.User, id string, in BootcampInput) (*models.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(actor, b.UserID, "update this bootcamp"); err != nil {
		return nil, err
	}

	in.apply(b)
	if err := s.prepare(ctx, b, in.Address); err != nil {
		return nil, err
	}
	if err := s.bootcamps.Update(ctx, b); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.BootcampUpdated, b.ID, actor.ID, b.ID))
	return b, nil
}

// prepare derives the slug and, when an address was sent, the location, then
// validates the result. It runs before every write.
func (s *BootcampService) prepare(ctx context.Context, b *models.Bootcamp, address *string) error {
	b.Slug = Slugify(b.Name)

	if address != nil && strings.TrimSpace(*address) != "" {
		res, err := s.geocoder.Geocode(ctx, *address)
		if err != nil {
			return geocodeError(err)
		}
		b.Location = models.Location{
			Type:             "Point",
			Coordinates:      []float64{res.Longitude, res.Latitude},
			FormattedAddress: res.FormattedAddress,
			Street:           res.Street,
			City:             res.City,
			State:            res.StateCode,
			Zipcode:          res.Zipcode,
			Country:          res.Country,
		}
	}
	return validation.Check(b)
}

func geocodeError(err error) error {
	if errors.Is(err, geocoder.ErrNoResult) {
		return apperror.BadRequest("Could not geocode address")
	}
	return apperror.Internal(err, "Geocoding failed")
}

// Slugify lower-cases name and joins its words with underscores.
func Slugify(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// Delete removes the bootcamp together with its courses and reviews.
func (s *BootcampService) Delete(ctx context.Context, actor *models.User, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwner(actor, b.UserID, "delete this bootcamp"); err != nil {
		return err
	}

	if err := s.courses.DeleteByBootcamp(ctx, b.ID); err != nil {
		return err
	}
	if err := s.reviews.DeleteByBootcamp(ctx, b.ID); err != nil {
		return err
	}
	if err := s.bootcamps.Delete(ctx, b.ID); err != nil {
		return err
	}

	s.logger.Info("Bootcamp deleted", zap.String("bootcamp_id", b.ID), zap.String("user_id", actor.ID))
	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.BootcampDeleted, b.ID, actor.ID, b.ID))
	return nil
}

// WithinRadius finds bootcamps within distance of a postal code. unit is "mi" or "km".
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distance float64, unit string) ([]models.Bootcamp, error) {
	if distance < 0 {
		return nil, apperror.BadRequest("Distance must be a positive number")
	}
	var earthRadius float64
	switch strings.ToLower(unit) {
	case "", "mi":
		earthRadius = earthRadiusMiles
	case "km":
		earthRadius = earthRadiusKm
	default:
		return nil, apperror.BadRequest("Unit must be one of mi, km")
	}

	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, geocodeError(err)
	}

	bootcamps, err := s.bootcamps.FindWithinRadius(ctx, loc.Longitude, loc.Latitude, distance/earthRadius)
	if err != nil {
		return nil, err
	}
	if bootcamps == nil {
		bootcamps = []models.Bootcamp{}
	}
	return bootcamps, nil
}

// UploadPhoto stores an image for the bootcamp and records its file name.
// Nothing is written unless the file is a small enough image.
func (s *BootcampService) UploadPhoto(ctx context.Context, actor *models.User, id string, file *multipart.FileHeader) (string, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := ensureOwner(actor, b.UserID, "update this bootcamp"); err != nil {
		return "", err
	}

	if file == nil {
		return "", apperror.BadRequest("Please upload a file")
	}
	if file.Size > s.maxPhotoBytes {
		return "", apperror.BadRequest("Please upload an image less than %d bytes", s.maxPhotoBytes)
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", apperror.BadRequest("Please upload an image file")
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to sniff upload: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperror.BadRequest("Please upload an image file")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	name := fmt.Sprintf("photo_%s%s", b.ID, mtype.Extension())
	if err := s.photos.Save(ctx, name, f, file.Size, mtype.String()); err != nil {
		return "", apperror.Internal(err, "Problem with file upload")
	}

	b.Photo = name
	if err := s.bootcamps.Update(ctx, b); err != nil {
		return "", err
	}
	s.logger.Info("Bootcamp photo uploaded", zap.String("bootcamp_id", b.ID), zap.String("photo", name))
	return name, nil
}
