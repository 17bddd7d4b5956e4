package repositories

import (
	"time"

	"devcamper/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document keys match the JSON names of the models so list queries can be
// translated field for field.

type userDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Name                string             `bson:"name"`
	Email               string             `bson:"email"`
	Role                string             `bson:"role"`
	Password            string             `bson:"password"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
}

func toUserDocument(u *models.User) (*userDocument, error) {
	id, err := optionalObjectID(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:                  id,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		Password:            u.Password,
		ResetPasswordToken:  u.ResetPasswordToken,
		ResetPasswordExpire: u.ResetPasswordExpire,
		CreatedAt:           u.CreatedAt,
	}, nil
}

func (d *userDocument) toModel() models.User {
	return models.User{
		ID:                  hexOrEmpty(d.ID),
		Name:                d.Name,
		Email:               d.Email,
		Role:                d.Role,
		Password:            d.Password,
		ResetPasswordToken:  d.ResetPasswordToken,
		ResetPasswordExpire: d.ResetPasswordExpire,
		CreatedAt:           d.CreatedAt,
	}
}

type locationDocument struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty"`
	City             string    `bson:"city,omitempty"`
	State            string    `bson:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty"`
}

type bootcampDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Slug          string             `bson:"slug"`
	Description   string             `bson:"description"`
	Website       string             `bson:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Location      *locationDocument  `bson:"location,omitempty"`
	Careers       []string           `bson:"careers"`
	AverageRating *float64           `bson:"averageRating,omitempty"`
	AverageCost   *float64           `bson:"averageCost,omitempty"`
	Photo         string             `bson:"photo"`
	Housing       bool               `bson:"housing"`
	JobAssistance bool               `bson:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi"`
	User          primitive.ObjectID `bson:"user"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func toBootcampDocument(b *models.Bootcamp) (*bootcampDocument, error) {
	id, err := optionalObjectID(b.ID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(b.UserID)
	if err != nil {
		return nil, err
	}
	doc := &bootcampDocument{
		ID:            id,
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Careers:       b.Careers,
		AverageRating: b.AverageRating,
		AverageCost:   b.AverageCost,
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGi:      b.AcceptGi,
		User:          user,
		CreatedAt:     b.CreatedAt,
	}
	if _, _, ok := b.Location.Point(); ok {
		l := b.Location
		doc.Location = &locationDocument{
			Type:             l.Type,
			Coordinates:      l.Coordinates,
			FormattedAddress: l.FormattedAddress,
			Street:           l.Street,
			City:             l.City,
			State:            l.State,
			Zipcode:          l.Zipcode,
			Country:          l.Country,
		}
	}
	return doc, nil
}

func (d *bootcampDocument) toModel() models.Bootcamp {
	b := models.Bootcamp{
		ID:            hexOrEmpty(d.ID),
		Name:          d.Name,
		Slug:          d.Slug,
		Description:   d.Description,
		Website:       d.Website,
		Phone:         d.Phone,
		Email:         d.Email,
		Careers:       d.Careers,
		AverageRating: d.AverageRating,
		AverageCost:   d.AverageCost,
		Photo:         d.Photo,
		Housing:       d.Housing,
		JobAssistance: d.JobAssistance,
		JobGuarantee:  d.JobGuarantee,
		AcceptGi:      d.AcceptGi,
		UserID:        hexOrEmpty(d.User),
		CreatedAt:     d.CreatedAt,
	}
	if l := d.Location; l != nil {
		b.Location = models.Location{
			Type:             l.Type,
			Coordinates:      l.Coordinates,
			FormattedAddress: l.FormattedAddress,
			Street:           l.Street,
			City:             l.City,
			State:            l.State,
			Zipcode:          l.Zipcode,
			Country:          l.Country,
		}
	}
	return b
}

type courseDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Title                string             `bson:"title"`
	Description          string             `bson:"description"`
	Weeks                int                `bson:"weeks"`
	Tuition              float64            `bson:"tuition"`
	MinimumSkill         string             `bson:"minimumSkill"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp"`
	User                 primitive.ObjectID `bson:"user"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

func toCourseDocument(c *models.Course) (*courseDocument, error) {
	id, err := optionalObjectID(c.ID)
	if err != nil {
		return nil, err
	}
	bootcamp, err := objectID(c.BootcampID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(c.UserID)
	if err != nil {
		return nil, err
	}
	return &courseDocument{
		ID:                   id,
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
		Bootcamp:             bootcamp,
		User:                 user,
		CreatedAt:            c.CreatedAt,
	}, nil
}

func (d *courseDocument) toModel() models.Course {
	return models.Course{
		ID:                   hexOrEmpty(d.ID),
		Title:                d.Title,
		Description:          d.Description,
		Weeks:                d.Weeks,
		Tuition:              d.Tuition,
		MinimumSkill:         d.MinimumSkill,
		ScholarshipAvailable: d.ScholarshipAvailable,
		BootcampID:           hexOrEmpty(d.Bootcamp),
		UserID:               hexOrEmpty(d.User),
		CreatedAt:            d.CreatedAt,
	}
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Text      string             `bson:"text"`
	Rating    int                `bson:"rating"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toReviewDocument(r *models.Review) (*reviewDocument, error) {
	id, err := optionalObjectID(r.ID)
	if err != nil {
		return nil, err
	}
	bootcamp, err := objectID(r.BootcampID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(r.UserID)
	if err != nil {
		return nil, err
	}
	return &reviewDocument{
		ID:        id,
		Title:     r.Title,
		Text:      r.Text,
		Rating:    r.Rating,
		Bootcamp:  bootcamp,
		User:      user,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (d *reviewDocument) toModel() models.Review {
	return models.Review{
		ID:         hexOrEmpty(d.ID),
		Title:      d.Title,
		Text:       d.Text,
		Rating:     d.Rating,
		BootcampID: hexOrEmpty(d.Bootcamp),
		UserID:     hexOrEmpty(d.User),
		CreatedAt:  d.CreatedAt,
	}
}
