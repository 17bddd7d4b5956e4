package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"devcamper/internal/apperror"
	"devcamper/internal/models"
	"devcamper/internal/query"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGORM connects to a relational store. driver is "postgres" or "sqlite".
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return db, nil
}

// NewGORMSet migrates the schema and returns GORM-backed repositories.
func NewGORMSet(db *gorm.DB) (Set, error) {
	if err := db.AutoMigrate(&models.User{}, &models.Bootcamp{}, &models.Course{}, &models.Review{}); err != nil {
		return Set{}, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return Set{
		Users:     NewGORMUserRepository(db),
		Bootcamps: NewGORMBootcampRepository(db),
		Courses:   NewGORMCourseRepository(db),
		Reviews:   NewGORMReviewRepository(db),
	}, nil
}

func newID() string {
	return uuid.New().String()
}

// checkID rejects ids that are not UUIDs before they reach the database.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &models.InvalidIDError{ID: id}
	}
	return nil
}

func translateGORMError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrDuplicateKey
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

// applyQuery translates q into WHERE, ORDER BY and paging clauses.
// columns maps query field names to column names; anything else is rejected.
func applyQuery(db *gorm.DB, q query.Query, columns map[string]string) (*gorm.DB, error) {
	for _, c := range q.Conditions {
		col, ok := columns[c.Field]
		if !ok {
			return nil, apperror.BadRequest("Cannot filter on %s", c.Field)
		}
		if c.Kind == query.StringList {
			sql, args := listContains(col, c)
			db = db.Where(sql, args...)
			continue
		}
		switch c.Op {
		case query.Eq:
			db = db.Where(col+" = ?", c.Value)
		case query.Gt:
			db = db.Where(col+" > ?", c.Value)
		case query.Gte:
			db = db.Where(col+" >= ?", c.Value)
		case query.Lt:
			db = db.Where(col+" < ?", c.Value)
		case query.Lte:
			db = db.Where(col+" <= ?", c.Value)
		case query.In:
			db = db.Where(col+" IN ?", c.Value)
		}
	}

	for _, s := range q.Sort {
		col, ok := columns[s.Field]
		if !ok {
			return nil, apperror.BadRequest("Cannot sort on %s", s.Field)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: s.Desc})
	}

	return db.Offset(q.Skip()).Limit(q.Limit), nil
}

// listContains matches JSON-encoded string lists containing any of the condition's values.
func listContains(col string, c query.Condition) (string, []any) {
	values := []any{c.Value}
	if c.Op == query.In {
		values = c.Value.([]any)
	}
	parts := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		encoded, _ := json.Marshal(fmt.Sprint(v))
		parts = append(parts, col+" LIKE ?")
		args = append(args, "%"+string(encoded)+"%")
	}
	if len(parts) == 0 {
		return "1 = 0", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// angularDistance is the central angle in radians between two points given in degrees.
func angularDistance(lng1, lat1, lng2, lat2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
