package models

import (
	"time"

	"devcamper/internal/query"
)

// Roles a user can hold.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User is an account of the directory.
type User struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                string     `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Email               string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Role                string     `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=user publisher admin"`
	Password            string     `json:"-" gorm:"type:varchar(255)" validate:"required"` // bcrypt hash
	ResetPasswordToken  string     `json:"-" gorm:"index;type:varchar(64)"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// IsAdmin reports whether u may act on any resource.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserSchema lists the user fields usable in list queries.
var UserSchema = query.Schema{
	"name":      query.String,
	"email":     query.String,
	"role":      query.String,
	"createdAt": query.Time,
}
