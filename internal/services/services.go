// Package services holds the business rules behind every HTTP endpoint.
package services

import (
	"errors"

	"devcamper/internal/apperror"
	"devcamper/internal/models"
)

// notFound turns a missing record into a 404 with a resource specific message.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, models.ErrNotFound) {
		return apperror.NotFound(format, args...)
	}
	return err
}

// ensureOwner allows admins and the owning user.
func ensureOwner(actor *models.User, ownerID, action string) error {
	if actor == nil {
		return apperror.Unauthenticated("Not authorized to access this route")
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return apperror.Forbidden("User %s is not authorized to %s", actor.ID, action)
}

func actorID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
