// Package events publishes domain events to a message broker. Publishing is
// best effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"devcamper/internal/metrics"

	"go.uber.org/zap"
)

// Subjects of the events emitted by the services.
const (
	UserRegistered  = "user.registered"
	BootcampCreated = "bootcamp.created"
	BootcampUpdated = "bootcamp.updated"
	BootcampDeleted = "bootcamp.deleted"
	CourseCreated   = "course.created"
	CourseDeleted   = "course.deleted"
	ReviewCreated   = "review.created"
	ReviewDeleted   = "review.deleted"
)

// Event is the envelope every subject carries.
type Event struct {
	Subject    string    `json:"subject"`
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId,omitempty"`
	BootcampID string    `json:"bootcampId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps an Event with the current time.
func NewEvent(subject, id, actorID, bootcampID string) Event {
	return Event{Subject: subject, ID: id, ActorID: actorID, BootcampID: bootcampID, OccurredAt: time.Now().UTC()}
}

// Publisher sends a payload under a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Instrumented counts publish outcomes.
type Instrumented struct {
	next    Publisher
	metrics *metrics.MetricsManager
}

func NewInstrumented(next Publisher, m *metrics.MetricsManager) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (p *Instrumented) Publish(ctx context.Context, subject string, payload any) error {
	err := p.next.Publish(ctx, subject, payload)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.EventsPublished.WithLabelValues(subject, outcome).Inc()
	return err
}

func (p *Instrumented) Close() error { return p.next.Close() }

// Emit publishes e and logs a failure instead of returning it.
func Emit(ctx context.Context, pub Publisher, logger *zap.Logger, e Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e.Subject, e); err != nil {
		logger.Warn("Failed to publish event", zap.String("subject", e.Subject), zap.String("id", e.ID), zap.Error(err))
	}
}
