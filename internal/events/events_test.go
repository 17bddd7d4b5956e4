package events

import (
	"context"
	"errors"
	"testing"

	"devcamper/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	return m.Called(ctx, subject, payload).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func TestInstrumented_CountsOutcomes(t *testing.T) {
	mm := metrics.NewMetricsManager("test")
	inner := new(MockPublisher)
	inner.On("Publish", mock.Anything, BootcampCreated, mock.Anything).Return(nil).Once()
	inner.On("Publish", mock.Anything, BootcampCreated, mock.Anything).Return(errors.New("down")).Once()

	p := NewInstrumented(inner, mm)
	assert.NoError(t, p.Publish(context.Background(), BootcampCreated, "x"))
	assert.Error(t, p.Publish(context.Background(), BootcampCreated, "x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(mm.EventsPublished.WithLabelValues(BootcampCreated, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.EventsPublished.WithLabelValues(BootcampCreated, "error")))
	inner.AssertExpectations(t)
}

func TestEmit_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	inner := new(MockPublisher)
	e := NewEvent(ReviewCreated, "r1", "u1", "b1")
	inner.On("Publish", mock.Anything, ReviewCreated, e).Return(errors.New("down"))

	Emit(context.Background(), inner, zap.New(core), e)
	Emit(context.Background(), nil, zap.New(core), e)

	assert.Equal(t, 1, logs.FilterMessage("Failed to publish event").Len())
	inner.AssertExpectations(t)
}
