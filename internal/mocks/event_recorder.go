package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// EventRecorder is a mock type for the EventRecorder type
type EventRecorder struct {
	mock.Mock
}

// Record provides a mock function with given fields: ctx, stage, details
func (_m *EventRecorder) Record(ctx context.Context, stage model.AuthStage, details model.AuthEventDetails) {
	_m.Called(ctx, stage, details)
}
