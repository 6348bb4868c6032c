// Package mocks holds testify mocks of the model interfaces.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// AuthEventStore is a mock type for the AuthEventStore type
type AuthEventStore struct {
	mock.Mock
}

// Insert provides a mock function with given fields: ctx, event
func (_m *AuthEventStore) Insert(ctx context.Context, event model.AuthDebugEvent) error {
	ret := _m.Called(ctx, event)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.AuthDebugEvent) error); ok {
		r0 = rf(ctx, event)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListRecent provides a mock function with given fields: ctx, limit
func (_m *AuthEventStore) ListRecent(ctx context.Context, limit int) ([]model.AuthDebugEvent, error) {
	ret := _m.Called(ctx, limit)

	var r0 []model.AuthDebugEvent
	if rf, ok := ret.Get(0).(func(context.Context, int) []model.AuthDebugEvent); ok {
		r0 = rf(ctx, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.AuthDebugEvent)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
