package mocks

import (
	context "context"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// SessionResolver is a mock type for the SessionResolver type
type SessionResolver struct {
	mock.Mock
}

// CurrentUserID provides a mock function with given fields: ctx
func (_m *SessionResolver) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	ret := _m.Called(ctx)

	var r0 uuid.UUID
	if rf, ok := ret.Get(0).(func(context.Context) uuid.UUID); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(uuid.UUID)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
