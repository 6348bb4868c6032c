package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// LeadStore is a mock type for the LeadStore type
type LeadStore struct {
	mock.Mock
}

// Upsert provides a mock function with given fields: ctx, lead
func (_m *LeadStore) Upsert(ctx context.Context, lead model.Lead) (model.Lead, error) {
	ret := _m.Called(ctx, lead)

	var r0 model.Lead
	if rf, ok := ret.Get(0).(func(context.Context, model.Lead) model.Lead); ok {
		r0 = rf(ctx, lead)
	} else {
		r0 = ret.Get(0).(model.Lead)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, model.Lead) error); ok {
		r1 = rf(ctx, lead)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
