package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// Identifier is a mock type for the Identifier type
type Identifier struct {
	mock.Mock
}

// Identify provides a mock function with given fields: ctx, imageBase64
func (_m *Identifier) Identify(ctx context.Context, imageBase64 string) model.Result[model.CarIdentification] {
	ret := _m.Called(ctx, imageBase64)

	var r0 model.Result[model.CarIdentification]
	if rf, ok := ret.Get(0).(func(context.Context, string) model.Result[model.CarIdentification]); ok {
		r0 = rf(ctx, imageBase64)
	} else {
		r0 = ret.Get(0).(model.Result[model.CarIdentification])
	}

	return r0
}
