package mocks

import (
	"context"
	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Command(ctx context.Context, verb string, ain string, params map[string]string) (string, error) {
	ret := m.Called(ctx, verb, ain, params)
	return ret.String(0), ret.Error(1)
}

func (m *MockGateway) Busy(ctx context.Context, ain string) (bool, error) {
	ret := m.Called(ctx, ain)
	return ret.Bool(0), ret.Error(1)
}
