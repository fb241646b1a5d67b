package smsapi

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of the SmsApiClient interface.
type MockClient struct {
	mock.Mock
}

// SendMessage mocks the SendMessage method.
func (m *MockClient) SendMessage(ctx context.Context, to string, body string) (*MessageResponse, error) {
	args := m.Called(ctx, to, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}
