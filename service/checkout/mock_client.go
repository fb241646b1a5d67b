package checkout

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of the CheckoutApiClient interface.
type MockClient struct {
	mock.Mock
}

// CreateCustomer mocks the CreateCustomer method.
func (m *MockClient) CreateCustomer(ctx context.Context, customer Customer) (*CustomerResponse, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CustomerResponse), args.Error(1)
}

// CreateSession mocks the CreateSession method.
func (m *MockClient) CreateSession(ctx context.Context, customerID string, productName string, amountPaise int64, successURL, cancelURL string) (*SessionResponse, error) {
	args := m.Called(ctx, customerID, productName, amountPaise, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionResponse), args.Error(1)
}
