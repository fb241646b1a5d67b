package checkout

import "context"

type CheckoutApiClient interface {
	CreateCustomer(ctx context.Context, customer Customer) (*CustomerResponse, error)
	CreateSession(ctx context.Context, customerID string, productName string, amountPaise int64, successURL, cancelURL string) (*SessionResponse, error)
}
