package smsapi

import "context"

type SmsApiClient interface {
	SendMessage(ctx context.Context, to string, body string) (*MessageResponse, error)
}
