package business

import (
	"context"
	"testing"
	"time"

	"github.com/pitabwire/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/unipay/unipay-api/service/smsapi"
)

func testOtpBusiness(t *testing.T, sms smsapi.SmsApiClient) *otpBusiness {
	t.Helper()
	_, service := frame.NewServiceWithContext(context.Background(), "otp tests")
	return NewOtpBusiness(context.Background(), service, NewMemoryOtpStore(), sms, "123456").(*otpBusiness)
}

func TestSendOtpInvalidMobile(t *testing.T) {
	tests := []struct {
		name   string
		mobile string
	}{
		{name: "too short", mobile: "12345"},
		{name: "too long", mobile: "123456789012"},
		{name: "non numeric", mobile: "98765abcde"},
		{name: "empty", mobile: ""},
		{name: "with country code", mobile: "+919876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ob := testOtpBusiness(t, nil)

			_, err := ob.SendOtp(context.Background(), tt.mobile)
			assert.ErrorIs(t, err, ErrorInvalidMobile)
		})
	}
}

func TestSendOtpDeliversThroughGateway(t *testing.T) {
	mockSms := new(smsapi.MockClient)
	mockSms.On("SendMessage", mock.Anything, "+919876543210", "Your OTP for UniPay is: 654321").
		Return(&smsapi.MessageResponse{Sid: "SM123", Status: "queued"}, nil)

	ob := testOtpBusiness(t, mockSms)
	ob.generateCode = func() string { return "654321" }

	message, err := ob.SendOtp(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully", message)

	// The delivered code is the one that verifies.
	assert.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "654321"))
	mockSms.AssertExpectations(t)
}

func TestSendOtpFallsBackToDemoCode(t *testing.T) {
	t.Run("gateway unconfigured", func(t *testing.T) {
		ob := testOtpBusiness(t, nil)

		message, err := ob.SendOtp(context.Background(), "9876543210")
		require.NoError(t, err)
		assert.Equal(t, "OTP sent. Use 123456 in demo mode.", message)
		assert.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
	})

	t.Run("gateway unreachable", func(t *testing.T) {
		mockSms := new(smsapi.MockClient)
		mockSms.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		ob := testOtpBusiness(t, mockSms)

		message, err := ob.SendOtp(context.Background(), "9876543210")
		require.NoError(t, err)
		assert.Equal(t, "OTP sent. Use 123456 in demo mode.", message)
		assert.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
	})
}

func TestSendOtpOverwritesPendingCode(t *testing.T) {
	ob := testOtpBusiness(t, nil)

	_, err := ob.SendOtp(context.Background(), "9876543210")
	require.NoError(t, err)
	_, err = ob.SendOtp(context.Background(), "9876543210")
	require.NoError(t, err)

	// Still exactly one pending code for the number.
	assert.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
	assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"), ErrorNoPendingOtp)
}

func TestVerifyOtp(t *testing.T) {
	t.Run("no pending otp", func(t *testing.T) {
		ob := testOtpBusiness(t, nil)
		assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"), ErrorNoPendingOtp)
	})

	t.Run("mismatch keeps the code pending", func(t *testing.T) {
		ob := testOtpBusiness(t, nil)
		_, err := ob.SendOtp(context.Background(), "9876543210")
		require.NoError(t, err)

		assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "000000"), ErrorOtpMismatch)
		assert.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
	})

	t.Run("codes are single use", func(t *testing.T) {
		ob := testOtpBusiness(t, nil)
		_, err := ob.SendOtp(context.Background(), "9876543210")
		require.NoError(t, err)

		require.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
		assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"), ErrorNoPendingOtp)
	})

	t.Run("expired code is consumed", func(t *testing.T) {
		ob := testOtpBusiness(t, nil)
		_, err := ob.SendOtp(context.Background(), "9876543210")
		require.NoError(t, err)

		ob.now = func() time.Time { return time.Now().Add(otpWindow + time.Second) }

		assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"), ErrorOtpExpired)
		// The expired record is gone, not retriable.
		assert.ErrorIs(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"), ErrorNoPendingOtp)
	})
}

func TestOtpStoresAreIndependentPerMobile(t *testing.T) {
	ob := testOtpBusiness(t, nil)

	_, err := ob.SendOtp(context.Background(), "9876543210")
	require.NoError(t, err)
	_, err = ob.SendOtp(context.Background(), "9123456780")
	require.NoError(t, err)

	require.NoError(t, ob.VerifyOtp(context.Background(), "9876543210", "123456"))
	assert.NoError(t, ob.VerifyOtp(context.Background(), "9123456780", "123456"))
}
