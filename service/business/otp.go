package business

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
	"github.com/unipay/unipay-api/service/smsapi"
)

const otpWindow = 5 * time.Minute

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

type OtpBusiness interface {
	SendOtp(ctx context.Context, mobile string) (string, error)
	VerifyOtp(ctx context.Context, mobile string, code string) error
}

type otpBusiness struct {
	service  *frame.Service
	store    OtpStore
	sms      smsapi.SmsApiClient
	demoCode string

	now          func() time.Time
	generateCode func() string
}

func NewOtpBusiness(_ context.Context, service *frame.Service, store OtpStore, sms smsapi.SmsApiClient, demoCode string) OtpBusiness {
	return &otpBusiness{
		service:  service,
		store:    store,
		sms:      sms,
		demoCode: demoCode,
		now:      time.Now,
		generateCode: func() string {
			return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		},
	}
}

// SendOtp issues a fresh code for mobile, overwriting any pending one, and
// delivers it through the SMS gateway. An unreachable or unconfigured gateway
// degrades to the fixed demo code rather than failing the request.
func (ob *otpBusiness) SendOtp(ctx context.Context, mobile string) (string, error) {
	logger := ob.service.Log(ctx).WithField("type", "SendOtp")

	if !mobilePattern.MatchString(mobile) {
		return "", ErrorInvalidMobile
	}

	code := ob.generateCode()
	message := "OTP sent successfully"

	if ob.sms == nil {
		logger.Warn("sms gateway not configured - issuing demo code")
		code = ob.demoCode
		message = "OTP sent. Use " + ob.demoCode + " in demo mode."
	} else {
		body := fmt.Sprintf("Your OTP for UniPay is: %s", code)
		if _, err := ob.sms.SendMessage(ctx, "+91"+mobile, body); err != nil {
			logger.WithError(err).Warn("sms gateway unreachable - falling back to demo code")
			code = ob.demoCode
			message = "OTP sent. Use " + ob.demoCode + " in demo mode."
		}
	}

	record := ob.newRecord(code)
	if err := ob.store.Put(ctx, mobile, record); err != nil {
		logger.WithError(err).Error("could not store otp record")
		return "", err
	}

	return message, nil
}

// VerifyOtp consumes the pending code for mobile. Codes are single use:
// success deletes the record, so does expiry.
func (ob *otpBusiness) VerifyOtp(ctx context.Context, mobile string, code string) error {
	logger := ob.service.Log(ctx).WithField("type", "VerifyOtp")

	record, err := ob.store.Get(ctx, mobile)
	if err != nil {
		logger.WithError(err).Error("could not read otp record")
		return err
	}
	if record == nil {
		return ErrorNoPendingOtp
	}

	if record.Expired(ob.now()) {
		if err = ob.store.Delete(ctx, mobile); err != nil {
			logger.WithError(err).Warn("could not delete expired otp record")
		}
		return ErrorOtpExpired
	}

	if record.Code != code {
		return ErrorOtpMismatch
	}

	if err = ob.store.Delete(ctx, mobile); err != nil {
		logger.WithError(err).Error("could not consume otp record")
		return err
	}
	return nil
}

func (ob *otpBusiness) newRecord(code string) *models.OtpRecord {
	return &models.OtpRecord{Code: code, ExpiresAt: ob.now().Add(otpWindow)}
}
