package business

import (
	"errors"
	"net/http"
)

// Error carries a stable machine code alongside the user-facing message so
// handlers can map failures straight onto the JSON error contract.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrorInvalidMobile = &Error{Code: "INVALID_MOBILE", Message: "Invalid mobile number", HTTPStatus: http.StatusBadRequest}

	ErrorNoPendingOtp = &Error{Code: "NO_PENDING_OTP", Message: "No OTP request found for this mobile", HTTPStatus: http.StatusBadRequest}

	ErrorOtpExpired = &Error{Code: "OTP_EXPIRED", Message: "OTP expired, please request a new one", HTTPStatus: http.StatusBadRequest}

	ErrorOtpMismatch = &Error{Code: "OTP_MISMATCH", Message: "Incorrect OTP", HTTPStatus: http.StatusBadRequest}

	ErrorInvalidAmount = &Error{Code: "INVALID_AMOUNT", Message: "Enter an amount greater than 0", HTTPStatus: http.StatusBadRequest}

	ErrorInvalidMerchant = &Error{Code: "INVALID_MERCHANT", Message: "Merchant name too short", HTTPStatus: http.StatusBadRequest}

	ErrorAttemptInFlight = &Error{Code: "ATTEMPT_IN_FLIGHT", Message: "A payment attempt is already in progress", HTTPStatus: http.StatusConflict}

	ErrorReferenceNotFound = &Error{Code: "REFERENCE_NOT_FOUND", Message: "Specified reference does not exist", HTTPStatus: http.StatusNotFound}
)

// StatusFor returns the HTTP status to answer with for err, defaulting to 500
// for anything outside the taxonomy.
func StatusFor(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
