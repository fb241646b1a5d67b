package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/unipay/unipay-api/service/models"
)

// SendOtpHandler handles OTP issuance requests.
func (as *ApiServer) SendOtpHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "SendOtpHandler")

	var request models.SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := as.Otp.SendOtp(ctx, request.Mobile)
	if err != nil {
		logger.WithError(err).WithField("mobile", request.Mobile).Warn("could not send otp")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

// VerifyOtpHandler consumes a pending OTP.
func (as *ApiServer) VerifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "VerifyOtpHandler")

	var request models.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if request.Mobile == "" || request.Otp == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Mobile and OTP required",
		})
		return
	}

	if err := as.Otp.VerifyOtp(ctx, request.Mobile, request.Otp); err != nil {
		logger.WithError(err).WithField("mobile", request.Mobile).Warn("otp verification failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP verified successfully",
	})
}
