package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOtpHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Happy path - demo mode issue",
			method:         http.MethodPost,
			body:           `{"mobile":"9876543210"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - wrong HTTP method",
			method:         http.MethodGet,
			body:           "",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "Error - invalid request body",
			method:         http.MethodPost,
			body:           `{"mobile":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - invalid mobile number",
			method:         http.MethodPost,
			body:           `{"mobile":"12345"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid mobile number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := newTestApiServer(t)

			req := httptest.NewRequest(tt.method, "/api/send-otp", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			as.SendOtpHandler(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var response map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, false, response["success"])
				assert.Equal(t, tt.expectedError, response["error"])
			}
		})
	}
}

func TestVerifyOtpHandler(t *testing.T) {
	t.Run("verifies an issued code", func(t *testing.T) {
		as := newTestApiServer(t)

		// Issue first so there is a pending demo code.
		sendReq := httptest.NewRequest(http.MethodPost, "/api/send-otp", bytes.NewBufferString(`{"mobile":"9876543210"}`))
		sendRec := httptest.NewRecorder()
		as.SendOtpHandler(sendRec, sendReq)
		require.Equal(t, http.StatusOK, sendRec.Code)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewBufferString(`{"mobile":"9876543210","otp":"123456"}`))
		rec := httptest.NewRecorder()
		as.VerifyOtpHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, true, response["success"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		as := newTestApiServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewBufferString(`{"mobile":"9876543210"}`))
		rec := httptest.NewRecorder()
		as.VerifyOtpHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps mismatch onto 400", func(t *testing.T) {
		as := newTestApiServer(t)

		sendReq := httptest.NewRequest(http.MethodPost, "/api/send-otp", bytes.NewBufferString(`{"mobile":"9876543210"}`))
		as.SendOtpHandler(httptest.NewRecorder(), sendReq)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewBufferString(`{"mobile":"9876543210","otp":"000000"}`))
		rec := httptest.NewRecorder()
		as.VerifyOtpHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "Incorrect OTP", response["error"])
	})

	t.Run("maps no pending otp onto 400", func(t *testing.T) {
		as := newTestApiServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-otp", bytes.NewBufferString(`{"mobile":"9876543210","otp":"123456"}`))
		rec := httptest.NewRecorder()
		as.VerifyOtpHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "No OTP request found for this mobile", response["error"])
	})
}
