package smsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name           string
		responseStatus int
		responseBody   string
		expectError    bool
		expectedSid    string
	}{
		{
			name:           "Success - 201 Created",
			responseStatus: http.StatusCreated,
			responseBody:   `{"sid":"SM123","status":"queued","to":"+919876543210","from":"+15550001111"}`,
			expectError:    false,
			expectedSid:    "SM123",
		},
		{
			name:           "Error - 401 Unauthorized",
			responseStatus: http.StatusUnauthorized,
			responseBody:   `{"code":20003,"message":"Authentication Error"}`,
			expectError:    true,
		},
		{
			name:           "Error - 400 Bad Request",
			responseStatus: http.StatusBadRequest,
			responseBody:   `{"code":21211,"message":"Invalid 'To' Phone Number"}`,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create test server
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Check request method, path and auth
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/2010-04-01/Accounts/AC_TEST/Messages.json", r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "AC_TEST", user)
				assert.Equal(t, "TOKEN_TEST", pass)

				// Check form body
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "+919876543210", r.PostForm.Get("To"))
				assert.Equal(t, "+15550001111", r.PostForm.Get("From"))
				assert.Equal(t, "Your OTP for UniPay is: 654321", r.PostForm.Get("Body"))

				// Set response
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseStatus)
				_, err := w.Write([]byte(tt.responseBody))
				assert.NoError(t, err)
			}))
			defer server.Close()

			// Create client pointing to test server
			client := &Client{
				AccountSID: "AC_TEST",
				AuthToken:  "TOKEN_TEST",
				From:       "+15550001111",
				HttpClient: server.Client(),
				Env:        server.URL,
			}

			// Call the method
			response, err := client.SendMessage(context.Background(), "+919876543210", "Your OTP for UniPay is: 654321")

			// Check expectations
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, response)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSid, response.Sid)
				assert.Equal(t, "queued", response.Status)
			}
		})
	}
}
