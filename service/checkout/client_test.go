package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCustomer(t *testing.T) {
	tests := []struct {
		name           string
		responseStatus int
		responseBody   string
		expectError    bool
		expectedID     string
	}{
		{
			name:           "Success - 200 OK",
			responseStatus: http.StatusOK,
			responseBody:   `{"id":"cus_123","email":"demo.customer@example.com"}`,
			expectError:    false,
			expectedID:     "cus_123",
		},
		{
			name:           "Error - 401 Unauthorized",
			responseStatus: http.StatusUnauthorized,
			responseBody:   `{"error":{"message":"Invalid API Key provided"}}`,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create test server
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Check request method, path and auth
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/customers", r.URL.Path)
				assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

				// Check form body
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "demo.customer@example.com", r.PostForm.Get("email"))
				assert.Equal(t, "Mumbai", r.PostForm.Get("address[city]"))

				// Set response
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseStatus)
				_, err := w.Write([]byte(tt.responseBody))
				assert.NoError(t, err)
			}))
			defer server.Close()

			// Create client pointing to test server
			client := &Client{
				SecretKey:  "sk_test_123",
				HttpClient: server.Client(),
				Env:        server.URL,
			}

			// Call the method
			response, err := client.CreateCustomer(context.Background(), Customer{
				Email:        "demo.customer@example.com",
				Name:         "Demo Customer",
				AddressLine1: "510 Townsend St",
				City:         "Mumbai",
				State:        "MH",
				PostalCode:   "400001",
				Country:      "IN",
			})

			// Check expectations
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, response)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, response.ID)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		responseStatus int
		responseBody   string
		expectError    bool
		expectedID     string
	}{
		{
			name:           "Success - 200 OK",
			responseStatus: http.StatusOK,
			responseBody:   `{"id":"cs_test_123","url":"https://checkout.stripe.com/pay/cs_test_123"}`,
			expectError:    false,
			expectedID:     "cs_test_123",
		},
		{
			name:           "Error - 400 Bad Request",
			responseStatus: http.StatusBadRequest,
			responseBody:   `{"error":{"message":"Invalid positive integer"}}`,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create test server
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
				assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

				// Check form body
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "card", r.PostForm.Get("payment_method_types[0]"))
				assert.Equal(t, "inr", r.PostForm.Get("line_items[0][price_data][currency]"))
				assert.Equal(t, "Premium Service Subscription", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
				assert.Equal(t, "50000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
				assert.Equal(t, "payment", r.PostForm.Get("mode"))
				assert.Equal(t, "cus_123", r.PostForm.Get("customer"))

				// Set response
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseStatus)
				_, err := w.Write([]byte(tt.responseBody))
				assert.NoError(t, err)
			}))
			defer server.Close()

			// Create client pointing to test server
			client := &Client{
				SecretKey:  "sk_test_123",
				HttpClient: server.Client(),
				Env:        server.URL,
			}

			// Call the method
			response, err := client.CreateSession(context.Background(), "cus_123", "Premium Service Subscription",
				50000, "http://localhost:8080/NetBanking?success=true", "http://localhost:8080/NetBanking?canceled=true")

			// Check expectations
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, response)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, response.ID)
			}
		})
	}
}
