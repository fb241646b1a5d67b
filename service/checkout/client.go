package checkout

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Stripe REST API to create hosted checkout sessions.
type Client struct {
	SecretKey  string
	HttpClient *http.Client
	Env        string
}

// New creates a new instance of the Stripe checkout client.
func New(secretKey, env string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:       10,
		IdleConnTimeout:    30 * time.Second,
		DisableCompression: true,
	}

	httpClient := &http.Client{
		Transport: tr,
		Timeout:   30 * time.Second,
	}

	return &Client{
		SecretKey:  secretKey,
		HttpClient: httpClient,
		Env:        env,
	}
}

// Customer represents the billing customer attached to a session.
type Customer struct {
	Email        string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// CustomerResponse represents the response structure for customer creation
type CustomerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionResponse represents the response structure for session creation
type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCustomer registers the customer record a session is billed against.
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (*CustomerResponse, error) {
	form := url.Values{}
	form.Set("email", customer.Email)
	form.Set("name", customer.Name)
	form.Set("address[line1]", customer.AddressLine1)
	form.Set("address[line2]", customer.AddressLine2)
	form.Set("address[city]", customer.City)
	form.Set("address[state]", customer.State)
	form.Set("address[postal_code]", customer.PostalCode)
	form.Set("address[country]", customer.Country)

	var customerResponse CustomerResponse
	if err := c.postForm(ctx, "/v1/customers", form, &customerResponse); err != nil {
		return nil, err
	}
	return &customerResponse, nil
}

// CreateSession creates a card checkout session for amountPaise (INR minor
// units) billed to customerID.
func (c *Client) CreateSession(ctx context.Context, customerID string, productName string, amountPaise int64, successURL, cancelURL string) (*SessionResponse, error) {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "inr")
	form.Set("line_items[0][price_data][product_data][name]", productName)
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", amountPaise))
	form.Set("line_items[0][quantity]", "1")
	form.Set("mode", "payment")
	form.Set("customer", customerID)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	var sessionResponse SessionResponse
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &sessionResponse); err != nil {
		return nil, err
	}
	return &sessionResponse, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Env+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stripe request failed: %s, body: %s", resp.Status, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}
