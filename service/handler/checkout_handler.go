package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/unipay/unipay-api/service/checkout"
	"github.com/unipay/unipay-api/service/models"
)

// CreateCheckoutSessionHandler creates a Stripe hosted checkout session for a
// net-banking style card payment and returns the session id for redirection.
func (as *ApiServer) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "CreateCheckoutSessionHandler")

	var request models.CheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	amount, err := strconv.ParseInt(request.Amount, 10, 64)
	if err != nil || amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid amount provided"})
		return
	}

	customer, err := as.Checkout.CreateCustomer(ctx, checkout.Customer{
		Email:        "demo.customer@example.com",
		Name:         "Demo Customer",
		AddressLine1: "510 Townsend St",
		AddressLine2: "Apt 2",
		City:         "Mumbai",
		State:        "MH",
		PostalCode:   "400001",
		Country:      "IN",
	})
	if err != nil {
		logger.WithError(err).Error("failed to create stripe customer")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	session, err := as.Checkout.CreateSession(ctx,
		customer.ID,
		"Premium Service Subscription",
		amount*100,
		as.FrontendURL+"/NetBanking?success=true",
		as.FrontendURL+"/NetBanking?canceled=true",
	)
	if err != nil {
		logger.WithError(err).Error("failed to create checkout session")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": session.ID})
}
