package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/business"
	"github.com/unipay/unipay-api/service/checkout"
	"github.com/unipay/unipay-api/service/repository"
	"github.com/unipay/unipay-api/service/simulation"
)

// ApiServer wires the HTTP surface to the business layer.
type ApiServer struct {
	Service      *frame.Service
	Otp          business.OtpBusiness
	Refs         business.ReferenceBusiness
	Engine       *simulation.Engine
	Checkout     checkout.CheckoutApiClient
	Transactions repository.TransactionRepository

	FrontendURL  string
	UploadDir    string
	MerchantVPA  string
	MerchantName string
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, business.StatusFor(err), map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
