package router

import (
	"github.com/gorilla/mux"
	handlers "github.com/unipay/unipay-api/service/handler"
)

func NewRouter(as *handlers.ApiServer) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	// Health check endpoint
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	// OTP endpoints
	router.HandleFunc("/api/send-otp", as.SendOtpHandler).Methods("POST")
	router.HandleFunc("/api/verify-otp", as.VerifyOtpHandler).Methods("POST")

	// Transaction reference endpoints
	router.HandleFunc("/api/create-transaction", as.CreateTransactionHandler).Methods("POST")
	router.HandleFunc("/api/log-intent", as.LogIntentHandler).Methods("POST")

	// Payment simulation endpoints
	router.HandleFunc("/api/pay", as.PayHandler).Methods("POST")
	router.HandleFunc("/api/pay", as.CancelPayHandler).Methods("DELETE")
	router.HandleFunc("/api/pay/{reference}", as.PayStatusHandler).Methods("GET")

	// Ledger endpoints
	router.HandleFunc("/api/transactions", as.ListTransactionsHandler).Methods("GET")
	router.HandleFunc("/api/transactions/export", as.ExportTransactionsHandler).Methods("GET")

	// Stripe checkout endpoint
	router.HandleFunc("/create-checkout-session", as.CreateCheckoutSessionHandler).Methods("POST")

	// KYC upload endpoint
	router.HandleFunc("/upload-kyc", as.UploadKycHandler).Methods("POST")

	return router
}
