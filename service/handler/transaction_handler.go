package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"

	"github.com/unipay/unipay-api/service/models"
)

// CreateTransactionHandler mints a server-side transaction reference.
func (as *ApiServer) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "CreateTransactionHandler")

	var request models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	txnRef, err := as.Refs.CreateTxnRef(ctx, request.Amount)
	if err != nil {
		logger.WithError(err).Warn("could not create txn ref")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"txnRef":  txnRef,
	})
}

// LogIntentHandler records a deep-link attempt. The contract is
// fire-and-forget: after a parseable body the handler always reports success.
func (as *ApiServer) LogIntentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "LogIntentHandler")

	var request models.LogIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := as.Refs.LogIntent(ctx, &request); err != nil {
		logger.WithError(err).Warn("could not log intent - continuing")
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListTransactionsHandler returns ledger entries newest first with optional
// q/status/category filters.
func (as *ApiServer) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "ListTransactionsHandler")

	transactions, err := as.Transactions.List(ctx,
		r.URL.Query().Get("q"),
		r.URL.Query().Get("status"),
		r.URL.Query().Get("category"),
	)
	if err != nil {
		logger.WithError(err).Error("could not list transactions")
		writeError(w, err)
		return
	}

	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// ExportTransactionsHandler streams the filtered ledger as a CSV attachment.
func (as *ApiServer) ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "ExportTransactionsHandler")

	transactions, err := as.Transactions.List(ctx,
		r.URL.Query().Get("q"),
		r.URL.Query().Get("status"),
		r.URL.Query().Get("category"),
	)
	if err != nil {
		logger.WithError(err).Error("could not list transactions")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "date", "time", "description", "merchant", "amount", "category", "type", "status", "reference", "location"})
	for _, t := range transactions {
		amount := ""
		if t.Amount.Valid {
			amount = t.Amount.Decimal.String()
		}
		_ = writer.Write([]string{
			t.GetID(), t.Date, t.Time, t.Description, t.Merchant, amount,
			t.Category, t.Type, t.Status, t.Reference, t.Location,
		})
	}
	writer.Flush()
}
