package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/unipay/unipay-api/service/business"
	"github.com/unipay/unipay-api/service/models"
	"github.com/unipay/unipay-api/service/simulation"
	"github.com/unipay/unipay-api/service/upi"
)

// PayHandler starts a simulated payment attempt. The attempt itself resolves
// asynchronously; clients poll PayStatusHandler for progress.
func (as *ApiServer) PayHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := as.Service.Log(ctx).WithField("type", "PayHandler")

	var request models.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.WithError(err).Error("failed to decode request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.MethodLabel == "" {
		request.MethodLabel = request.MethodID
	}

	snapshot, err := as.Engine.StartPayment(ctx, request.MethodID, request.MethodLabel, request.Amount, request.Merchant)
	if err != nil {
		logger.WithError(err).Warn("could not start payment attempt")
		writeError(w, err)
		return
	}

	response := map[string]any{
		"success":   true,
		"reference": snapshot.Reference,
		"status":    snapshot.Status,
	}

	// The server cannot open an app; mobile-class clients get the URI to
	// navigate with, desktop-class ones a simulation notice.
	if request.MobileClient {
		vpa := upi.VPAForMerchant(snapshot.Merchant)
		payee := snapshot.Merchant
		if vpa == upi.FallbackVPA && as.MerchantVPA != "" {
			vpa = as.MerchantVPA
			payee = as.MerchantName
		}
		note := "Paying " + snapshot.Merchant + " via " + strings.ToUpper(snapshot.MethodID)
		response["deeplink"] = upi.PayURL(vpa, payee, snapshot.Amount, note, snapshot.Reference)
		if appPackage := upi.AppPackage(request.MethodID); appPackage != "" {
			response["intentLink"] = upi.IntentURL(appPackage, vpa, payee, snapshot.Amount, note, snapshot.Reference)
		}
	} else {
		response["notice"] = "UPI apps open on mobile devices. Proceeding with demo mode on desktop."
	}

	writeJSON(w, http.StatusOK, response)
}

// PayStatusHandler reports the state of an attempt: the live snapshot while
// it is in flight, the ledger outcome once it has resolved.
func (as *ApiServer) PayStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := mux.Vars(r)["reference"]

	snapshot := as.Engine.Snapshot()
	if snapshot.Reference == reference {
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	transaction, err := as.Transactions.GetByReference(ctx, models.LedgerReference(reference))
	if err != nil {
		writeError(w, business.ErrorReferenceNotFound)
		return
	}

	status := simulation.StatusCompleted
	if transaction.Status == models.TransactionStatusFailed {
		status = simulation.StatusFailed
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reference":   reference,
		"status":      status,
		"transaction": transaction,
	})
}

// CancelPayHandler discards the in-flight attempt, if any. No Transaction is
// emitted for a cancelled attempt.
func (as *ApiServer) CancelPayHandler(w http.ResponseWriter, r *http.Request) {
	as.Engine.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
