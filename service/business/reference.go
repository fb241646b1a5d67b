package business

import (
	"context"
	"fmt"
	"time"

	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"github.com/unipay/unipay-api/service/events"
	"github.com/unipay/unipay-api/service/models"
	"github.com/unipay/unipay-api/service/repository"
)

// ReferenceBusiness mints server-side transaction references and reconciles
// them once the owning attempt reaches a terminal state.
type ReferenceBusiness interface {
	CreateTxnRef(ctx context.Context, amount string) (string, error)
	Resolve(ctx context.Context, reference string, completed bool) error
	LogIntent(ctx context.Context, request *models.LogIntentRequest) error
}

type referenceBusiness struct {
	service *frame.Service
	repo    repository.TxnRefRepository

	now func() time.Time
}

func NewReferenceBusiness(ctx context.Context, service *frame.Service) ReferenceBusiness {
	return &referenceBusiness{
		service: service,
		repo:    repository.NewTxnRefRepository(ctx, service),
		now:     time.Now,
	}
}

func (rb *referenceBusiness) CreateTxnRef(ctx context.Context, amount string) (string, error) {
	logger := rb.service.Log(ctx).WithField("type", "CreateTxnRef")

	parsed, err := decimal.NewFromString(amount)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return "", ErrorInvalidAmount
	}

	txnRef := &models.TxnRef{
		Reference: fmt.Sprintf("TXN%d", rb.now().UnixMilli()),
		Amount:    decimal.NullDecimal{Valid: true, Decimal: parsed},
		Status:    models.TxnRefStatusPending,
	}
	txnRef.GenID(ctx)

	event := events.TxnRefSave{}
	if err = rb.service.Emit(ctx, event.Name(), txnRef); err != nil {
		logger.WithError(err).Warn("could not emit txn ref event")
		return "", err
	}

	return txnRef.Reference, nil
}

// Resolve flips the server mirror of reference to its terminal status. The
// locally minted reference stays authoritative for the ledger entry, so an
// unknown reference is not an error for the caller to act on.
func (rb *referenceBusiness) Resolve(ctx context.Context, reference string, completed bool) error {
	logger := rb.service.Log(ctx).WithField("type", "ResolveTxnRef").WithField("reference", reference)

	txnRef, err := rb.repo.GetByReference(ctx, reference)
	if err != nil {
		logger.WithError(err).Debug("no server mirror for reference")
		return ErrorReferenceNotFound
	}
	if txnRef.IsTerminal() {
		return nil
	}

	if completed {
		txnRef.Status = models.TxnRefStatusCompleted
	} else {
		txnRef.Status = models.TxnRefStatusFailed
	}

	event := events.TxnRefSave{}
	if err = rb.service.Emit(ctx, event.Name(), txnRef); err != nil {
		logger.WithError(err).Warn("could not emit txn ref event")
		return err
	}
	return nil
}

// LogIntent records a deep-link attempt. Callers treat this as
// fire-and-forget; failures are logged and swallowed upstream.
func (rb *referenceBusiness) LogIntent(ctx context.Context, request *models.LogIntentRequest) error {
	intent := &models.PaymentIntent{
		TxnRef:      request.TxnRef,
		UpiID:       request.UpiID,
		Amount:      request.Amount,
		AppPackage:  request.AppPackage,
		AttemptedAt: request.AttemptedAt,
	}
	if intent.AppPackage == "" {
		intent.AppPackage = "generic"
	}
	intent.GenID(ctx)

	event := events.IntentLogSave{}
	return rb.service.Emit(ctx, event.Name(), intent)
}
