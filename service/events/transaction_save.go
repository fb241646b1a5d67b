package events

import (
	"context"
	"errors"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
	"gorm.io/gorm/clause"
)

// LedgerTopic is the pub/sub subject completed transactions are announced on.
const LedgerTopic = "ledger.transactions"

type TransactionSave struct {
	Service *frame.Service
}

func (event *TransactionSave) Name() string {
	return "transaction.save"
}

func (event *TransactionSave) PayloadType() any {
	return &models.Transaction{}
}

func (event *TransactionSave) Validate(_ context.Context, payload any) error {
	transaction, ok := payload.(*models.Transaction)
	if !ok {
		return errors.New(" payload is not of type models.Transaction")
	}

	if transaction.GetID() == "" {
		return errors.New(" transaction Id should already have been set ")
	}
	if transaction.Reference == "" {
		return errors.New(" transaction reference should already have been set ")
	}

	return nil
}

func (event *TransactionSave) Execute(ctx context.Context, payload any) error {
	transaction := payload.(*models.Transaction)

	logger := event.Service.Log(ctx).WithField("type", event.Name())
	logger.WithField("payload", transaction).Debug("handling event")

	result := event.Service.DB(ctx, false).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(transaction)

	err := result.Error
	if err != nil {
		logger.WithError(err).Warn("could not save to db")
		return err
	}
	logger.WithField("rows affected", result.RowsAffected).Debug("successfully saved record to db")

	// Announce the ledger append to any live views; the row is already
	// durable so a publish failure is not fatal.
	if err = event.Service.Publish(ctx, LedgerTopic, transaction); err != nil {
		logger.WithError(err).Warn("could not publish transaction to ledger topic")
	}

	return nil
}
