package events

import (
	"context"
	"errors"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
	"gorm.io/gorm/clause"
)

type TxnRefSave struct {
	Service *frame.Service
}

func (event *TxnRefSave) Name() string {
	return "txnref.save"
}

func (event *TxnRefSave) PayloadType() any {
	return &models.TxnRef{}
}

func (event *TxnRefSave) Validate(_ context.Context, payload any) error {
	txnRef, ok := payload.(*models.TxnRef)
	if !ok {
		return errors.New(" payload is not of type models.TxnRef")
	}
	if txnRef.GetID() == "" {
		return errors.New(" txn ref Id should already have been set ")
	}
	if txnRef.Reference == "" {
		return errors.New(" txn ref reference should already have been set ")
	}
	return nil
}

func (event *TxnRefSave) Execute(ctx context.Context, payload any) error {
	txnRef := payload.(*models.TxnRef)

	logger := event.Service.Log(ctx).WithField("type", event.Name())
	logger.WithField("payload", txnRef).Debug("handling event")

	result := event.Service.DB(ctx, false).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(txnRef)

	err := result.Error
	if err != nil {
		logger.WithError(err).Warn("could not save to db")
		return err
	}
	logger.WithField("rows affected", result.RowsAffected).Debug("successfully saved record to db")

	return nil
}
