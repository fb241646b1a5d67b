package events

import (
	"context"
	"errors"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
	"gorm.io/gorm/clause"
)

type IntentLogSave struct {
	Service *frame.Service
}

func (event *IntentLogSave) Name() string {
	return "intent.log.save"
}

func (event *IntentLogSave) PayloadType() any {
	return &models.PaymentIntent{}
}

func (event *IntentLogSave) Validate(_ context.Context, payload any) error {
	intent, ok := payload.(*models.PaymentIntent)
	if !ok {
		return errors.New(" payload is not of type models.PaymentIntent")
	}
	if intent.GetID() == "" {
		return errors.New(" intent Id should already have been set ")
	}
	return nil
}

func (event *IntentLogSave) Execute(ctx context.Context, payload any) error {
	intent := payload.(*models.PaymentIntent)

	logger := event.Service.Log(ctx).WithField("type", event.Name())
	logger.WithField("payload", intent).Debug("handling event")

	// Intent logging is advisory, the attempt proceeds regardless of the
	// outcome here.
	result := event.Service.DB(ctx, false).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(intent)

	err := result.Error
	if err != nil {
		logger.WithError(err).Warn("could not save intent log to db - continuing execution")
	} else {
		logger.WithField("rows affected", result.RowsAffected).Debug("successfully saved record to db")
	}

	return nil
}
