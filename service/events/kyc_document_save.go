package events

import (
	"context"
	"errors"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
	"gorm.io/gorm/clause"
)

type KycDocumentSave struct {
	Service *frame.Service
}

func (event *KycDocumentSave) Name() string {
	return "kyc.document.save"
}

func (event *KycDocumentSave) PayloadType() any {
	return &models.KycDocument{}
}

func (event *KycDocumentSave) Validate(_ context.Context, payload any) error {
	document, ok := payload.(*models.KycDocument)
	if !ok {
		return errors.New(" payload is not of type models.KycDocument")
	}
	if document.GetID() == "" {
		return errors.New(" document Id should already have been set ")
	}
	return nil
}

func (event *KycDocumentSave) Execute(ctx context.Context, payload any) error {
	document := payload.(*models.KycDocument)

	logger := event.Service.Log(ctx).WithField("type", event.Name())
	logger.WithField("payload", document).Debug("handling event")

	result := event.Service.DB(ctx, false).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(document)

	err := result.Error
	if err != nil {
		logger.WithError(err).Error("could not save kyc document to db")
		return err
	}

	logger.WithField("rows affected", result.RowsAffected).Debug("successfully saved record to db")
	return nil
}
