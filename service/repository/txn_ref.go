package repository

import (
	"context"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
)

type TxnRefRepository interface {
	GetByID(ctx context.Context, id string) (*models.TxnRef, error)
	GetByReference(ctx context.Context, reference string) (*models.TxnRef, error)
	Save(ctx context.Context, txnRef *models.TxnRef) error
}

type txnRefRepository struct {
	abstractRepository
}

func NewTxnRefRepository(_ context.Context, service *frame.Service) TxnRefRepository {
	return &txnRefRepository{abstractRepository{service: service}}
}

func (repo *txnRefRepository) GetByID(ctx context.Context, id string) (*models.TxnRef, error) {
	txnRef := models.TxnRef{}
	err := repo.readDb(ctx).First(&txnRef, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &txnRef, nil
}

func (repo *txnRefRepository) GetByReference(ctx context.Context, reference string) (*models.TxnRef, error) {
	txnRef := models.TxnRef{}
	err := repo.readDb(ctx).First(&txnRef, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &txnRef, nil
}

func (repo *txnRefRepository) Save(ctx context.Context, txnRef *models.TxnRef) error {
	return repo.writeDb(ctx).Save(txnRef).Error
}
