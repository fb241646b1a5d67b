package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/service/models"
)

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	List(ctx context.Context, query string, status string, category string) ([]*models.Transaction, error)
	Save(ctx context.Context, transaction *models.Transaction) error
}

type transactionRepository struct {
	abstractRepository
}

func NewTransactionRepository(_ context.Context, service *frame.Service) TransactionRepository {
	return &transactionRepository{abstractRepository{service: service}}
}

func (repo *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	transaction := models.Transaction{}
	err := repo.readDb(ctx).First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (repo *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	transaction := models.Transaction{}
	err := repo.readDb(ctx).First(&transaction, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// List returns ledger entries newest first, optionally narrowed by a free
// text query over merchant/reference and exact status/category matches.
func (repo *transactionRepository) List(ctx context.Context, query string, status string, category string) ([]*models.Transaction, error) {
	query = strings.TrimSpace(query)
	var transactions []*models.Transaction

	transactionQuery := repo.readDb(ctx)
	if query != "" {
		searchQ := fmt.Sprintf("%%%s%%", query)
		transactionQuery = transactionQuery.
			Where(" merchant ILIKE ? OR reference ILIKE ?", searchQ, searchQ)
	}
	if status != "" {
		transactionQuery = transactionQuery.Where("status = ?", status)
	}
	if category != "" {
		transactionQuery = transactionQuery.Where("category = ?", category)
	}

	err := transactionQuery.Order("created_at DESC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (repo *transactionRepository) Save(ctx context.Context, transaction *models.Transaction) error {
	return repo.writeDb(ctx).Save(transaction).Error
}
