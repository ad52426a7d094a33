package repository

import (
	"context"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type PointTransactionFilter struct {
	AccountID string

	// Reason is optional, an empty reason matches all transactions.
	Reason entity.PointTransactionReason

	Offset int
	Limit  int
}

type PointTransactionRepository interface {
	Create(ctx context.Context, data *entity.PointTransaction) error
	GetList(ctx context.Context, filter PointTransactionFilter) ([]entity.PointTransaction, error)
}

type pointTransactionRepository struct{}

func NewPointTransactionRepository() PointTransactionRepository {
	return &pointTransactionRepository{}
}

func (r *pointTransactionRepository) Create(ctx context.Context, data *entity.PointTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointTransactionRepository) GetList(
	ctx context.Context, filter PointTransactionFilter,
) ([]entity.PointTransaction, error) {
	tx := xcontext.DB(ctx).Where("account_id=?", filter.AccountID)
	if filter.Reason != "" {
		tx = tx.Where("reason=?", filter.Reason)
	}

	var result []entity.PointTransaction
	err := tx.Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
