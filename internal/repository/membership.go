package repository

import (
	"context"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type MembershipRepository interface {
	// Add inserts the contract into the allowlist. Adding an existing contract
	// is a no-op.
	Add(ctx context.Context, data *entity.MembershipContract) error
	Remove(ctx context.Context, contractID string) error
	Exists(ctx context.Context, contractID string) (bool, error)
	GetList(ctx context.Context) ([]entity.MembershipContract, error)
}

type membershipRepository struct{}

func NewMembershipRepository() MembershipRepository {
	return &membershipRepository{}
}

func (r *membershipRepository) Add(ctx context.Context, data *entity.MembershipContract) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *membershipRepository) Remove(ctx context.Context, contractID string) error {
	return xcontext.DB(ctx).
		Delete(&entity.MembershipContract{}, "contract_id=?", contractID).Error
}

func (r *membershipRepository) Exists(ctx context.Context, contractID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.MembershipContract{}).
		Where("contract_id=?", contractID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *membershipRepository) GetList(ctx context.Context) ([]entity.MembershipContract, error) {
	var result []entity.MembershipContract
	if err := xcontext.DB(ctx).Order("contract_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
