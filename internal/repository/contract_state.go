package repository

import (
	"context"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractStateRepository interface {
	// Init creates the contract state if it doesn't exist yet. An existing
	// state is kept untouched.
	Init(ctx context.Context, data *entity.ContractState) error
	Get(ctx context.Context) (*entity.ContractState, error)
	IncreaseLastRewardID(ctx context.Context) (uint64, error)
	UpdateSpinwheelWR(ctx context.Context, wr uint8) error
}

type contractStateRepository struct{}

func NewContractStateRepository() ContractStateRepository {
	return &contractStateRepository{}
}

func (r *contractStateRepository) Init(ctx context.Context, data *entity.ContractState) error {
	data.ID = entity.ContractStateID
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *contractStateRepository) Get(ctx context.Context) (*entity.ContractState, error) {
	var record entity.ContractState
	err := xcontext.DB(ctx).Take(&record, "id=?", entity.ContractStateID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// IncreaseLastRewardID increases the reward counter and returns its new value.
func (r *contractStateRepository) IncreaseLastRewardID(ctx context.Context) (uint64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.ContractState{}).
		Where("id=?", entity.ContractStateID).
		Update("last_reward_id", gorm.Expr("last_reward_id+1"))
	if err := checkSingleRow(tx); err != nil {
		return 0, err
	}

	state, err := r.Get(ctx)
	if err != nil {
		return 0, err
	}

	return state.LastRewardID, nil
}

func (r *contractStateRepository) UpdateSpinwheelWR(ctx context.Context, wr uint8) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ContractState{}).
		Where("id=?", entity.ContractStateID).
		Update("spinwheel_wr", wr)

	return checkSingleRow(tx)
}
