package repository

import (
	"context"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type RewardRepository interface {
	Create(ctx context.Context, data *entity.Reward) error
	GetByID(ctx context.Context, id uint64) (*entity.Reward, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Reward, error)
	GetEndedUnfinalized(ctx context.Context, now uint64, limit int) ([]entity.Reward, error)
	AddTickets(ctx context.Context, id, currentTotal, amount uint64) error
	SetWinner(ctx context.Context, id, totalTickets uint64, winner string) error
	CreateTicket(ctx context.Context, data *entity.RewardTicket) error
	GetTickets(ctx context.Context, rewardID uint64) ([]entity.RewardTicket, error)
	DeleteTickets(ctx context.Context, rewardID uint64) error
}

type rewardRepository struct{}

func NewRewardRepository() RewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, data *entity.Reward) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id uint64) (*entity.Reward, error) {
	var record entity.Reward
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rewardRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetEndedUnfinalized returns rewards which ended at or before now, have no
// winner yet and sold at least one ticket.
func (r *rewardRepository) GetEndedUnfinalized(
	ctx context.Context, now uint64, limit int,
) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Where("ended_at<=? AND winner IS NULL AND total_tickets>0", now).
		Order("ended_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AddTickets increases total_tickets by amount. The update only happens if the
// reward is still open for sale and its total equals currentTotal, otherwise
// gorm.ErrRecordNotFound is returned.
func (r *rewardRepository) AddTickets(ctx context.Context, id, currentTotal, amount uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=? AND total_tickets=? AND winner IS NULL", id, currentTotal).
		Update("total_tickets", currentTotal+amount)

	return checkSingleRow(tx)
}

// SetWinner closes the reward. The update only happens if the reward has no
// winner yet and its total still equals totalTickets, the total the winner was
// drawn from, otherwise gorm.ErrRecordNotFound is returned.
func (r *rewardRepository) SetWinner(ctx context.Context, id, totalTickets uint64, winner string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=? AND total_tickets=? AND winner IS NULL", id, totalTickets).
		Update("winner", winner)

	return checkSingleRow(tx)
}

func (r *rewardRepository) CreateTicket(ctx context.Context, data *entity.RewardTicket) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetTickets(ctx context.Context, rewardID uint64) ([]entity.RewardTicket, error) {
	var result []entity.RewardTicket
	err := xcontext.DB(ctx).
		Where("reward_id=?", rewardID).
		Order("range_start ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) DeleteTickets(ctx context.Context, rewardID uint64) error {
	return xcontext.DB(ctx).
		Delete(&entity.RewardTicket{}, "reward_id=?", rewardID).Error
}
