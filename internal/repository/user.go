package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	IncreasePoint(ctx context.Context, id string, points uint64) error
	DecreasePoint(ctx context.Context, id string, points uint64) error
	UpdateLastDailyClaim(ctx context.Context, id string, timestamp uint64) error
	UpdateLastFreeSpinwheel(ctx context.Context, id string, timestamp uint64) error
	UpdateSpinwheelWR(ctx context.Context, id string, wr uint8) error
	GetListOrderByPoints(ctx context.Context, offset, limit int) ([]entity.User, error)
	CountRankedAbove(ctx context.Context, points uint64, id string) (uint64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) IncreasePoint(ctx context.Context, id string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("points", gorm.Expr("points+?", points))

	return checkSingleRow(tx)
}

// DecreasePoint subtracts points from the balance of user. It returns
// gorm.ErrRecordNotFound if the user doesn't exist or its balance is lower
// than points.
func (r *userRepository) DecreasePoint(ctx context.Context, id string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND points>=?", id, points).
		Update("points", gorm.Expr("points-?", points))

	return checkSingleRow(tx)
}

func (r *userRepository) UpdateLastDailyClaim(ctx context.Context, id string, timestamp uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("last_daily_claim", timestamp)

	return checkSingleRow(tx)
}

func (r *userRepository) UpdateLastFreeSpinwheel(ctx context.Context, id string, timestamp uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("last_free_spinwheel", timestamp)

	return checkSingleRow(tx)
}

func (r *userRepository) UpdateSpinwheelWR(ctx context.Context, id string, wr uint8) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("spinwheel_wr", wr)

	return checkSingleRow(tx)
}

func (r *userRepository) GetListOrderByPoints(ctx context.Context, offset, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Order("points DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CountRankedAbove returns the number of users placed before a user with the
// given points and id in GetListOrderByPoints.
func (r *userRepository) CountRankedAbove(ctx context.Context, points uint64, id string) (uint64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("points>? OR (points=? AND id<?)", points, points, id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return uint64(count), nil
}

func checkSingleRow(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
