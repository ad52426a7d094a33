package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
)

// pointLedger moves points in and out of user balances. Every movement is
// recorded as a point transaction and mirrored to the leaderboard once the
// running operation is committed.
type pointLedger struct {
	userRepo             repository.UserRepository
	pointTransactionRepo repository.PointTransactionRepository
	leaderboard          statistic.Leaderboard
}

func newPointLedger(
	userRepo repository.UserRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	leaderboard statistic.Leaderboard,
) *pointLedger {
	return &pointLedger{
		userRepo:             userRepo,
		pointTransactionRepo: pointTransactionRepo,
		leaderboard:          leaderboard,
	}
}

// Credit adds amount to the balance of user and returns the new balance.
func (l *pointLedger) Credit(
	ctx context.Context,
	user *entity.User,
	amount uint64,
	reason entity.PointTransactionReason,
	refID string,
) (uint64, error) {
	if amount > MaxStoredValue || user.Points > MaxStoredValue-amount {
		return 0, errorx.New(errorx.BadRequest, "Balance of %s would overflow", user.ID)
	}

	if err := l.userRepo.IncreasePoint(ctx, user.ID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.NotFound, "Account %s is not registered", user.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot increase point: %v", err)
		return 0, errorx.Unknown
	}

	user.Points += amount
	if err := l.record(ctx, user, entity.PointCredit, reason, amount, refID); err != nil {
		return 0, err
	}

	common.PromCounters[common.PointsCreditedTotal].WithLabelValues(string(reason)).Add(float64(amount))
	return user.Points, nil
}

// Debit subtracts amount from the balance of user and returns the new
// balance. The balance is untouched if it is lower than amount.
func (l *pointLedger) Debit(
	ctx context.Context,
	user *entity.User,
	amount uint64,
	reason entity.PointTransactionReason,
	refID string,
) (uint64, error) {
	if user.Points < amount {
		return 0, errorx.New(errorx.InsufficientPoints, "Not enough points").
			WithDetail("balance", user.Points).
			WithDetail("required", amount)
	}

	if err := l.userRepo.DecreasePoint(ctx, user.ID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.InsufficientPoints, "Not enough points")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease point: %v", err)
		return 0, errorx.Unknown
	}

	user.Points -= amount
	if err := l.record(ctx, user, entity.PointDebit, reason, amount, refID); err != nil {
		return 0, err
	}

	common.PromCounters[common.PointsDebitedTotal].WithLabelValues(string(reason)).Add(float64(amount))
	return user.Points, nil
}

func (l *pointLedger) record(
	ctx context.Context,
	user *entity.User,
	txType entity.PointTransactionType,
	reason entity.PointTransactionReason,
	amount uint64,
	refID string,
) error {
	node := xcontext.SnowFlake(ctx)
	if node == nil {
		xcontext.Logger(ctx).Errorf("No snowflake node in context")
		return errorx.Unknown
	}

	err := l.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: node.Generate().Int64()},
		AccountID:     user.ID,
		Type:          txType,
		Reason:        reason,
		Amount:        amount,
		BalanceAfter:  user.Points,
		RefID:         refID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create point transaction: %v", err)
		return errorx.Unknown
	}

	accountID, balance := user.ID, user.Points
	common.AfterCommit(ctx, func(ctx context.Context) {
		if err := l.leaderboard.SetPoints(ctx, accountID, balance); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard of %s: %v", accountID, err)
		}
	})

	return nil
}
