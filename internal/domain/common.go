package domain

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
)

// MaxStoredValue bounds every number the domain persists. Both
// database drivers store these columns as signed 64-bit integers.
const MaxStoredValue = math.MaxInt64

func checkLimit(ctx context.Context, offset int, limit *int) error {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if *limit == 0 {
		*limit = apiCfg.DefaultLimit
	}

	if *limit < 0 {
		return errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if *limit > apiCfg.MaxLimit {
		return errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	if offset < 0 {
		return errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	return nil
}

// checkCooldown returns CooldownActive if less than one day passed since the
// last action at timestamp last.
func checkCooldown(now, last uint64) error {
	elapsed := dateutil.Elapsed(now, last)
	if elapsed < dateutil.OneDay {
		remaining := dateutil.RemainingSeconds(dateutil.OneDay, elapsed)
		return errorx.New(errorx.CooldownActive, "Please wait %d seconds", remaining).
			WithDetail("remaining_seconds", remaining)
	}

	return nil
}

// getRegisteredUser returns the user or NotFound if the account has not been
// registered.
func getRegisteredUser(
	ctx context.Context, userRepo repository.UserRepository, accountID string,
) (*entity.User, error) {
	if accountID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	user, err := userRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Account %s is not registered", accountID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// mulPrice returns price*amount and false if the product overflows.
func mulPrice(price, amount uint64) (uint64, bool) {
	if amount != 0 && price > math.MaxUint64/amount {
		return 0, false
	}

	return price * amount, true
}

func convertUser(u *entity.User) model.User {
	return model.User{
		ID:                u.ID,
		Points:            u.Points,
		LastDailyClaim:    u.LastDailyClaim,
		LastFreeSpinwheel: u.LastFreeSpinwheel,
		SpinwheelWR:       u.SpinwheelWR,
	}
}

func convertReward(r *entity.Reward) model.Reward {
	return model.Reward{
		ID:           r.ID,
		Title:        r.Title,
		Price:        r.Price,
		EndedAt:      r.EndedAt,
		TotalTickets: r.TotalTickets,
		Winner:       r.Winner.String,
	}
}

func convertRewardTicket(t *entity.RewardTicket) model.RewardTicket {
	return model.RewardTicket{
		RangeStart: t.RangeStart,
		Amount:     t.Amount,
		OwnerID:    t.OwnerID,
	}
}

func convertMembershipContract(m *entity.MembershipContract) model.MembershipContract {
	return model.MembershipContract{
		ContractID: m.ContractID,
		AddedBy:    m.AddedBy,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339Nano),
	}
}

func convertPointTransaction(tx *entity.PointTransaction) model.PointTransaction {
	return model.PointTransaction{
		ID:           strconv.FormatInt(tx.ID, 10),
		Type:         string(tx.Type),
		Reason:       string(tx.Reason),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		RefID:        tx.RefID,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339Nano),
	}
}
