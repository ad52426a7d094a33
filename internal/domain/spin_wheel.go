package domain

import (
	"context"
	"strconv"

	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/spinwheel"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type SpinWheelDomain interface {
	Play(context.Context, *model.PlaySpinWheelRequest) (*model.PlaySpinWheelResponse, error)
}

type spinWheelDomain struct {
	userRepo          repository.UserRepository
	contractStateRepo repository.ContractStateRepository
	executor          *common.Executor
	ledger            *pointLedger
}

func NewSpinWheelDomain(
	userRepo repository.UserRepository,
	contractStateRepo repository.ContractStateRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	executor *common.Executor,
	leaderboard statistic.Leaderboard,
) SpinWheelDomain {
	return &spinWheelDomain{
		userRepo:          userRepo,
		contractStateRepo: contractStateRepo,
		executor:          executor,
		ledger:            newPointLedger(userRepo, pointTransactionRepo, leaderboard),
	}
}

func (d *spinWheelDomain) Play(
	ctx context.Context, req *model.PlaySpinWheelRequest,
) (*model.PlaySpinWheelResponse, error) {
	arkanaCfg := xcontext.Configs(ctx).Arkana
	bucketing, err := spinwheel.ParseBucketing(arkanaCfg.WheelBucketing)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid wheel bucketing: %v", err)
		return nil, errorx.Unknown
	}

	wheel := spinwheel.New(bucketing)
	resp := &model.PlaySpinWheelResponse{}
	err = d.executor.Execute(ctx, func(ctx context.Context) error {
		user, err := getRegisteredUser(ctx, d.userRepo, xcontext.RequestUserID(ctx))
		if err != nil {
			return err
		}

		state, err := d.contractStateRepo.Get(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get contract state: %v", err)
			return errorx.Unknown
		}

		if req.IsFree {
			now := common.Now(ctx)
			if err := checkCooldown(now, user.LastFreeSpinwheel); err != nil {
				return err
			}

			if err := d.userRepo.UpdateLastFreeSpinwheel(ctx, user.ID, now); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update last free spinwheel: %v", err)
				return errorx.Unknown
			}
		} else {
			_, err := d.ledger.Debit(ctx, user, state.SpinWheelPrice, entity.ReasonSpinWheelPrice, "")
			if err != nil {
				return err
			}
		}

		streak := state.SpinwheelWR
		if arkanaCfg.PityScope == config.PityScopeAccount {
			streak = user.SpinwheelWR
		}

		random, err := common.RandomUint32(ctx, 0)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get random number: %v", err)
			return errorx.Unknown
		}

		result := wheel.Spin(random, streak)
		if arkanaCfg.PityScope == config.PityScopeAccount {
			err = d.userRepo.UpdateSpinwheelWR(ctx, user.ID, result.Streak)
		} else {
			err = d.contractStateRepo.UpdateSpinwheelWR(ctx, result.Streak)
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update spinwheel streak: %v", err)
			return errorx.Unknown
		}

		balance, err := d.ledger.Credit(ctx, user, result.Payout, entity.ReasonSpinWheelPayout, "")
		if err != nil {
			return err
		}

		common.PromCounters[common.SpinWheelPlayTotal].
			WithLabelValues(strconv.FormatUint(result.Payout, 10)).Inc()

		resp.Payout = result.Payout
		resp.Points = balance
		resp.Streak = result.Streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
