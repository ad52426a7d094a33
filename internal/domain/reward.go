package domain

import (
	"context"
	"errors"
	"strconv"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/domain/ticketrange"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/pubsub"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardDomain interface {
	Create(context.Context, *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
	BuyTicket(context.Context, *model.BuyTicketRequest) (*model.BuyTicketResponse, error)
	Finalize(context.Context, *model.FinalizeRewardRequest) (*model.FinalizeRewardResponse, error)
	Get(context.Context, *model.GetRewardRequest) (*model.GetRewardResponse, error)
	GetList(context.Context, *model.GetListRewardRequest) (*model.GetListRewardResponse, error)
	GetTickets(context.Context, *model.GetRewardTicketsRequest) (*model.GetRewardTicketsResponse, error)
}

type rewardDomain struct {
	userRepo          repository.UserRepository
	rewardRepo        repository.RewardRepository
	contractStateRepo repository.ContractStateRepository
	executor          *common.Executor
	ledger            *pointLedger
	ownerVerifier     *common.OwnerVerifier
	publisher         pubsub.Publisher
}

func NewRewardDomain(
	userRepo repository.UserRepository,
	rewardRepo repository.RewardRepository,
	contractStateRepo repository.ContractStateRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	executor *common.Executor,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
) RewardDomain {
	return &rewardDomain{
		userRepo:          userRepo,
		rewardRepo:        rewardRepo,
		contractStateRepo: contractStateRepo,
		executor:          executor,
		ledger:            newPointLedger(userRepo, pointTransactionRepo, leaderboard),
		ownerVerifier:     common.NewOwnerVerifier(contractStateRepo),
		publisher:         publisher,
	}
}

func (d *rewardDomain) Create(
	ctx context.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	var rewardID uint64
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		if err := d.ownerVerifier.Verify(ctx); err != nil {
			return err
		}

		if req.Price > MaxStoredValue {
			return errorx.New(errorx.BadRequest, "Price must not exceed %d", uint64(MaxStoredValue))
		}

		if req.EndedAt > MaxStoredValue {
			return errorx.New(errorx.BadRequest, "End time must not exceed %d", uint64(MaxStoredValue))
		}

		var err error
		rewardID, err = d.contractStateRepo.IncreaseLastRewardID(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase reward id: %v", err)
			return errorx.Unknown
		}

		reward := &entity.Reward{
			ID:      rewardID,
			Title:   req.Title,
			Price:   req.Price,
			EndedAt: req.EndedAt,
		}

		if err := d.rewardRepo.Create(ctx, reward); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create reward: %v", err)
			return errorx.Unknown
		}

		publishEvent(ctx, d.publisher, rewardKey(rewardID), RewardCreatedEvent, RewardCreatedData{
			RewardID: rewardID,
			Title:    req.Title,
			Price:    req.Price,
			EndedAt:  req.EndedAt,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.CreateRewardResponse{ID: rewardID}, nil
}

func (d *rewardDomain) BuyTicket(
	ctx context.Context, req *model.BuyTicketRequest,
) (*model.BuyTicketResponse, error) {
	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		user, err := getRegisteredUser(ctx, d.userRepo, xcontext.RequestUserID(ctx))
		if err != nil {
			return err
		}

		reward, err := d.getReward(ctx, req.RewardID)
		if err != nil {
			return err
		}

		if common.Now(ctx) >= reward.EndedAt || reward.IsFinalized() {
			return errorx.New(errorx.RewardEnded, "Reward %d has ended", reward.ID)
		}

		cost, ok := mulPrice(reward.Price, req.Amount)
		if !ok {
			return errorx.New(errorx.InsufficientPoints, "Not enough points")
		}

		if req.Amount > MaxStoredValue || reward.TotalTickets > MaxStoredValue-req.Amount {
			return errorx.New(errorx.BadRequest, "Too many tickets")
		}

		if _, err := d.ledger.Debit(ctx, user, cost, entity.ReasonBuyTicket, rewardKey(reward.ID)); err != nil {
			return err
		}

		ticket := &entity.RewardTicket{
			RewardID:   reward.ID,
			RangeStart: reward.TotalTickets,
			Amount:     req.Amount,
			OwnerID:    user.ID,
		}

		if err := d.rewardRepo.AddTickets(ctx, reward.ID, reward.TotalTickets, req.Amount); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.Conflict, "Reward %d was changed by another request, please retry", reward.ID)
			}

			xcontext.Logger(ctx).Errorf("Cannot add tickets: %v", err)
			return errorx.Unknown
		}

		if err := d.rewardRepo.CreateTicket(ctx, ticket); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create ticket: %v", err)
			return errorx.Unknown
		}

		publishEvent(ctx, d.publisher, rewardKey(reward.ID), TicketBoughtEvent, TicketBoughtData{
			RewardID:   reward.ID,
			AccountID:  user.ID,
			RangeStart: ticket.RangeStart,
			Amount:     ticket.Amount,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.BuyTicketResponse{RewardID: req.RewardID, Amount: req.Amount}, nil
}

func (d *rewardDomain) Finalize(
	ctx context.Context, req *model.FinalizeRewardRequest,
) (*model.FinalizeRewardResponse, error) {
	var winner string
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		reward, err := d.getReward(ctx, req.RewardID)
		if err != nil {
			return err
		}

		if common.Now(ctx) < reward.EndedAt {
			return errorx.New(errorx.RewardNotEnded, "Reward %d has not ended yet", reward.ID)
		}

		if reward.IsFinalized() {
			return errorx.New(errorx.AlreadyFinalized, "Reward %d is already finalized", reward.ID)
		}

		if reward.TotalTickets == 0 {
			return errorx.New(errorx.NoTicketsSold, "Reward %d has no tickets", reward.ID)
		}

		tickets, err := d.rewardRepo.GetTickets(ctx, reward.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
			return errorx.Unknown
		}

		ranges := []ticketrange.Range{}
		for _, t := range tickets {
			ranges = append(ranges, ticketrange.Range{Start: t.RangeStart, Amount: t.Amount, Owner: t.OwnerID})
		}

		index, err := ticketrange.Load(ranges)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid ticket ranges of reward %d: %v", reward.ID, err)
			return errorx.Unknown
		}

		if index.Total() != reward.TotalTickets {
			xcontext.Logger(ctx).Errorf("Ticket ranges of reward %d cover %d tickets, expected %d",
				reward.ID, index.Total(), reward.TotalTickets)
			return errorx.Unknown
		}

		random, err := common.RandomUint64(ctx, 0)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get random number: %v", err)
			return errorx.Unknown
		}

		won, ticket, err := index.Draw(random)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot draw ticket: %v", err)
			return errorx.Unknown
		}

		if err := d.rewardRepo.SetWinner(ctx, reward.ID, reward.TotalTickets, won.Owner); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.Conflict, "Reward %d was changed by another request, please retry", reward.ID)
			}

			xcontext.Logger(ctx).Errorf("Cannot set winner: %v", err)
			return errorx.Unknown
		}

		if err := d.rewardRepo.DeleteTickets(ctx, reward.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete tickets: %v", err)
			return errorx.Unknown
		}

		winner = won.Owner
		publishEvent(ctx, d.publisher, rewardKey(reward.ID), RewardFinalizedEvent, RewardFinalizedData{
			RewardID:     reward.ID,
			Winner:       won.Owner,
			Ticket:       ticket,
			TotalTickets: reward.TotalTickets,
		})

		trigger := "manual"
		if xcontext.RequestUserID(ctx) == "" {
			trigger = "cron"
		}
		common.PromCounters[common.RewardFinalizedTotal].WithLabelValues(trigger).Inc()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.FinalizeRewardResponse{Winner: winner}, nil
}

func (d *rewardDomain) Get(
	ctx context.Context, req *model.GetRewardRequest,
) (*model.GetRewardResponse, error) {
	reward, err := d.getReward(ctx, req.RewardID)
	if err != nil {
		return nil, err
	}

	return &model.GetRewardResponse{Reward: convertReward(reward)}, nil
}

func (d *rewardDomain) GetList(
	ctx context.Context, req *model.GetListRewardRequest,
) (*model.GetListRewardResponse, error) {
	if err := checkLimit(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	rewards, err := d.rewardRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reward list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Reward{}
	for i := range rewards {
		result = append(result, convertReward(&rewards[i]))
	}

	return &model.GetListRewardResponse{Rewards: result}, nil
}

func (d *rewardDomain) GetTickets(
	ctx context.Context, req *model.GetRewardTicketsRequest,
) (*model.GetRewardTicketsResponse, error) {
	if _, err := d.getReward(ctx, req.RewardID); err != nil {
		return nil, err
	}

	tickets, err := d.rewardRepo.GetTickets(ctx, req.RewardID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.RewardTicket{}
	for i := range tickets {
		result = append(result, convertRewardTicket(&tickets[i]))
	}

	return &model.GetRewardTicketsResponse{Tickets: result}, nil
}

func (d *rewardDomain) getReward(ctx context.Context, id uint64) (*entity.Reward, error) {
	reward, err := d.rewardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Reward %d not found", id)
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	return reward, nil
}

func rewardKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
