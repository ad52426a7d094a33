package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/enum"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/pubsub"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Register(context.Context, *model.RegisterAccountRequest) (*model.RegisterAccountResponse, error)
	DailyClaimPoint(context.Context, *model.DailyClaimPointRequest) (*model.DailyClaimPointResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	GeneratePoints(context.Context, *model.GeneratePointsRequest) (*model.GeneratePointsResponse, error)
	GetPointHistory(context.Context, *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type userDomain struct {
	userRepo             repository.UserRepository
	contractStateRepo    repository.ContractStateRepository
	pointTransactionRepo repository.PointTransactionRepository
	executor             *common.Executor
	ledger               *pointLedger
	leaderboard          statistic.Leaderboard
	membershipVerifier   *common.MembershipVerifier
	publisher            pubsub.Publisher
}

func NewUserDomain(
	userRepo repository.UserRepository,
	contractStateRepo repository.ContractStateRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	membershipRepo repository.MembershipRepository,
	executor *common.Executor,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
) UserDomain {
	return &userDomain{
		userRepo:             userRepo,
		contractStateRepo:    contractStateRepo,
		pointTransactionRepo: pointTransactionRepo,
		executor:             executor,
		ledger:               newPointLedger(userRepo, pointTransactionRepo, leaderboard),
		leaderboard:          leaderboard,
		membershipVerifier:   common.NewMembershipVerifier(membershipRepo),
		publisher:            publisher,
	}
}

func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterAccountRequest,
) (*model.RegisterAccountResponse, error) {
	var user *entity.User
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		accountID := xcontext.RequestUserID(ctx)
		if accountID == "" {
			return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		_, err := d.userRepo.GetByID(ctx, accountID)
		if err == nil {
			return errorx.New(errorx.AlreadyRegistered, "Account %s is already registered", accountID)
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return errorx.Unknown
		}

		user = &entity.User{ID: accountID}
		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.RegisterAccountResponse{User: convertUser(user)}, nil
}

func (d *userDomain) DailyClaimPoint(
	ctx context.Context, req *model.DailyClaimPointRequest,
) (*model.DailyClaimPointResponse, error) {
	var balance uint64
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		user, err := getRegisteredUser(ctx, d.userRepo, xcontext.RequestUserID(ctx))
		if err != nil {
			return err
		}

		now := common.Now(ctx)
		if err := checkCooldown(now, user.LastDailyClaim); err != nil {
			return err
		}

		state, err := d.contractStateRepo.Get(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get contract state: %v", err)
			return errorx.Unknown
		}

		balance, err = d.ledger.Credit(ctx, user, state.DailyClaimPoints, entity.ReasonDailyClaim, "")
		if err != nil {
			return err
		}

		if err := d.userRepo.UpdateLastDailyClaim(ctx, user.ID, now); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update last daily claim: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.DailyClaimPointResponse{Points: balance}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	accountID := req.AccountID
	if accountID == "" {
		accountID = xcontext.RequestUserID(ctx)
	}

	user, err := getRegisteredUser(ctx, d.userRepo, accountID)
	if err != nil {
		return nil, err
	}

	// A leaderboard outage must not hide the account itself.
	rank, err := d.leaderboard.GetRank(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get rank of %s: %v", user.ID, err)
	}

	return &model.GetUserResponse{User: convertUser(user), Rank: rank}, nil
}

func (d *userDomain) GeneratePoints(
	ctx context.Context, req *model.GeneratePointsRequest,
) (*model.GeneratePointsResponse, error) {
	var balance uint64
	err := d.executor.Execute(ctx, func(ctx context.Context) error {
		if err := d.membershipVerifier.Verify(ctx); err != nil {
			return err
		}

		if req.AccountID == "" {
			return errorx.New(errorx.BadRequest, "Require account_id")
		}

		user, err := getRegisteredUser(ctx, d.userRepo, req.AccountID)
		if err != nil {
			return err
		}

		contractID := xcontext.RequestUserID(ctx)
		balance, err = d.ledger.Credit(ctx, user, req.Points, entity.ReasonGeneratePoints, contractID)
		if err != nil {
			return err
		}

		publishEvent(ctx, d.publisher, user.ID, PointsGeneratedEvent, PointsGeneratedData{
			ContractID: contractID,
			AccountID:  user.ID,
			Points:     req.Points,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.GeneratePointsResponse{Points: balance}, nil
}

func (d *userDomain) GetPointHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	if err := checkLimit(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	accountID := req.AccountID
	if accountID == "" {
		accountID = xcontext.RequestUserID(ctx)
	}

	if _, err := getRegisteredUser(ctx, d.userRepo, accountID); err != nil {
		return nil, err
	}

	filter := repository.PointTransactionFilter{
		AccountID: accountID,
		Offset:    req.Offset,
		Limit:     req.Limit,
	}

	if req.Reason != "" {
		reason, err := enum.ToEnum[entity.PointTransactionReason](req.Reason)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid reason: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid reason")
		}
		filter.Reason = reason
	}

	txs, err := d.pointTransactionRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point transactions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PointTransaction{}
	for i := range txs {
		result = append(result, convertPointTransaction(&txs[i]))
	}

	return &model.GetPointHistoryResponse{Transactions: result}, nil
}

func (d *userDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if err := checkLimit(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	entries, err := d.leaderboard.GetLeaderboard(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}
