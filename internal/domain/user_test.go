package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_Register(t *testing.T) {
	s := newSuite(t)

	resp, err := s.user.Register(s.as("alice"), &model.RegisterAccountRequest{})
	require.NoError(t, err)
	require.Equal(t, model.User{ID: "alice"}, resp.User)

	_, err = s.user.Register(s.as("alice"), &model.RegisterAccountRequest{})
	require.True(t, errorx.Is(err, errorx.AlreadyRegistered))

	_, err = s.user.Register(s.ctx, &model.RegisterAccountRequest{})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))
}

func Test_userDomain_GetUser(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	resp, err := s.user.GetUser(s.ctx, &model.GetUserRequest{AccountID: "alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.User.ID)

	resp, err = s.user.GetUser(s.as("alice"), &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.User.ID)

	_, err = s.user.GetUser(s.ctx, &model.GetUserRequest{AccountID: "bob"})
	require.True(t, errorx.Is(err, errorx.NotFound))
}

func Test_userDomain_GetUser_Rank(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice", "bob", "carol")
	s.fund(t, "alice", 10)
	s.fund(t, "bob", 30)

	testCases := []struct {
		accountID string
		want      uint64
	}{
		{accountID: "bob", want: 1},
		{accountID: "alice", want: 2},
		{accountID: "carol", want: 3},
	}

	for _, tc := range testCases {
		resp, err := s.user.GetUser(s.ctx, &model.GetUserRequest{AccountID: tc.accountID})
		require.NoError(t, err)
		require.Equal(t, tc.want, resp.Rank, tc.accountID)
	}
}

func Test_userDomain_GetUser_RankFromRedis(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(context.Context, string) (bool, error) { return true, nil },
		ZRevRankFunc: func(_ context.Context, key, member string) (uint64, error) {
			require.Equal(t, common.RedisKeyPointLeaderboard, key)
			require.Equal(t, "alice", member)
			return 1, nil
		},
	}
	userDomain := NewUserDomain(s.userRepo, s.contractStateRepo, s.pointTransactionRepo,
		repository.NewMembershipRepository(), common.NewExecutor(s.clock, s.seeds),
		statistic.New(s.userRepo, redisClient), s.publisher)

	resp, err := userDomain.GetUser(s.as("alice"), &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), resp.Rank)

	// The account is still served when redis is down.
	redisClient.ExistFunc = func(context.Context, string) (bool, error) {
		return false, errors.New("connection refused")
	}
	resp, err = userDomain.GetUser(s.as("alice"), &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.User.ID)
	require.Equal(t, uint64(0), resp.Rank)
}

func Test_userDomain_DailyClaimPoint(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	_, err := s.user.DailyClaimPoint(s.as("bob"), &model.DailyClaimPointRequest{})
	require.True(t, errorx.Is(err, errorx.NotFound))

	resp, err := s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(10), resp.Points)

	u, err := s.userRepo.GetByID(s.ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, s.now(), u.LastDailyClaim)

	s.clock.Advance(time.Hour)
	_, err = s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.True(t, errorx.Is(err, errorx.CooldownActive))

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, uint64(23*3600), errx.Details["remaining_seconds"])
	require.Equal(t, uint64(10), s.balance(t, "alice"))

	s.clock.Advance(23*time.Hour - time.Millisecond)
	_, err = s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.True(t, errorx.Is(err, errorx.CooldownActive))

	s.clock.Advance(time.Millisecond)
	resp, err = s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.Points)
}

func Test_userDomain_DailyClaimPoint_ClockBehindLastClaim(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	_, err := s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.NoError(t, err)

	s.clock.Advance(-time.Hour)
	_, err = s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.True(t, errorx.Is(err, errorx.CooldownActive))

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, uint64(86400), errx.Details["remaining_seconds"])
}

func Test_userDomain_GeneratePoints(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	_, err := s.membership.Add(s.as("owner"), &model.AddMembershipContractRequest{ContractID: "partner"})
	require.NoError(t, err)

	_, err = s.user.GeneratePoints(s.as("stranger"), &model.GeneratePointsRequest{AccountID: "alice", Points: 5})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = s.user.GeneratePoints(s.as("owner"), &model.GeneratePointsRequest{AccountID: "alice", Points: 5})
	require.True(t, errorx.Is(err, errorx.Unauthorized))

	_, err = s.user.GeneratePoints(s.as("partner"), &model.GeneratePointsRequest{AccountID: "bob", Points: 5})
	require.True(t, errorx.Is(err, errorx.NotFound))

	resp, err := s.user.GeneratePoints(s.as("partner"), &model.GeneratePointsRequest{AccountID: "alice", Points: 100})
	require.NoError(t, err)
	require.Equal(t, uint64(100), resp.Points)
	require.Equal(t, uint64(100), s.balance(t, "alice"))

	require.Len(t, s.publisher.Packs, 1)
	require.Equal(t, "arkana-events", s.publisher.Topics[0])
	require.Equal(t, []byte("alice"), s.publisher.Packs[0].Key)

	var ev struct {
		Type EventType           `json:"type"`
		Data PointsGeneratedData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(s.publisher.Packs[0].Msg, &ev))
	require.Equal(t, PointsGeneratedEvent, ev.Type)
	require.Equal(t, PointsGeneratedData{ContractID: "partner", AccountID: "alice", Points: 100}, ev.Data)

	_, err = s.membership.Remove(s.as("owner"), &model.RemoveMembershipContractRequest{ContractID: "partner"})
	require.NoError(t, err)

	_, err = s.user.GeneratePoints(s.as("partner"), &model.GeneratePointsRequest{AccountID: "alice", Points: 5})
	require.True(t, errorx.Is(err, errorx.Unauthorized))
	require.Equal(t, uint64(100), s.balance(t, "alice"))
}

func Test_userDomain_GeneratePoints_AboveStoredRange(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	_, err := s.membership.Add(s.as("owner"), &model.AddMembershipContractRequest{ContractID: "partner"})
	require.NoError(t, err)

	_, err = s.user.GeneratePoints(s.as("partner"),
		&model.GeneratePointsRequest{AccountID: "alice", Points: math.MaxInt64 + 1})
	require.True(t, errorx.Is(err, errorx.BadRequest))
	require.Equal(t, uint64(0), s.balance(t, "alice"))

	_, err = s.user.GeneratePoints(s.as("partner"),
		&model.GeneratePointsRequest{AccountID: "alice", Points: math.MaxInt64})
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxInt64), s.balance(t, "alice"))

	_, err = s.user.GeneratePoints(s.as("partner"), &model.GeneratePointsRequest{AccountID: "alice", Points: 1})
	require.True(t, errorx.Is(err, errorx.BadRequest))
	require.Equal(t, uint64(math.MaxInt64), s.balance(t, "alice"))
}

func Test_userDomain_GetPointHistory(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice")

	_, err := s.user.DailyClaimPoint(s.as("alice"), &model.DailyClaimPointRequest{})
	require.NoError(t, err)

	// Payout of 1 point.
	s.seeds.setUint64(0)
	_, err = s.spinWheel.Play(s.as("alice"), &model.PlaySpinWheelRequest{IsFree: false})
	require.NoError(t, err)

	resp, err := s.user.GetPointHistory(s.as("alice"), &model.GetPointHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 3)

	// Newest first.
	require.Equal(t, string(entity.ReasonSpinWheelPayout), resp.Transactions[0].Reason)
	require.Equal(t, string(entity.PointCredit), resp.Transactions[0].Type)
	require.Equal(t, uint64(1), resp.Transactions[0].Amount)
	require.Equal(t, uint64(6), resp.Transactions[0].BalanceAfter)

	require.Equal(t, string(entity.ReasonSpinWheelPrice), resp.Transactions[1].Reason)
	require.Equal(t, string(entity.PointDebit), resp.Transactions[1].Type)
	require.Equal(t, uint64(5), resp.Transactions[1].BalanceAfter)

	require.Equal(t, string(entity.ReasonDailyClaim), resp.Transactions[2].Reason)
	require.Equal(t, uint64(10), resp.Transactions[2].BalanceAfter)

	resp, err = s.user.GetPointHistory(s.as("alice"), &model.GetPointHistoryRequest{
		Reason: string(entity.ReasonSpinWheelPrice),
	})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	require.Equal(t, uint64(5), resp.Transactions[0].Amount)

	_, err = s.user.GetPointHistory(s.as("alice"), &model.GetPointHistoryRequest{Reason: "refund"})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = s.user.GetPointHistory(s.as("alice"), &model.GetPointHistoryRequest{Limit: 51})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_userDomain_GetLeaderboard(t *testing.T) {
	s := newSuite(t)
	s.register(t, "alice", "bob", "carol")
	s.fund(t, "alice", 5)
	s.fund(t, "bob", 50)
	s.fund(t, "carol", 20)

	resp, err := s.user.GetLeaderboard(s.ctx, &model.GetLeaderboardRequest{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []model.LeaderboardEntry{
		{AccountID: "bob", Points: 50, Rank: 1},
		{AccountID: "carol", Points: 20, Rank: 2},
	}, resp.Entries)

	resp, err = s.user.GetLeaderboard(s.ctx, &model.GetLeaderboardRequest{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []model.LeaderboardEntry{{AccountID: "alice", Points: 5, Rank: 3}}, resp.Entries)
}
