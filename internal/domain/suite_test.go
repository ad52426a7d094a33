package domain

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/crypto"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/testutil"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// fixedSeedSource returns the same seed on every call, so the next random
// number can be chosen by the test.
type fixedSeedSource struct {
	seed []byte
}

func (s *fixedSeedSource) Seed() ([]byte, error) {
	return append([]byte{}, s.seed...), nil
}

func (s *fixedSeedSource) setUint64(v uint64) {
	s.seed = make([]byte, crypto.SeedLength)
	binary.LittleEndian.PutUint64(s.seed, v)
}

type suite struct {
	ctx   context.Context
	clock *dateutil.MockClock
	seeds *fixedSeedSource

	publisher *testutil.RecordPublisher

	userRepo             repository.UserRepository
	rewardRepo           repository.RewardRepository
	contractStateRepo    repository.ContractStateRepository
	pointTransactionRepo repository.PointTransactionRepository

	user       UserDomain
	spinWheel  SpinWheelDomain
	reward     RewardDomain
	membership MembershipDomain
}

func newSuite(t *testing.T) *suite {
	return newSuiteWithConfigs(t, testutil.MockConfigs())
}

func newSuiteWithConfigs(t *testing.T, cfg config.Configs) *suite {
	t.Helper()

	s := &suite{
		ctx:                  testutil.MockContextWithConfigs(cfg),
		clock:                dateutil.NewMockClock(testutil.Now),
		seeds:                &fixedSeedSource{seed: make([]byte, crypto.SeedLength)},
		publisher:            &testutil.RecordPublisher{},
		userRepo:             repository.NewUserRepository(),
		rewardRepo:           repository.NewRewardRepository(),
		contractStateRepo:    repository.NewContractStateRepository(),
		pointTransactionRepo: repository.NewPointTransactionRepository(),
	}

	membershipRepo := repository.NewMembershipRepository()
	executor := common.NewExecutor(s.clock, s.seeds)
	leaderboard := statistic.New(s.userRepo, nil)

	s.user = NewUserDomain(s.userRepo, s.contractStateRepo, s.pointTransactionRepo,
		membershipRepo, executor, leaderboard, s.publisher)
	s.spinWheel = NewSpinWheelDomain(s.userRepo, s.contractStateRepo, s.pointTransactionRepo,
		executor, leaderboard)
	s.reward = NewRewardDomain(s.userRepo, s.rewardRepo, s.contractStateRepo, s.pointTransactionRepo,
		executor, leaderboard, s.publisher)
	s.membership = NewMembershipDomain(membershipRepo, s.contractStateRepo, executor)

	return s
}

func (s *suite) as(accountID string) context.Context {
	return xcontext.WithRequestUserID(s.ctx, accountID)
}

func (s *suite) now() uint64 {
	return dateutil.ToMilli(s.clock.Now())
}

func (s *suite) register(t *testing.T, accountIDs ...string) {
	t.Helper()

	for _, id := range accountIDs {
		_, err := s.user.Register(s.as(id), &model.RegisterAccountRequest{})
		require.NoError(t, err)
	}
}

func (s *suite) fund(t *testing.T, accountID string, points uint64) {
	t.Helper()
	require.NoError(t, s.userRepo.IncreasePoint(s.ctx, accountID, points))
}

func (s *suite) balance(t *testing.T, accountID string) uint64 {
	t.Helper()

	u, err := s.userRepo.GetByID(s.ctx, accountID)
	require.NoError(t, err)
	return u.Points
}

func (s *suite) state(t *testing.T) *entity.ContractState {
	t.Helper()

	state, err := s.contractStateRepo.Get(s.ctx)
	require.NoError(t, err)
	return state
}
