package statistic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/questx-lab/arkana/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const loadBatchSize = 500

// Leaderboard ranks accounts by their point balance.
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, offset, limit int) ([]model.LeaderboardEntry, error)

	// GetRank returns the one-based rank of the account, or 0 if the account
	// is not ranked.
	GetRank(ctx context.Context, accountID string) (uint64, error)

	// SetPoints records the latest balance of the account.
	SetPoints(ctx context.Context, accountID string, points uint64) error
}

type leaderboard struct {
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

// New returns a leaderboard cached in a redis sorted set. If redisClient is
// nil, the leaderboard is read from the database on every call.
func New(userRepo repository.UserRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{userRepo: userRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	if l.redisClient == nil {
		return l.getLeaderboardFromDB(ctx, offset, limit)
	}

	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, common.RedisKeyPointLeaderboard, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			xcontext.Logger(ctx).Errorf("Invalid leaderboard member type %T", z.Member)
			return nil, errorx.Unknown
		}

		entries = append(entries, model.LeaderboardEntry{
			AccountID: member,
			Points:    uint64(z.Score),
			Rank:      offset + i + 1,
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(ctx context.Context, accountID string) (uint64, error) {
	if l.redisClient == nil {
		return l.getRankFromDB(ctx, accountID)
	}

	if err := l.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, common.RedisKeyPointLeaderboard, accountID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get rev rank redis: %v", err)
		return 0, errorx.Unknown
	}

	return rank + 1, nil
}

func (l *leaderboard) SetPoints(ctx context.Context, accountID string, points uint64) error {
	if l.redisClient == nil {
		return nil
	}

	ok, err := l.redisClient.Exist(ctx, common.RedisKeyPointLeaderboard)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, it will be loaded from database later.
	if !ok {
		return nil
	}

	err = l.redisClient.ZAdd(ctx, common.RedisKeyPointLeaderboard, redis.Z{
		Score:  float64(points),
		Member: accountID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

// ensureLoaded builds the sorted set from database if it does not exist. The
// set is filled under a temporary key and then renamed, so readers never see
// a partially loaded set.
func (l *leaderboard) ensureLoaded(ctx context.Context) error {
	ok, err := l.redisClient.Exist(ctx, common.RedisKeyPointLeaderboard)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	if ok {
		return nil
	}

	loadingKey := common.RedisKeyPointLeaderboardLoading(uuid.NewString())
	loaded := 0
	for offset := 0; ; offset += loadBatchSize {
		users, err := l.userRepo.GetListOrderByPoints(ctx, offset, loadBatchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
			l.discard(ctx, loadingKey)
			return errorx.Unknown
		}

		for _, u := range users {
			err := l.redisClient.ZAdd(ctx, loadingKey, redis.Z{
				Score:  float64(u.Points),
				Member: u.ID,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
				l.discard(ctx, loadingKey)
				return errorx.Unknown
			}
		}

		loaded += len(users)
		if len(users) < loadBatchSize {
			break
		}
	}

	// Nothing to rank yet, the set will be loaded again on the next read.
	if loaded == 0 {
		return nil
	}

	renamed, err := l.redisClient.RenameNX(ctx, loadingKey, common.RedisKeyPointLeaderboard)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call renamenx redis: %v", err)
		l.discard(ctx, loadingKey)
		return errorx.Unknown
	}

	// Another loader won, its set already receives the latest balances.
	if !renamed {
		l.discard(ctx, loadingKey)
	}

	return nil
}

func (l *leaderboard) discard(ctx context.Context, key string) {
	if err := l.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete redis key %s: %v", key, err)
	}
}

func (l *leaderboard) getRankFromDB(ctx context.Context, accountID string) (uint64, error) {
	user, err := l.userRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return 0, errorx.Unknown
	}

	above, err := l.userRepo.CountRankedAbove(ctx, user.Points, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users ranked above: %v", err)
		return 0, errorx.Unknown
	}

	return above + 1, nil
}

func (l *leaderboard) getLeaderboardFromDB(
	ctx context.Context, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	users, err := l.userRepo.GetListOrderByPoints(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, u := range users {
		entries = append(entries, model.LeaderboardEntry{
			AccountID: u.ID,
			Points:    u.Points,
			Rank:      offset + i + 1,
		})
	}

	return entries, nil
}
