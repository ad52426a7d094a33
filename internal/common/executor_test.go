package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/crypto"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/testutil"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Commit(t *testing.T) {
	ctx := testutil.MockContext()
	clock := dateutil.NewMockClock(testutil.Now)
	executor := NewExecutor(clock, crypto.NewSeededSource(1))
	userRepo := repository.NewUserRepository()

	called := false
	err := executor.Execute(ctx, func(ctx context.Context) error {
		env, ok := xcontext.GetEnv(ctx)
		require.True(t, ok)
		require.Equal(t, dateutil.ToMilli(testutil.Now), env.BlockTimestamp)
		require.Len(t, env.RandomSeed, crypto.SeedLength)
		require.Equal(t, env.BlockTimestamp, Now(ctx))

		AfterCommit(ctx, func(ctx context.Context) {
			// The committed row is visible outside of the transaction.
			_, err := userRepo.GetByID(ctx, "alice")
			require.NoError(t, err)
			called = true
		})

		require.False(t, called)
		return userRepo.Create(ctx, &entity.User{ID: "alice"})
	})
	require.NoError(t, err)
	require.True(t, called)
}

func TestExecutor_Rollback(t *testing.T) {
	ctx := testutil.MockContext()
	executor := NewExecutor(dateutil.NewMockClock(testutil.Now), crypto.NewSeededSource(1))
	userRepo := repository.NewUserRepository()

	called := false
	failure := errorx.New(errorx.InsufficientPoints, "Not enough points")
	err := executor.Execute(ctx, func(ctx context.Context) error {
		AfterCommit(ctx, func(ctx context.Context) { called = true })

		if err := userRepo.Create(ctx, &entity.User{ID: "alice"}); err != nil {
			return err
		}

		return failure
	})
	require.True(t, errorx.Is(err, errorx.InsufficientPoints))
	require.False(t, called)

	_, err = userRepo.GetByID(ctx, "alice")
	require.Error(t, err)
}

func TestExecutor_SeedFailure(t *testing.T) {
	ctx := testutil.MockContext()
	executor := NewExecutor(dateutil.NewMockClock(testutil.Now), failingSeedSource{})

	err := executor.Execute(ctx, func(ctx context.Context) error {
		t.Fatal("must not be called")
		return nil
	})
	require.Equal(t, errorx.Unknown.Error(), err.Error())
}

func TestExecutor_EnvPerCall(t *testing.T) {
	ctx := testutil.MockContext()
	clock := dateutil.NewMockClock(testutil.Now)
	executor := NewExecutor(clock, crypto.NewSeededSource(1))

	var first, second xcontext.Env
	require.NoError(t, executor.Execute(ctx, func(ctx context.Context) error {
		first, _ = xcontext.GetEnv(ctx)
		clock.Advance(time.Hour)
		return nil
	}))

	require.NoError(t, executor.Execute(ctx, func(ctx context.Context) error {
		second, _ = xcontext.GetEnv(ctx)
		return nil
	}))

	require.Equal(t, dateutil.ToMilli(testutil.Now), first.BlockTimestamp)
	require.Equal(t, first.BlockTimestamp+uint64(time.Hour.Milliseconds()), second.BlockTimestamp)
	require.NotEqual(t, first.RandomSeed, second.RandomSeed)
}

func TestRandomOutsideOperation(t *testing.T) {
	_, err := RandomUint32(context.Background(), 0)
	require.True(t, errorx.Is(err, errorx.Internal))

	_, err = RandomUint64(context.Background(), 0)
	require.True(t, errorx.Is(err, errorx.Internal))
}

func TestAfterCommitOutsideOperation(t *testing.T) {
	called := false
	AfterCommit(context.Background(), func(context.Context) { called = true })
	require.True(t, called)
}

type failingSeedSource struct{}

func (failingSeedSource) Seed() ([]byte, error) {
	return nil, errors.New("no entropy")
}
