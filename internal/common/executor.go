package common

import (
	"context"
	"sync"

	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/pkg/crypto"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type afterCommitKey struct{}

// Executor runs every state changing operation one at a time inside a
// database transaction. Either all changes of an operation are committed or
// none of them are.
type Executor struct {
	mutex sync.Mutex
	clock dateutil.Clock
	seeds crypto.SeedSource
}

func NewExecutor(clock dateutil.Clock, seeds crypto.SeedSource) *Executor {
	return &Executor{clock: clock, seeds: seeds}
}

// Execute snapshots the environment, opens a transaction and calls fn. The
// transaction is committed only if fn returns nil. Callbacks registered by
// AfterCommit are invoked after a successful commit, in registration order.
func (e *Executor) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	seed, err := e.seeds.Seed()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate random seed: %v", err)
		return errorx.Unknown
	}

	callbacks := []func(context.Context){}
	ctx = context.WithValue(ctx, afterCommitKey{}, &callbacks)
	ctx = xcontext.WithEnv(ctx, xcontext.Env{
		BlockTimestamp: dateutil.ToMilli(e.clock.Now()),
		RandomSeed:     seed,
	})

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := fn(ctx); err != nil {
		return err
	}

	ctx, err = xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return errorx.Unknown
	}

	for _, f := range callbacks {
		callbackCtx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
		f(callbackCtx)
		cancel()
	}

	return nil
}

// AfterCommit registers f to be called once the running operation has been
// committed. Outside of an operation, f is called immediately.
func AfterCommit(ctx context.Context, f func(context.Context)) {
	callbacks, ok := ctx.Value(afterCommitKey{}).(*[]func(context.Context))
	if !ok {
		f(ctx)
		return
	}

	*callbacks = append(*callbacks, f)
}

// Now returns the timestamp of the running operation in milliseconds.
func Now(ctx context.Context) uint64 {
	env, ok := xcontext.GetEnv(ctx)
	if !ok {
		return dateutil.ToMilli(dateutil.NewSystemClock().Now())
	}

	return env.BlockTimestamp
}

// RandomUint32 derives a 32-bit random number from the seed of the running
// operation.
func RandomUint32(ctx context.Context, shift int) (uint32, error) {
	env, ok := xcontext.GetEnv(ctx)
	if !ok {
		return 0, errorx.New(errorx.Internal, "No environment in context")
	}

	return crypto.RandomUint32(env.RandomSeed, shift)
}

// RandomUint64 derives a 64-bit random number from the seed of the running
// operation.
func RandomUint64(ctx context.Context, shift int) (uint64, error) {
	env, ok := xcontext.GetEnv(ctx)
	if !ok {
		return 0, errorx.New(errorx.Internal, "No environment in context")
	}

	return crypto.RandomUint64(env.RandomSeed, shift)
}
