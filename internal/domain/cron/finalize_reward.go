package cron

import (
	"context"
	"time"

	"github.com/questx-lab/arkana/internal/domain"
	"github.com/questx-lab/arkana/internal/model"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/robfig/cron/v3"
)

const finalizeBatchSize = 100

// FinalizeRewardCronJob finalizes every reward which has ended with at least
// one ticket sold but nobody has finalized yet.
type FinalizeRewardCronJob struct {
	rewardRepo   repository.RewardRepository
	rewardDomain domain.RewardDomain
	clock        dateutil.Clock
	schedule     cron.Schedule
	runNow       bool
}

func NewFinalizeRewardCronJob(
	rewardRepo repository.RewardRepository,
	rewardDomain domain.RewardDomain,
	clock dateutil.Clock,
	spec string,
	runNow bool,
) (*FinalizeRewardCronJob, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}

	return &FinalizeRewardCronJob{
		rewardRepo:   rewardRepo,
		rewardDomain: rewardDomain,
		clock:        clock,
		schedule:     schedule,
		runNow:       runNow,
	}, nil
}

func (job *FinalizeRewardCronJob) Do(ctx context.Context) {
	now := dateutil.ToMilli(job.clock.Now())
	rewards, err := job.rewardRepo.GetEndedUnfinalized(ctx, now, finalizeBatchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended rewards: %v", err)
		return
	}

	for _, r := range rewards {
		resp, err := job.rewardDomain.Finalize(ctx, &model.FinalizeRewardRequest{RewardID: r.ID})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot finalize reward %d: %v", r.ID, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Reward %d is won by %s", r.ID, resp.Winner)
	}
}

func (job *FinalizeRewardCronJob) RunNow() bool {
	return job.runNow
}

func (job *FinalizeRewardCronJob) Next() time.Time {
	return job.schedule.Next(job.clock.Now())
}

var _ CronJob = (*FinalizeRewardCronJob)(nil)
