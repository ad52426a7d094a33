package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/arkana/internal/domain/cron"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	if err := s.load(cctx); err != nil {
		return err
	}
	defer s.close()

	cfg := xcontext.Configs(s.ctx).Cron
	finalizeJob, err := cron.NewFinalizeRewardCronJob(
		s.rewardRepo, s.rewardDomain, s.clock, cfg.FinalizeSchedule, cfg.RunNow)
	if err != nil {
		return err
	}

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(finalizeJob)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		xcontext.Logger(s.ctx).Infof("Stopping cron jobs")
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
