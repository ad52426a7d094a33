package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/arkana/internal/middleware"
	"github.com/questx-lab/arkana/pkg/prometheus"
	"github.com/questx-lab/arkana/pkg/router"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/rs/cors"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.load(cctx); err != nil {
		return err
	}
	defer s.close()

	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: corsHandler.Handler(s.router.Handler()),
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ApiServer.ShutdownTimeout())
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)

	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.WithRequestID())
	s.router.Before(middleware.VerifyAccessToken(s.tokenEngine))
	s.router.After(middleware.Logger())
	s.router.After(middleware.Prometheus())

	if cfg.Prometheus.Enable {
		s.router.Handle(http.MethodGet, cfg.Prometheus.Path, prometheus.NewHandler())
	}

	// These following APIs need a verified caller.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// User API
		router.POST(authRouter, "/registerAccount", s.userDomain.Register)
		router.POST(authRouter, "/dailyClaimPoint", s.userDomain.DailyClaimPoint)
		router.POST(authRouter, "/generatePoints", s.userDomain.GeneratePoints)

		// Spin wheel API
		router.POST(authRouter, "/playSpinWheel", s.spinWheelDomain.Play)

		// Reward API
		router.POST(authRouter, "/createReward", s.rewardDomain.Create)
		router.POST(authRouter, "/buyTicket", s.rewardDomain.BuyTicket)
		router.POST(authRouter, "/finalizeReward", s.rewardDomain.Finalize)

		// Membership API
		router.POST(authRouter, "/addMembershipContract", s.membershipDomain.Add)
		router.POST(authRouter, "/removeMembershipContract", s.membershipDomain.Remove)
	}

	// Public API.
	router.GET(s.router, "/getUser", s.userDomain.GetUser)
	router.GET(s.router, "/getPointHistory", s.userDomain.GetPointHistory)
	router.GET(s.router, "/getLeaderboard", s.userDomain.GetLeaderboard)
	router.GET(s.router, "/getReward", s.rewardDomain.Get)
	router.GET(s.router, "/getListReward", s.rewardDomain.GetList)
	router.GET(s.router, "/getRewardTickets", s.rewardDomain.GetTickets)
	router.GET(s.router, "/getMembershipContracts", s.membershipDomain.GetList)
}
