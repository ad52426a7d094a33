package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/internal/domain"
	"github.com/questx-lab/arkana/internal/domain/statistic"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/authenticator"
	"github.com/questx-lab/arkana/pkg/crypto"
	"github.com/questx-lab/arkana/pkg/dateutil"
	"github.com/questx-lab/arkana/pkg/kafka"
	"github.com/questx-lab/arkana/pkg/logger"
	"github.com/questx-lab/arkana/pkg/pubsub"
	"github.com/questx-lab/arkana/pkg/router"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"github.com/questx-lab/arkana/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	clock       dateutil.Clock
	executor    *common.Executor
	tokenEngine *authenticator.TokenEngine
	redisClient xredis.Client
	publisher   pubsub.Publisher
	leaderboard statistic.Leaderboard

	userRepo             repository.UserRepository
	contractStateRepo    repository.ContractStateRepository
	rewardRepo           repository.RewardRepository
	membershipRepo       repository.MembershipRepository
	pointTransactionRepo repository.PointTransactionRepository

	userDomain       domain.UserDomain
	spinWheelDomain  domain.SpinWheelDomain
	rewardDomain     domain.RewardDomain
	membershipDomain domain.MembershipDomain

	router *router.Router

	closers []func()
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(), // data source name
			DefaultStringSize:         256,                    // default size for string fields
			DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)

	nodeID := xcontext.Configs(s.ctx).Snowflake.NodeID
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("cannot create snowflake node %d: %w", nodeID, err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
	return nil
}

func (s *srv) migrateDB() error {
	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	cfg := xcontext.Configs(s.ctx).Arkana
	return repository.NewContractStateRepository().Init(s.ctx, &entity.ContractState{
		Owner:            cfg.Owner,
		DailyClaimPoints: cfg.DailyClaimPoints,
		SpinWheelPrice:   cfg.SpinWheelPrice,
	})
}

func (s *srv) loadRedisClient() error {
	cfg := xcontext.Configs(s.ctx).Redis
	if !cfg.Enable {
		xcontext.Logger(s.ctx).Infof("Redis is disabled, leaderboard is served from database")
		return nil
	}

	client, err := xredis.NewClient(s.ctx, cfg)
	if err != nil {
		return err
	}

	s.redisClient = client
	s.closers = append(s.closers, func() {
		if err := client.Close(); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot close redis client: %v", err)
		}
	})

	return nil
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		s.publisher = pubsub.NewNopPublisher()
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, strings.Split(cfg.Addr, ","))
	if err != nil {
		return err
	}

	s.publisher = publisher
	s.closers = append(s.closers, func() {
		if err := publisher.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop kafka publisher: %v", err)
		}
	})

	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.contractStateRepo = repository.NewContractStateRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.membershipRepo = repository.NewMembershipRepository()
	s.pointTransactionRepo = repository.NewPointTransactionRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	s.clock = dateutil.NewSystemClock()
	s.executor = common.NewExecutor(s.clock, crypto.NewCryptoSeedSource())
	s.tokenEngine = authenticator.NewTokenEngine(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer)
	s.leaderboard = statistic.New(s.userRepo, s.redisClient)

	s.userDomain = domain.NewUserDomain(s.userRepo, s.contractStateRepo,
		s.pointTransactionRepo, s.membershipRepo, s.executor, s.leaderboard, s.publisher)
	s.spinWheelDomain = domain.NewSpinWheelDomain(s.userRepo, s.contractStateRepo,
		s.pointTransactionRepo, s.executor, s.leaderboard)
	s.rewardDomain = domain.NewRewardDomain(s.userRepo, s.rewardRepo, s.contractStateRepo,
		s.pointTransactionRepo, s.executor, s.leaderboard, s.publisher)
	s.membershipDomain = domain.NewMembershipDomain(s.membershipRepo, s.contractStateRepo, s.executor)
}

// load runs the loaders shared by every long running command.
func (s *srv) load(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.migrateDB(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	return nil
}

func (s *srv) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
