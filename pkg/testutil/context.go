package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/internal/entity"
	"github.com/questx-lab/arkana/internal/repository"
	"github.com/questx-lab/arkana/pkg/logger"
	"github.com/questx-lab/arkana/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	Owner            = "owner"
	DailyClaimPoints = 10
	SpinWheelPrice   = 5
)

// Now is a fixed point in time used by tests, far enough from epoch for
// cooldowns to have elapsed since zero.
var Now = time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.ApiServer.MaxLimit = 50
	cfg.ApiServer.DefaultLimit = 10
	cfg.Auth.TokenSecret = "secret"
	cfg.Arkana.Owner = Owner
	cfg.Arkana.DailyClaimPoints = DailyClaimPoints
	cfg.Arkana.SpinWheelPrice = SpinWheelPrice
	return cfg
}

// MockContext returns a context holding an empty in-memory database with all
// tables migrated and the contract state initialized.
func MockContext() context.Context {
	return MockContextWithConfigs(MockConfigs())
}

func MockContextWithConfigs(cfg config.Configs) context.Context {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(cfg.Snowflake.NodeID)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithSnowFlake(ctx, node)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	err = repository.NewContractStateRepository().Init(ctx, &entity.ContractState{
		Owner:            cfg.Arkana.Owner,
		DailyClaimPoints: cfg.Arkana.DailyClaimPoints,
		SpinWheelPrice:   cfg.Arkana.SpinWheelPrice,
	})
	if err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
