package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/arkana/config"
	"github.com/questx-lab/arkana/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	parentDBKey    struct{}
	userIDKey      struct{}
	requestIDKey   struct{}
	httpRequestKey struct{}
	startTimeKey   struct{}
	errorKey       struct{}
	envKey         struct{}
	snowflakeKey   struct{}
)

// Env is the host environment snapshot of a single operation. It is taken once
// when the operation starts and never changes until the operation ends.
type Env struct {
	// BlockTimestamp is the operation time in milliseconds since epoch.
	BlockTimestamp uint64

	// RandomSeed is an opaque unpredictable byte sequence.
	RandomSeed []byte
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewNopLogger()
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction replaces the returned value of DB() by a database
// transaction. The transaction must be finished by WithCommitDBTransaction or
// WithRollbackDBTransaction.
func WithDBTransaction(ctx context.Context) context.Context {
	parent := ctx.Value(dbKey{}).(*gorm.DB)
	ctx = context.WithValue(ctx, parentDBKey{}, parent)
	return context.WithValue(ctx, dbKey{}, parent.WithContext(ctx).Begin())
}

// WithCommitDBTransaction commits the transaction and returns the context
// holding the original database.
func WithCommitDBTransaction(ctx context.Context) (context.Context, error) {
	if err := DB(ctx).Commit().Error; err != nil {
		return ctx, err
	}

	return restoreParentDB(ctx), nil
}

// WithRollbackDBTransaction rollbacks the transaction. Calling it after the
// transaction has been committed is a no-op.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	DB(ctx).Rollback()
	return restoreParentDB(ctx)
}

func restoreParentDB(ctx context.Context) context.Context {
	parent, ok := ctx.Value(parentDBKey{}).(*gorm.DB)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, dbKey{}, parent)
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// RequestUserID returns the verified account id of the caller, or an empty
// string if the request is anonymous.
func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return req
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithEnv(ctx context.Context, env Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// GetEnv returns the environment of the running operation. The second result
// is false when called outside of an operation.
func GetEnv(ctx context.Context) (Env, bool) {
	env, ok := ctx.Value(envKey{}).(Env)
	return env, ok
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node, _ := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	return node
}
