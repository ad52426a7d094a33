package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slices"
)

const (
	PityScopeGlobal  = "global"
	PityScopeAccount = "account"

	BucketingHalfOpen = "half_open"
	BucketingLegacy   = "legacy"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database   DatabaseConfigs   `toml:"database"`
	Snowflake  SnowflakeConfigs  `toml:"snowflake"`
	ApiServer  APIServerConfigs  `toml:"api_server"`
	Auth       AuthConfigs       `toml:"auth"`
	Arkana     ArkanaConfigs     `toml:"arkana"`
	Redis      RedisConfigs      `toml:"redis"`
	Kafka      KafkaConfigs      `toml:"kafka"`
	Cron       CronConfigs       `toml:"cron"`
	Prometheus PrometheusConfigs `toml:"prometheus"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	// File is the sqlite database file, only used with the sqlite driver.
	File string `toml:"file"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.File
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// SnowflakeConfigs sets the node of the point transaction id generator. Every
// process writing to the same database needs its own node id.
type SnowflakeConfigs struct {
	NodeID int64 `toml:"node_id"`
}

type APIServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	AllowedOrigins []string `toml:"allowed_origins"`
	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`

	ShutdownSeconds int `toml:"shutdown_seconds"`
}

func (c APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c APIServerConfigs) ShutdownTimeout() time.Duration {
	if c.ShutdownSeconds <= 0 {
		return DefaultTimeout
	}

	return time.Duration(c.ShutdownSeconds) * time.Second
}

type AuthConfigs struct {
	TokenSecret string `toml:"token_secret"`
	TokenIssuer string `toml:"token_issuer"`
}

// ArkanaConfigs holds the initial contract parameters. They are persisted on
// the first start; later starts keep the persisted values.
type ArkanaConfigs struct {
	Owner            string `toml:"owner"`
	DailyClaimPoints uint64 `toml:"daily_claim_points"`
	SpinWheelPrice   uint64 `toml:"spin_wheel_price"`

	// PityScope is either "global" (one counter shared by all players) or
	// "account" (one counter per user).
	PityScope string `toml:"pity_scope"`

	// WheelBucketing is either "half_open" or "legacy".
	WheelBucketing string `toml:"wheel_bucketing"`
}

type RedisConfigs struct {
	Enable bool   `toml:"enable"`
	Addr   string `toml:"addr"`
}

type KafkaConfigs struct {
	Enable   bool   `toml:"enable"`
	Addr     string `toml:"addr"`
	ClientID string `toml:"client_id"`
	Topic    string `toml:"topic"`
}

type CronConfigs struct {
	// FinalizeSchedule is a standard cron expression, e.g. "@every 1m".
	FinalizeSchedule string `toml:"finalize_schedule"`
	RunNow           bool   `toml:"run_now"`
}

type PrometheusConfigs struct {
	Enable bool   `toml:"enable"`
	Path   string `toml:"path"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "arkana",
			User:     "mysql",
			Password: "mysql",
		},
		Snowflake: SnowflakeConfigs{
			NodeID: 1,
		},
		ApiServer: APIServerConfigs{
			Host:           "",
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			MaxLimit:       50,
			DefaultLimit:   10,
		},
		Auth: AuthConfigs{
			TokenIssuer: "arkana",
		},
		Arkana: ArkanaConfigs{
			DailyClaimPoints: 10,
			SpinWheelPrice:   5,
			PityScope:        PityScopeGlobal,
			WheelBucketing:   BucketingHalfOpen,
		},
		Redis: RedisConfigs{
			Addr: "localhost:6379",
		},
		Kafka: KafkaConfigs{
			Addr:     "localhost:9092",
			ClientID: "arkana",
			Topic:    "arkana-events",
		},
		Cron: CronConfigs{
			FinalizeSchedule: "@every 1m",
		},
		Prometheus: PrometheusConfigs{
			Path: "/metrics",
		},
	}
}

// Load reads the .env file (if any), then the toml file at path (if any), and
// finally applies the environment overrides.
func Load(path string) (Configs, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Configs{}, fmt.Errorf("cannot load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func (c Configs) Validate() error {
	if c.Arkana.Owner == "" {
		return fmt.Errorf("arkana.owner is required")
	}

	if !slices.Contains([]string{PityScopeGlobal, PityScopeAccount}, c.Arkana.PityScope) {
		return fmt.Errorf("invalid arkana.pity_scope %q", c.Arkana.PityScope)
	}

	if !slices.Contains([]string{BucketingHalfOpen, BucketingLegacy}, c.Arkana.WheelBucketing) {
		return fmt.Errorf("invalid arkana.wheel_bucketing %q", c.Arkana.WheelBucketing)
	}

	// Balances are stored as signed 64-bit integers.
	if c.Arkana.DailyClaimPoints > math.MaxInt64 {
		return fmt.Errorf("arkana.daily_claim_points must not exceed %d", int64(math.MaxInt64))
	}

	if c.Arkana.SpinWheelPrice > math.MaxInt64 {
		return fmt.Errorf("arkana.spin_wheel_price must not exceed %d", int64(math.MaxInt64))
	}

	if maxNode := int64(1)<<snowflake.NodeBits - 1; c.Snowflake.NodeID < 0 || c.Snowflake.NodeID > maxNode {
		return fmt.Errorf("snowflake.node_id must be in range [0, %d]", maxNode)
	}

	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.token_secret is required")
	}

	return nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.File, "DB_FILE")
	setString(&cfg.ApiServer.Port, "API_PORT")
	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Arkana.Owner, "ARKANA_OWNER")
	setString(&cfg.Arkana.PityScope, "ARKANA_PITY_SCOPE")
	setString(&cfg.Arkana.WheelBucketing, "ARKANA_WHEEL_BUCKETING")
	setString(&cfg.Redis.Addr, "REDIS_ADDRESS")
	setString(&cfg.Kafka.Addr, "KAFKA_ADDRESS")

	if err := setInt(&cfg.Snowflake.NodeID, "SNOWFLAKE_NODE_ID"); err != nil {
		return err
	}

	if err := setUint(&cfg.Arkana.DailyClaimPoints, "ARKANA_DAILY_CLAIM_POINTS"); err != nil {
		return err
	}

	return setUint(&cfg.Arkana.SpinWheelPrice, "ARKANA_SPIN_WHEEL_PRICE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setUint(dst *uint64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = n
	return nil
}

func setInt(dst *int64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = n
	return nil
}

// DefaultTimeout is applied to outbound calls (redis, kafka) made after a
// committed operation.
const DefaultTimeout = 5 * time.Second
