package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
env = "test"

[arkana]
owner = "owner.near"
daily_claim_points = 20
pity_scope = "account"

[auth]
token_secret = "file-secret"
`), 0600)
	require.NoError(t, err)

	t.Setenv("ARKANA_SPIN_WHEEL_PRICE", "7")
	t.Setenv("TOKEN_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "owner.near", cfg.Arkana.Owner)
	require.Equal(t, uint64(20), cfg.Arkana.DailyClaimPoints)
	require.Equal(t, uint64(7), cfg.Arkana.SpinWheelPrice)
	require.Equal(t, PityScopeAccount, cfg.Arkana.PityScope)
	require.Equal(t, BucketingHalfOpen, cfg.Arkana.WheelBucketing)
	require.Equal(t, "env-secret", cfg.Auth.TokenSecret)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.TokenSecret = "secret"
	require.Error(t, cfg.Validate())

	cfg.Arkana.Owner = "owner.near"
	require.NoError(t, cfg.Validate())

	cfg.Arkana.WheelBucketing = "random"
	require.Error(t, cfg.Validate())

	cfg.Arkana.WheelBucketing = BucketingLegacy
	cfg.Arkana.PityScope = "community"
	require.Error(t, cfg.Validate())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("ARKANA_OWNER", "owner.near")
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("ARKANA_DAILY_CLAIM_POINTS", "ten")

	_, err := Load("")
	require.Error(t, err)
}

func TestValidate_StoredRange(t *testing.T) {
	cfg := Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Arkana.Owner = "owner.near"

	cfg.Arkana.DailyClaimPoints = math.MaxInt64
	cfg.Arkana.SpinWheelPrice = math.MaxInt64
	require.NoError(t, cfg.Validate())

	cfg.Arkana.DailyClaimPoints = math.MaxInt64 + 1
	require.Error(t, cfg.Validate())

	cfg.Arkana.DailyClaimPoints = 10
	cfg.Arkana.SpinWheelPrice = math.MaxUint64
	require.Error(t, cfg.Validate())
}

func TestLoad_SnowflakeNodeID(t *testing.T) {
	t.Setenv("ARKANA_OWNER", "owner.near")
	t.Setenv("TOKEN_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, int64(1), cfg.Snowflake.NodeID)

	t.Setenv("SNOWFLAKE_NODE_ID", "42")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.Snowflake.NodeID)

	t.Setenv("SNOWFLAKE_NODE_ID", "1024")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("SNOWFLAKE_NODE_ID", "-1")
	_, err = Load("")
	require.Error(t, err)
}
