package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/model"
)

func TestMethodEnvPrefix(t *testing.T) {
	assert.Equal(t, "BAYARCASH_FPX_", MethodEnvPrefix(model.MethodFPX))
	assert.Equal(t, "BAYARCASH_DIRECTDEBIT_", MethodEnvPrefix(model.MethodDirectDebit))
	assert.Equal(t, "BAYARCASH_DUITNOWQRISWALLET_", MethodEnvPrefix(model.MethodQRISWallet))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("BAYARCASH_SITE_URL", "https://shop.test/")
	t.Setenv("SWEEP_METHODS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.test", cfg.Bayarcash.SiteURL)
	assert.Equal(t, 30*time.Second, cfg.Bayarcash.HTTPTimeout)
	assert.Equal(t, model.DefaultSweepBatchSize, cfg.Sweep.BatchSize)
	assert.Equal(t, 4*time.Minute, cfg.Sweep.LeaseTTL)
	assert.Equal(t, model.SweepableMethods, cfg.Sweep.Methods)
	assert.Len(t, cfg.Bayarcash.Channels, len(model.DefaultChannels()))
}

func TestLoad_MethodCredentialsFromEnv(t *testing.T) {
	t.Setenv("BAYARCASH_PORTAL_KEY", "shared-portal")
	t.Setenv("BAYARCASH_FPX_BEARER_TOKEN", "fpx-token")
	t.Setenv("BAYARCASH_FPX_API_SECRET_KEY", "fpx-secret")
	t.Setenv("BAYARCASH_FPX_SANDBOX", "true")
	t.Setenv("BAYARCASH_DIRECTDEBIT_BEARER_TOKEN", "dd-token")
	t.Setenv("BAYARCASH_DIRECTDEBIT_ENABLED", "false")
	t.Setenv("SWEEP_METHODS", "bayarcash-wc, duitnow-wc")

	cfg, err := Load()
	require.NoError(t, err)

	fpx, ok := cfg.Bayarcash.Methods[model.MethodFPX]
	require.True(t, ok)
	assert.True(t, fpx.Enabled)
	assert.True(t, fpx.Sandbox)
	assert.Equal(t, "shared-portal", fpx.PortalKey)
	assert.Equal(t, "fpx-token", fpx.BearerToken)
	assert.Equal(t, "fpx-secret", fpx.APISecretKey)

	dd, ok := cfg.Bayarcash.Methods[model.MethodDirectDebit]
	require.True(t, ok)
	assert.False(t, dd.Enabled)

	_, ok = cfg.Bayarcash.Methods[model.MethodQRIS]
	assert.False(t, ok)

	assert.Equal(t, []string{model.MethodFPX, model.MethodDuitNowOBW}, cfg.Sweep.Methods)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
methods:
  duitnowqr-wc:
    portal_key: qr-portal
    bearer_token: qr-token
    api_secret_key: qr-secret
    debug: true
channels:
  duitnowqr-wc:
    title: Scan to Pay
    max_amount: "500.00"
`), 0o600))
	t.Setenv("BAYARCASH_CHANNELS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	qr := cfg.Bayarcash.Methods[model.MethodDuitNowQR]
	assert.True(t, qr.Enabled)
	assert.True(t, qr.Debug)
	assert.Equal(t, "qr-token", qr.BearerToken)

	ch := cfg.Bayarcash.Channels[model.MethodDuitNowQR]
	assert.Equal(t, "Scan to Pay", ch.Title)
	assert.Equal(t, 6, ch.ChannelNumber)
	assert.True(t, ch.MaxAmount.Equal(decimal.NewFromInt(500)))
}

func TestLoad_UnknownMethodInOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("methods:\n  paypal:\n    bearer_token: x\n"), 0o600))
	t.Setenv("BAYARCASH_CHANNELS_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, "paypal")
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BAYARCASH_SITE_URL", "https://shop.test")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "jwt-secret")

	_, err := Load()
	assert.ErrorContains(t, err, "TOKEN_SECRET")

	t.Setenv("TOKEN_SECRET", "a-real-production-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)

	t.Setenv("DB_PORT", "not-a-port")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
