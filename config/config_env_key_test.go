package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master":  map[string]any{"userName": "shop"},
		},
		"oauth": map[string]any{
			"kakao": map[string]any{"clientId": ""},
		},
		"shop": map[string]any{
			"maxPageSize":   50,
			"publicBaseUrl": "",
		},
		"secretKey": map[string]any{"access": ""},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "OAUTH_KAKAO_CLIENTID", want: "oauth.kakao.clientId"},
		{envKey: "SHOP_MAXPAGESIZE", want: "shop.maxPageSize"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "STORAGE__BUCKETURL", want: "storage.bucketurl"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
http:
  port: 8080
  timeouts:
    readTimeout: 15s
secretKey:
  access: from-file
shop:
  defaultPageSize: 6
  maxPageSize: 50
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), yaml, 0o600))
	t.Chdir(dir)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("SHOP_MAXPAGESIZE", "20")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	require.NotNil(t, cfg.Shop)
	assert.Equal(t, 20, cfg.Shop.MaxPageSize)
	assert.Equal(t, 6, cfg.Shop.DefaultPageSize)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	assert.ErrorContains(t, err, "config file absent.yaml not found")
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-0")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5432")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-1")

	replicas := buildReplicasFromEnv()
	require.Len(t, replicas, 1)
	assert.Equal(t, "replica-0", replicas[0].Host)
	assert.Equal(t, "reader", replicas[0].UserName)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	require.NotNil(t, cfg.Shop)
	assert.Equal(t, defaultPageSize, cfg.Shop.DefaultPageSize)
	assert.Equal(t, defaultPageSize, cfg.Shop.MaxPageSize)

	cfg = &Config{Shop: &ShopConfig{DefaultPageSize: 10, MaxPageSize: 4}}
	cfg.HTTP.MaxRequestBodySize = "2M"
	cfg.applyDefaults()

	assert.Equal(t, "2M", cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 10, cfg.Shop.MaxPageSize)
}
