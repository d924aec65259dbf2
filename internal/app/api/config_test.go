package api

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, GuestPolicyClient, cfg.GuestPolicy)
	assert.Equal(t, 8, cfg.NameCount)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.CacheCapacity)
	assert.Equal(t, 3, cfg.UpstreamMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.SettingsCacheTTL)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GUEST_POLICY", "ledger")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("GENERATION_NAME_COUNT", "5")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("ADMIN_USERNAME", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "password123")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, GuestPolicyLedger, cfg.GuestPolicy)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.NameCount)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
}

func TestLoadConfig_FileValuesYieldToEnvironment(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("port: \"7000\"\nguest_policy: ledger\n")))
	t.Setenv("GUEST_POLICY", "client")

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr())
	assert.Equal(t, GuestPolicyClient, cfg.GuestPolicy)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown provider":     {"LLM_PROVIDER": "llama"},
		"unknown guest policy": {"GUEST_POLICY": "cookie"},
		"zero name count":      {"GENERATION_NAME_COUNT": "0"},
		"admin without pass":   {"ADMIN_USERNAME": "root@example.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := loadConfig(viper.New())
			require.Error(t, err)
		})
	}
}
