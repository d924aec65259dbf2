package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/upstream/retry"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	settingsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/application"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	GuestPolicyClient = "client"
	GuestPolicyLedger = "ledger"
)

// Config carries settings for the API, worker, and maintenance processes.
type Config struct {
	Port string

	PostgresDSN string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	LLMProvider         string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	GeminiAPIKey        string
	GeminiModel         string
	UpstreamTimeout     time.Duration
	UpstreamMaxAttempts int

	NameCount        int
	CacheTTL         time.Duration
	CacheCapacity    int
	GuestPolicy      string
	SettingsCacheTTL time.Duration

	LogLevel      string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads config.yaml when present, lets environment variables override it, and validates the result.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return loadConfig(v)
}

func loadConfig(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:                strings.TrimSpace(v.GetString("PORT")),
		PostgresDSN:         strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		SQLitePath:          strings.TrimSpace(v.GetString("SQLITE_PATH")),
		RedisAddr:           strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		TemporalAddress:     strings.TrimSpace(v.GetString("TEMPORAL_ADDRESS")),
		TemporalNamespace:   strings.TrimSpace(v.GetString("TEMPORAL_NAMESPACE")),
		TemporalDisabled:    v.GetBool("TEMPORAL_DISABLED"),
		LLMProvider:         strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		OpenAIAPIKey:        strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:       strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		OpenAIModel:         strings.TrimSpace(v.GetString("OPENAI_MODEL")),
		GeminiAPIKey:        strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:         strings.TrimSpace(v.GetString("GEMINI_MODEL")),
		UpstreamTimeout:     v.GetDuration("UPSTREAM_TIMEOUT"),
		UpstreamMaxAttempts: v.GetInt("UPSTREAM_MAX_ATTEMPTS"),
		NameCount:           v.GetInt("GENERATION_NAME_COUNT"),
		CacheTTL:            v.GetDuration("CACHE_TTL"),
		CacheCapacity:       v.GetInt("CACHE_CAPACITY"),
		GuestPolicy:         strings.ToLower(strings.TrimSpace(v.GetString("GUEST_POLICY"))),
		SettingsCacheTTL:    v.GetDuration("SETTINGS_CACHE_TTL"),
		LogLevel:            strings.TrimSpace(v.GetString("LOG_LEVEL")),
		AdminEmail:          strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
		AdminPassword:       v.GetString("ADMIN_PASSWORD"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	v.SetDefault("UPSTREAM_TIMEOUT", retry.DefaultAttemptTimeout)
	v.SetDefault("UPSTREAM_MAX_ATTEMPTS", retry.DefaultMaxAttempts)
	v.SetDefault("GENERATION_NAME_COUNT", generationapp.DefaultNameCount)
	v.SetDefault("CACHE_TTL", genmemory.DefaultCacheTTL)
	v.SetDefault("CACHE_CAPACITY", genmemory.DefaultCacheCapacity)
	v.SetDefault("GUEST_POLICY", GuestPolicyClient)
	v.SetDefault("SETTINGS_CACHE_TTL", settingsapp.DefaultProviderTTL)
	v.SetDefault("LOG_LEVEL", "info")
}

func (c Config) validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q", ProviderOpenAI, ProviderGemini)
	}
	switch c.GuestPolicy {
	case GuestPolicyClient, GuestPolicyLedger:
	default:
		return fmt.Errorf("GUEST_POLICY must be %q or %q", GuestPolicyClient, GuestPolicyLedger)
	}
	if c.NameCount <= 0 {
		return errors.New("GENERATION_NAME_COUNT must be a positive integer")
	}
	if c.UpstreamMaxAttempts <= 0 {
		return errors.New("UPSTREAM_MAX_ATTEMPTS must be a positive integer")
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be a positive duration")
	}
	if c.CacheTTL <= 0 || c.CacheCapacity <= 0 {
		return errors.New("CACHE_TTL and CACHE_CAPACITY must be positive")
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
