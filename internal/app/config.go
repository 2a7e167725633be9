package app

import (
	"strings"
	"time"

	"github.com/yungbote/promptdesk-backend/internal/observability"
	"github.com/yungbote/promptdesk-backend/internal/platform/envutil"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
)

// Config holds process settings. Database settings are read by data/db from
// the same environment.
type Config struct {
	Port            string
	Environment     string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ShutdownTimeout time.Duration
	TokenSweep      time.Duration
	AllowedOrigins  []string

	SeedFile      string
	SeedUserEmail string

	OpenAI openai.Config
	Otel   observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.String("APP_ENV", "development", log)
	return Config{
		Port:            envutil.String("PORT", "8080", log),
		Environment:     env,
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  seconds(envutil.Int("ACCESS_TOKEN_TTL", 3600, log)),
		RefreshTokenTTL: seconds(envutil.Int("REFRESH_TOKEN_TTL", 86400, log)),
		ShutdownTimeout: seconds(envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", 15, log)),
		TokenSweep:      seconds(envutil.Int("TOKEN_SWEEP_SECONDS", 600, log)),
		AllowedOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		SeedFile:        envutil.String("SEED_FILE", "", log),
		SeedUserEmail:   envutil.String("SEED_USER_EMAIL", "", log),
		OpenAI: openai.Config{
			APIKey:      envutil.String("OPENAI_API_KEY", "", log),
			BaseURL:     envutil.String("OPENAI_BASE_URL", "", log),
			Model:       envutil.String("OPENAI_MODEL", "", log),
			Timeout:     seconds(envutil.Int("OPENAI_TIMEOUT_SECONDS", 180, log)),
			MaxRetries:  envutil.Int("OPENAI_MAX_RETRIES", 2, log),
			Temperature: envutil.Float("OPENAI_TEMPERATURE", 0.2, log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "promptdesk", log),
			Environment: env,
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLER_PERCENT", 100, log)) / 100,
		},
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
