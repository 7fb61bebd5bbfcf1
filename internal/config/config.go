// README: Config loader; defaults, optional vista.yaml, then environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"vista/internal/ai"
)

const (
	ProviderQwen   = "qwen"
	ProviderGemini = "gemini"

	// DefaultArea qualifies geocoding queries when no area is configured.
	DefaultArea = "University of Pennsylvania, Philadelphia, PA"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Log struct {
		Level  string
		Format string
	}
	AI struct {
		Provider string
		Qwen     ai.QwenConfig
		Gemini   struct {
			APIKey string
			Model  string
		}
	}
	Maps struct {
		APIKey string
		Area   string
	}
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"http.addr":                  "VISTA_HTTP_ADDR",
	"db.dsn":                     "VISTA_DB_DSN",
	"log.level":                  "VISTA_LOG_LEVEL",
	"log.format":                 "VISTA_LOG_FORMAT",
	"ai.provider":                "VISTA_AI_PROVIDER",
	"ai.qwen.apikey":             "QIANWEN_API_KEY",
	"ai.qwen.textendpoint":       "VISTA_QWEN_TEXT_ENDPOINT",
	"ai.qwen.multimodalendpoint": "VISTA_QWEN_MULTIMODAL_ENDPOINT",
	"ai.qwen.textmodel":          "VISTA_QWEN_TEXT_MODEL",
	"ai.qwen.visionmodel":        "VISTA_QWEN_VISION_MODEL",
	"ai.gemini.apikey":           "GEMINI_API_KEY",
	"ai.gemini.model":            "VISTA_GEMINI_MODEL",
	"maps.apikey":                "GOOGLE_MAPS_API_KEY",
	"maps.area":                  "VISTA_MAPS_AREA",
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("vista")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.vista")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("ai.provider", ProviderQwen)
	v.SetDefault("ai.qwen.textendpoint", ai.DefaultQwenTextEndpoint)
	v.SetDefault("ai.qwen.multimodalendpoint", ai.DefaultQwenMultimodalEndpoint)
	v.SetDefault("ai.qwen.textmodel", ai.DefaultQwenTextModel)
	v.SetDefault("ai.qwen.visionmodel", ai.DefaultQwenVisionModel)
	v.SetDefault("ai.gemini.model", ai.DefaultGeminiModel)
	v.SetDefault("maps.area", DefaultArea)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	return cfg, nil
}

// RequireGeneration fails when the selected generation provider has no key.
func (c Config) RequireGeneration() error {
	switch c.AI.Provider {
	case ProviderQwen:
		if c.AI.Qwen.APIKey == "" {
			return errors.New("environment variable QIANWEN_API_KEY is required")
		}
	case ProviderGemini:
		if c.AI.Gemini.APIKey == "" {
			return errors.New("environment variable GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown ai provider %q (want %s or %s)", c.AI.Provider, ProviderQwen, ProviderGemini)
	}
	return nil
}

// RequireMaps fails when no mapping-service key is configured.
func (c Config) RequireMaps() error {
	if c.Maps.APIKey == "" {
		return errors.New("environment variable GOOGLE_MAPS_API_KEY is required")
	}
	return nil
}

// NewLogger builds a zap logger: JSON for format "json", console otherwise.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	var zc zap.Config
	if strings.EqualFold(c.Log.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
