package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

const (
	DefaultBaseURL      = "https://api.inference.net/v1"
	DefaultModel        = "qwen/qwen2.5-7b-instruct/bf-16"
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 512
	DefaultApologyText  = "Sorry, something went wrong. Please try again."
	DefaultSystemPrompt = "You are a supportive mental health chatbot. Provide empathetic, kind, and safe responses " +
		"to help users with their emotional well-being. Avoid giving medical advice or encouraging harmful behavior. " +
		"Offer resources or suggestions for self-care and professional help when appropriate."
)

var ErrMissingAPIKey = errors.New("INFERENCE_API_KEY is required")

type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float32
	MaxTokens    int
	SystemPrompt string
	ApologyText  string

	WebAddr string

	TelegramToken     string
	AdminUserIDs      []int64
	AllowedUserIDs    []int64
	TelegramEditEvery time.Duration
	SessionTTL        time.Duration
}

// Load reads path as a dotenv file without overriding variables that are
// already set, then builds the config from the environment.
func Load(path string) (Config, error) {
	if path != "" {
		if err := gotenv.Load(path); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("could not read env file")
		}
	}

	cfg := Config{
		APIKey:            os.Getenv("INFERENCE_API_KEY"),
		BaseURL:           getenvDefault("INFERENCE_BASE_URL", DefaultBaseURL),
		Model:             getenvDefault("INFERENCE_MODEL", DefaultModel),
		Temperature:       getenvFloatDefault("INFERENCE_TEMPERATURE", DefaultTemperature),
		MaxTokens:         getenvIntDefault("INFERENCE_MAX_TOKENS", DefaultMaxTokens),
		SystemPrompt:      getenvDefault("ASSISTANT_PROMPT", DefaultSystemPrompt),
		ApologyText:       getenvDefault("APOLOGY_TEXT", DefaultApologyText),
		WebAddr:           getenvDefault("WEB_ADDR", ":8080"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminUserIDs:      parseIDs(os.Getenv("ADMIN_USER_IDS")),
		AllowedUserIDs:    parseIDs(os.Getenv("ALLOWED_TELEGRAM_USER_IDS")),
		TelegramEditEvery: time.Duration(getenvIntDefault("TELEGRAM_EDIT_INTERVAL_MS", 1000)) * time.Millisecond,
		SessionTTL:        time.Duration(getenvIntDefault("SESSION_TTL_MINUTES", 120)) * time.Minute,
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

func parseIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			log.Warn().Err(err).Str("id", p).Msg("skipping user id")
			continue
		}
		ids = append(ids, v)
	}
	return ids
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("invalid int, using default")
		return def
	}
	return n
}

func getenvFloatDefault(key string, def float32) float32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Float32("default", def).Msg("invalid float, using default")
		return def
	}
	return float32(f)
}
