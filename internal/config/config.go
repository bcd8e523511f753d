// Package config loads mathgenius configuration from an optional YAML file
// and MATHGENIUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/abhisek/mathgenius/internal/cache"
	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/narrate"
	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/questions"
	"github.com/abhisek/mathgenius/internal/session"
)

// EnvPrefix prefixes every environment override, e.g.
// MATHGENIUS_CACHE_BACKEND=redis.
const EnvPrefix = "MATHGENIUS"

// Config is the complete application configuration.
type Config struct {
	Database    DatabaseConfig     `mapstructure:"database"`
	Learner     string             `mapstructure:"learner" validate:"required"`
	Log         logging.Config     `mapstructure:"log"`
	Server      ServerConfig       `mapstructure:"server"`
	Session     SessionConfig      `mapstructure:"session"`
	Questions   QuestionsConfig    `mapstructure:"questions"`
	Calibration calibration.Config `mapstructure:"calibration"`
	Cache       cache.Config       `mapstructure:"cache"`
	LLM         llm.Config         `mapstructure:"llm"`
	Narrate     narrate.Config     `mapstructure:"narrate"`
}

// DatabaseConfig locates the SQLite database. An empty path uses
// store.DefaultDBPath.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`

	// SessionTTL evicts sessions idle for longer. Zero keeps them forever.
	SessionTTL  time.Duration `mapstructure:"session_ttl" validate:"gte=0"`
	MaxSessions int           `mapstructure:"max_sessions" validate:"gte=0"`
}

// SessionConfig holds practice session defaults.
type SessionConfig struct {
	Grade            curriculum.Grade    `mapstructure:"grade"`
	Focus            curriculum.Category `mapstructure:"focus"`
	Length           int                 `mapstructure:"length" validate:"gt=0,lte=100"`
	RecalibrateEvery int                 `mapstructure:"recalibrate_every" validate:"gte=0"`
}

// QuestionsConfig tunes the synthesizer and the question service.
type QuestionsConfig struct {
	SetSize               int              `mapstructure:"set_size" validate:"gt=0"`
	MaxValidationAttempts int              `mapstructure:"max_validation_attempts" validate:"gt=0"`
	MaxDedupAttempts      int              `mapstructure:"max_dedup_attempts" validate:"gte=0"`
	TimeBonusGrades       curriculum.Grade `mapstructure:"time_bonus_grades"`
	TimeBonusPercent      int              `mapstructure:"time_bonus_percent" validate:"gte=0,lte=200"`
}

// SynthConfig builds the synthesizer config with the standard validator
// chain.
func (q QuestionsConfig) SynthConfig() problemgen.Config {
	cfg := problemgen.DefaultConfig()
	cfg.MaxValidationAttempts = q.MaxValidationAttempts
	cfg.MaxDedupAttempts = q.MaxDedupAttempts
	cfg.TimeBonusGrades = q.TimeBonusGrades
	cfg.TimeBonusPercent = q.TimeBonusPercent
	return cfg
}

// Default returns the built-in configuration.
func Default() Config {
	synth := problemgen.DefaultConfig()
	return Config{
		Learner: "default",
		Log:     logging.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SessionTTL:      2 * time.Hour,
			MaxSessions:     1000,
		},
		Session: SessionConfig{
			Grade:            curriculum.Grade3,
			Focus:            curriculum.DefaultCategory,
			Length:           session.DefaultLength,
			RecalibrateEvery: session.DefaultRecalibrateEvery,
		},
		Questions: QuestionsConfig{
			SetSize:               questions.DefaultSetSize,
			MaxValidationAttempts: synth.MaxValidationAttempts,
			MaxDedupAttempts:      synth.MaxDedupAttempts,
			TimeBonusGrades:       synth.TimeBonusGrades,
			TimeBonusPercent:      synth.TimeBonusPercent,
		},
		Calibration: calibration.DefaultConfig(),
		Cache:       cache.DefaultConfig(),
		LLM:         llm.DefaultConfig(),
		Narrate:     narrate.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mathgenius/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mathgenius", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mathgenius", "config.yaml"), nil
}

// Load reads configuration. An explicit path must exist; with an empty
// path the default location is tried and silently skipped when missing.
// Environment variables override the file, and the result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if v.IsSet("calibration.ladder") {
		cfg.Calibration.Ladder = nil
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = nil
	}
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		gradeNumberHook(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// gradeNumberHook reads a bare number as a school year, so "grade: 3" in
// YAML means grade 3 rather than the third enum value.
func gradeNumberHook() mapstructure.DecodeHookFuncType {
	gradeType := reflect.TypeOf(curriculum.Grade(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != gradeType {
			return data, nil
		}
		switch n := data.(type) {
		case int:
			return curriculum.GradeFromNumber(n), nil
		case int64:
			return curriculum.GradeFromNumber(int(n)), nil
		case float64:
			return curriculum.GradeFromNumber(int(n)), nil
		}
		return data, nil
	}
}

// setDefaults registers every scalar key so that AutomaticEnv can
// override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("learner", d.Learner)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL)
	v.SetDefault("server.max_sessions", d.Server.MaxSessions)

	v.SetDefault("session.grade", d.Session.Grade.String())
	v.SetDefault("session.focus", string(d.Session.Focus))
	v.SetDefault("session.length", d.Session.Length)
	v.SetDefault("session.recalibrate_every", d.Session.RecalibrateEvery)

	v.SetDefault("questions.set_size", d.Questions.SetSize)
	v.SetDefault("questions.max_validation_attempts", d.Questions.MaxValidationAttempts)
	v.SetDefault("questions.max_dedup_attempts", d.Questions.MaxDedupAttempts)
	v.SetDefault("questions.time_bonus_grades", d.Questions.TimeBonusGrades.String())
	v.SetDefault("questions.time_bonus_percent", d.Questions.TimeBonusPercent)

	c := d.Calibration
	v.SetDefault("calibration.window", c.Window)
	v.SetDefault("calibration.fallback_tier", c.FallbackTier.String())
	v.SetDefault("calibration.empty_tier", c.EmptyTier.String())
	v.SetDefault("calibration.category_window", c.CategoryWindow)
	v.SetDefault("calibration.min_category_samples", c.MinCategorySamples)
	v.SetDefault("calibration.weak_below", c.WeakBelow)
	v.SetDefault("calibration.strong_at_least", c.StrongAtLeast)
	v.SetDefault("calibration.max_weak", c.MaxWeak)
	v.SetDefault("calibration.max_strong", c.MaxStrong)
	v.SetDefault("calibration.max_step", c.MaxStep)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", d.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", d.Cache.Redis.DB)
	v.SetDefault("cache.redis.prefix", d.Cache.Redis.Prefix)

	l := d.LLM
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.anthropic.api_key", l.Anthropic.APIKey)
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", l.OpenAI.APIKey)
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", l.OpenAI.BaseURL)
	v.SetDefault("llm.gemini.api_key", l.Gemini.APIKey)
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", l.OpenRouter.APIKey)
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", l.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)

	v.SetDefault("narrate.max_tokens", d.Narrate.MaxTokens)
	v.SetDefault("narrate.temperature", d.Narrate.Temperature)
	v.SetDefault("narrate.concurrency", d.Narrate.Concurrency)
}

// Validate checks struct tags and the cross-field rules of the nested
// configs.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !c.Session.Focus.Valid() {
		return fmt.Errorf("invalid config: unknown session focus %q", c.Session.Focus)
	}
	if err := c.Calibration.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
