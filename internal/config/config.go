package config

import (
	"time"

	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/progression"
	"github.com/phrazzld/wordstone/internal/scoring"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig             `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig           `mapstructure:"database" validate:"required"`
	Auth        AuthConfig               `mapstructure:"auth" validate:"required"`
	Redis       RedisConfig              `mapstructure:"redis"`
	LLM         LLMConfig                `mapstructure:"llm"`
	Game        GameConfig               `mapstructure:"game" validate:"required"`
	Progression progression.ParamsConfig `mapstructure:"progression"`
	Scoring     scoring.ParamsConfig     `mapstructure:"scoring"`
	Events      EventsConfig             `mapstructure:"events"`
}

// EventsConfig sizes the asynchronous event pipeline that records activity
// and invalidates cached insights.
type EventsConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains the settings used to verify access tokens.
// TokenLifetimeMinutes only applies to tokens minted by cmd/devtoken.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// RedisConfig contains the snapshot cache settings. When Enabled is false
// insight queries are computed on every request.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

// LLMConfig contains the optional LLM sentence source settings. Leaving
// GeminiAPIKey empty uses the configured sentence pool only.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
}

// GameConfig contains the board generation and session settings.
type GameConfig struct {
	DefaultLanguage       string              `mapstructure:"default_language" validate:"required"`
	MaxLayoutAttempts     int                 `mapstructure:"max_layout_attempts" validate:"gte=1"`
	MaxSourceDraws        int                 `mapstructure:"max_source_draws" validate:"gte=1"`
	HesitationThresholdMs int                 `mapstructure:"hesitation_threshold_ms" validate:"gt=0"`
	SessionTTL            time.Duration       `mapstructure:"session_ttl" validate:"gt=0"`
	Seed                  int64               `mapstructure:"seed"`
	Sentences             map[string][]string `mapstructure:"sentences"`
	Difficulties          []DifficultyConfig  `mapstructure:"difficulties" validate:"dive"`
}

// DifficultyConfig is the file/env representation of one difficulty preset.
type DifficultyConfig struct {
	Level              int           `mapstructure:"level" validate:"gte=1"`
	BoardSize          int           `mapstructure:"board_size" validate:"gte=3"`
	MinWords           int           `mapstructure:"min_words" validate:"gte=1"`
	MaxWords           int           `mapstructure:"max_words" validate:"gtefield=MinWords"`
	MaxWordLength      int           `mapstructure:"max_word_length" validate:"gte=1"`
	StoneSlack         int           `mapstructure:"stone_slack" validate:"gte=0"`
	InitialDisplayTime time.Duration `mapstructure:"initial_display_time" validate:"gte=0"`
	TargetTime         time.Duration `mapstructure:"target_time" validate:"gt=0"`
	PlayTimeLimit      time.Duration `mapstructure:"play_time_limit" validate:"gte=0"`
}

// DifficultyPresets returns the configured presets, or the built-in ones when
// none are configured.
func (g GameConfig) DifficultyPresets() []domain.Difficulty {
	if len(g.Difficulties) == 0 {
		return domain.DefaultDifficulties()
	}

	presets := make([]domain.Difficulty, len(g.Difficulties))
	for i, d := range g.Difficulties {
		presets[i] = domain.Difficulty{
			Level:              d.Level,
			BoardSize:          d.BoardSize,
			MinWords:           d.MinWords,
			MaxWords:           d.MaxWords,
			MaxWordLength:      d.MaxWordLength,
			StoneSlack:         d.StoneSlack,
			InitialDisplayTime: d.InitialDisplayTime,
			TargetTime:         d.TargetTime,
			PlayTimeLimit:      d.PlayTimeLimit,
		}
	}
	return presets
}

// HesitationThreshold returns the pointer-idle threshold as a duration.
func (g GameConfig) HesitationThreshold() time.Duration {
	return time.Duration(g.HesitationThresholdMs) * time.Millisecond
}
