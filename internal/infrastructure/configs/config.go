package configs

import (
	"fmt"
	"time"

	"github.com/emberlit/guessparty/internal/infrastructure/env"
	"github.com/emberlit/guessparty/internal/infrastructure/validate"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Game        GameConfig        `koanf:"game"`
	Store       StoreConfig       `koanf:"store"`
	Messaging   MessagingConfig   `koanf:"messaging"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

// GameConfig carries the round and session tuning. Round duration and idle
// expiry are deliberately independent settings.
type GameConfig struct {
	RoundDuration time.Duration `koanf:"round_duration"`
	IdleExpiry    time.Duration `koanf:"idle_expiry"`
	GuessLimit    int           `koanf:"guess_limit"`
	WinAward      int           `koanf:"win_award"`
}

type StoreConfig struct {
	Driver string `koanf:"driver"` // memory | mongo
}

type MessagingConfig struct {
	Enabled bool `koanf:"enabled"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Field("store.driver", validate.OneOf("memory", "mongo"))(cfg.Store.Driver); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	// Game defaults
	setDefault(k, "game.round_duration", 60*time.Second)
	setDefault(k, "game.idle_expiry", 30*time.Minute)
	setDefault(k, "game.guess_limit", 3)
	setDefault(k, "game.win_award", 10)

	// Infrastructure defaults
	setDefault(k, "store.driver", "memory")
	setDefault(k, "messaging.enabled", false)
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	// Rate limiter config from env
	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}

	// Game config from env
	if roundDuration := env.GetDuration("GAME_ROUND_DURATION", 0); roundDuration > 0 {
		k.Set("game.round_duration", roundDuration)
	}
	if idleExpiry := env.GetDuration("GAME_IDLE_EXPIRY", 0); idleExpiry > 0 {
		k.Set("game.idle_expiry", idleExpiry)
	}
	if guessLimit := env.GetInt("GAME_GUESS_LIMIT", 0); guessLimit > 0 {
		k.Set("game.guess_limit", guessLimit)
	}
	if winAward := env.GetInt("GAME_WIN_AWARD", 0); winAward > 0 {
		k.Set("game.win_award", winAward)
	}

	// Infrastructure config from env
	if driver := env.GetString("STORE_DRIVER", ""); driver != "" {
		k.Set("store.driver", driver)
	}
	if env.GetBool("MESSAGING_ENABLED", false) {
		k.Set("messaging.enabled", true)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
