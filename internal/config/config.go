// Package config loads prism settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// Length units accepted by PRISM_LENGTH_UNIT.
const (
	LengthUnitChars  = "chars"
	LengthUnitTokens = "tokens"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidSettings is returned by Validate.
	ErrInvalidSettings = errors.New("invalid settings")
)

var dotenvLoaded sync.Once

// Config holds every runtime setting. Command-line flags override it.
type Config struct {
	Addr             string        `env:"PRISM_ADDR"               envDefault:":8000"`
	LogLevel         string        `env:"PRISM_LOG_LEVEL"          envDefault:"info"`
	LogJSON          bool          `env:"PRISM_LOG_JSON"           envDefault:"false"`
	ChunkSize        int           `env:"PRISM_CHUNK_SIZE"         envDefault:"500"`
	ChunkOverlap     int           `env:"PRISM_CHUNK_OVERLAP"      envDefault:"50"`
	MatchThreshold   float64       `env:"PRISM_MATCH_THRESHOLD"    envDefault:"0.2"`
	TokenEncoding    string        `env:"PRISM_TOKEN_ENCODING"     envDefault:"cl100k_base"`
	Splitter         string        `env:"PRISM_SPLITTER"           envDefault:"recursive"`
	LengthUnit       string        `env:"PRISM_LENGTH_UNIT"        envDefault:"chars"`
	MaxDocumentBytes int64         `env:"PRISM_MAX_DOCUMENT_BYTES" envDefault:"1048576"`
	WatchDebounce    time.Duration `env:"PRISM_WATCH_DEBOUNCE"     envDefault:"250ms"`
	CORSOrigins      []string      `env:"PRISM_CORS_ORIGINS"       envDefault:"*" envSeparator:","`
	ShutdownTimeout  time.Duration `env:"PRISM_SHUTDOWN_TIMEOUT"   envDefault:"10s"`
}

// Load reads a .env file once if present, then parses the environment.
func Load() (*Config, error) {
	dotenvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	cfg.Splitter = strings.ToLower(strings.TrimSpace(cfg.Splitter))
	cfg.LengthUnit = strings.ToLower(strings.TrimSpace(cfg.LengthUnit))
	return &cfg, nil
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSettings}, args...)...))
	}

	if strings.TrimSpace(c.Addr) == "" {
		bad("PRISM_ADDR is empty")
	}
	if err := c.SplitConfig().Validate(); err != nil {
		bad("%v", err)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		bad("PRISM_MATCH_THRESHOLD %.2f outside [0, 1]", c.MatchThreshold)
	}
	switch strings.ToLower(c.Splitter) {
	case "recursive", "langchain":
	default:
		bad("PRISM_SPLITTER %q is not recursive or langchain", c.Splitter)
	}
	switch strings.ToLower(c.LengthUnit) {
	case LengthUnitChars, LengthUnitTokens:
	default:
		bad("PRISM_LENGTH_UNIT %q is not chars or tokens", c.LengthUnit)
	}
	if c.MaxDocumentBytes <= 0 {
		bad("PRISM_MAX_DOCUMENT_BYTES must be positive")
	}
	if c.WatchDebounce < 0 {
		bad("PRISM_WATCH_DEBOUNCE cannot be negative")
	}
	if c.ShutdownTimeout <= 0 {
		bad("PRISM_SHUTDOWN_TIMEOUT must be positive")
	}
	return errors.Join(errs...)
}

// SplitConfig returns the default split configuration, measured in characters.
func (c *Config) SplitConfig() entities.SplitConfig {
	return entities.NewSplitConfig(c.ChunkSize, c.ChunkOverlap)
}
