package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ferdiebergado/tokenkit/internal/pkg/env"
	timex "github.com/ferdiebergado/tokenkit/internal/pkg/time"
)

const redacted = "[REDACTED]"

type App struct {
	Env      string `json:"env,omitempty" env:"ENV"`
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`
	// Key signs credentials and peppers password hashes. Only ever read from the environment.
	Key string `json:"-" env:"KEY"`
}

type Server struct {
	URL             string         `json:"url,omitempty" env:"URL"`
	Port            int            `json:"port,omitempty" env:"PORT"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty"`
	Host            string         `json:"host,omitempty" env:"DB_HOST"`
	Port            int            `json:"port,omitempty" env:"DB_PORT"`
	User            string         `json:"user,omitempty" env:"DB_USER"`
	Pass            string         `json:"-" env:"DB_PASS"`
	Name            string         `json:"name,omitempty" env:"DB_NAME"`
	SSLMode         string         `json:"ssl_mode,omitempty" env:"DB_SSLMODE"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type JWT struct {
	Issuer     string         `json:"issuer,omitempty" env:"JWT_ISSUER"`
	TTL        timex.Duration `json:"ttl,omitempty" env:"JWT_TTL"`
	RefreshTTL timex.Duration `json:"refresh_ttl,omitempty" env:"JWT_REFRESH_TTL"`
}

type Cookie struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty"`
	Iterations uint32 `json:"iterations,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	SaltLength uint32 `json:"salt_length,omitempty"`
	KeyLength  uint32 `json:"key_length,omitempty"`
}

type Revocation struct {
	PurgeInterval timex.Duration `json:"purge_interval,omitempty" env:"REVOCATION_PURGE_INTERVAL"`
}

type Metrics struct {
	Enabled bool   `json:"enabled,omitempty" env:"METRICS_ENABLED"`
	Path    string `json:"path,omitempty"`
}

type CORS struct {
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	MaxAge         int      `json:"max_age,omitempty"`
}

type Config struct {
	App        *App        `json:"app,omitempty"`
	Server     *Server     `json:"server,omitempty"`
	DB         *DB         `json:"db,omitempty"`
	JWT        *JWT        `json:"jwt,omitempty"`
	Cookie     *Cookie     `json:"cookie,omitempty"`
	Argon2     *Argon2     `json:"argon2,omitempty"`
	Revocation *Revocation `json:"revocation,omitempty"`
	Metrics    *Metrics    `json:"metrics,omitempty"`
	CORS       *CORS       `json:"cors,omitempty"`
}

// LogValue keeps secrets out of the logs.
func (c *Config) LogValue() slog.Value {
	app := *c.App
	if app.Key != "" {
		app.Key = redacted
	}

	db := *c.DB
	if db.Pass != "" {
		db.Pass = redacted
	}

	return slog.GroupValue(
		slog.Any("app", app),
		slog.Any("server", c.Server),
		slog.Any("db", db),
		slog.Any("jwt", c.JWT),
		slog.Any("cookie", c.Cookie),
		slog.Any("argon2", c.Argon2),
		slog.Any("revocation", c.Revocation),
		slog.Any("metrics", c.Metrics),
		slog.Any("cors", c.CORS),
	)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}

	if c.JWT.Issuer == "" {
		errs = append(errs, errors.New("jwt.issuer is required"))
	}

	if c.JWT.TTL.Duration <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}

	if c.JWT.RefreshTTL.Duration <= c.JWT.TTL.Duration {
		errs = append(errs, fmt.Errorf("jwt.refresh_ttl (%s) must be longer than jwt.ttl (%s)",
			c.JWT.RefreshTTL.Duration, c.JWT.TTL.Duration))
	}

	if c.Cookie.Name == "" {
		errs = append(errs, errors.New("cookie.name is required"))
	}

	if c.Argon2.Iterations == 0 || c.Argon2.Threads == 0 || c.Argon2.KeyLength == 0 {
		errs = append(errs, errors.New("argon2 iterations, threads and key_length must be non-zero"))
	}

	if c.Revocation.PurgeInterval.Duration <= 0 {
		errs = append(errs, errors.New("revocation.purge_interval must be positive"))
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			errs = append(errs, errors.New("cors.allowed_origins must not contain * since credentials are allowed"))
			break
		}
	}

	return errors.Join(errs...)
}

// Load reads the JSON config file, applies environment overrides and validates the result.
func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")

	cfg, err := parseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := env.OverrideStruct(cfg); err != nil {
		return nil, fmt.Errorf("override config with env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	b, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	cfg := &Config{
		App:        &App{},
		Server:     &Server{},
		DB:         &DB{},
		JWT:        &JWT{},
		Cookie:     &Cookie{},
		Argon2:     &Argon2{},
		Revocation: &Revocation{},
		Metrics:    &Metrics{},
		CORS:       &CORS{},
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return cfg, nil
}
