package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DevSessionSecret is the SESSION_SECRET default. It must not be used in production.
const DevSessionSecret = "postadmin-dev-secret"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string   `env:"LISTEN_ADDR"`
	Port              string   `env:"PORT" envDefault:"8080"`
	DatabasePath      string   `env:"DATABASE_PATH" envDefault:"postadmin.db"`
	SessionSecret     string   `env:"SESSION_SECRET" envDefault:"postadmin-dev-secret"`
	SessionName       string   `env:"SESSION_NAME" envDefault:"postadmin_session"`
	SessionMaxAge     int      `env:"SESSION_MAX_AGE" envDefault:"604800"`
	GinMode           string   `env:"GIN_MODE" envDefault:"release"`
	TemplateGlob      string   `env:"TEMPLATE_GLOB" envDefault:"web/template/admin/*.html"`
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envSeparator:"," envDefault:"/posts"`
	LoginRateLimit    float64  `env:"LOGIN_RATE_LIMIT" envDefault:"0.5"`
	LoginBurst        int      `env:"LOGIN_BURST" envDefault:"5"`
	PasscodeCost      int      `env:"PASSCODE_COST" envDefault:"10"`
	LogLevel          string   `env:"LOG_LEVEL" envDefault:"info"`
	TrustedOrigins    []string `env:"TRUSTED_ORIGINS" envSeparator:","`

	// 启动时自动开通的管理员，三项都非空才生效。
	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	BootstrapAdminPasscode string `env:"BOOTSTRAP_ADMIN_PASSCODE"`
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":" + cfg.Port
	}
	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	cfg.GinMode = strings.TrimSpace(cfg.GinMode)
	cfg.BootstrapAdminEmail = strings.TrimSpace(cfg.BootstrapAdminEmail)

	prefixes := cfg.ProtectedPrefixes[:0]
	for _, prefix := range cfg.ProtectedPrefixes {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			prefixes = append(prefixes, trimmed)
		}
	}
	cfg.ProtectedPrefixes = prefixes

	origins := cfg.TrustedOrigins[:0]
	for _, origin := range cfg.TrustedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.TrustedOrigins = origins

	if cfg.SessionSecret == "" {
		return AppConfig{}, errors.New("SESSION_SECRET must not be empty")
	}
	if cfg.PasscodeCost < bcrypt.MinCost || cfg.PasscodeCost > bcrypt.MaxCost {
		return AppConfig{}, fmt.Errorf("PASSCODE_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}

// BootstrapEnabled reports whether an admin should be provisioned at startup.
func (c AppConfig) BootstrapEnabled() bool {
	return c.BootstrapAdminEmail != "" && c.BootstrapAdminPassword != "" && c.BootstrapAdminPasscode != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsRelease reports whether gin runs in release mode.
func (c AppConfig) IsRelease() bool {
	return strings.EqualFold(strings.TrimSpace(c.GinMode), "release")
}
