package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/db"
	"github.com/postadmin/internal/router"
	"github.com/postadmin/internal/service"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fatal("failed to load .env", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	gin.SetMode(cfg.GinMode)
	if cfg.IsRelease() && cfg.SessionSecret == config.DevSessionSecret {
		slog.Warn("SESSION_SECRET is the development default, set a real secret in production")
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		fatal("failed to initialize database", err)
	}

	if cfg.BootstrapEnabled() {
		provisioner := service.NewProvisioner(
			service.NewAuthService(db.DB),
			service.NewAdminService(db.DB, cfg.PasscodeCost),
		)
		result, err := provisioner.Run(context.Background(), service.ProvisionInput{
			Email:    cfg.BootstrapAdminEmail,
			Password: cfg.BootstrapAdminPassword,
			Passcode: cfg.BootstrapAdminPasscode,
		})
		if err != nil {
			fatal("failed to provision bootstrap admin", err)
		}
		slog.Info("bootstrap admin ready", "user_id", result.UserID, "email", result.Email, "created", result.CreatedUser)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg)
	slog.Info("server listening", "addr", cfg.ListenAddr, "protected", cfg.ProtectedPrefixes)
	if err := r.Run(cfg.ListenAddr); err != nil {
		fatal("failed to run server", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
