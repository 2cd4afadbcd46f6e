// setup_admin 为一个账号开通后台权限：创建或查找认证账号，再写入 admin_users。
//
//	go run ./scripts/setup_admin --email you@example.com --password "UserPassword123" --passcode "PortalPasscode!"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/db"
	"github.com/postadmin/internal/service"
	"gorm.io/gorm"
)

const usage = "Usage: setup_admin --email <email> --password <password> --passcode <portal-passcode>"

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		fmt.Fprintln(os.Stderr, "数据库初始化失败:", err)
		os.Exit(1)
	}

	os.Exit(run(context.Background(), db.DB, cfg.PasscodeCost, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, gdb *gorm.DB, passcodeCost int, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("setup_admin", flag.ContinueOnError)
	flags.SetOutput(stderr)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "login password")
	passcode := flags.String("passcode", "", "admin portal passcode")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	provisioner := service.NewProvisioner(
		service.NewAuthService(gdb),
		service.NewAdminService(gdb, passcodeCost),
	)

	fmt.Fprintln(stdout, "Creating/fetching user...")
	result, err := provisioner.Run(ctx, service.ProvisionInput{
		Email:    *email,
		Password: *password,
		Passcode: *passcode,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingInput) {
			fmt.Fprintln(stderr, usage)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	fmt.Fprintln(stdout, "Admin setup complete!")
	fmt.Fprintf(stdout, "- User ID: %s\n", result.UserID)
	fmt.Fprintf(stdout, "- Email:   %s\n", result.Email)
	return 0
}
