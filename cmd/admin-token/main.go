package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/cartkeeper/pkg/auth"
	"github.com/angelmondragon/cartkeeper/pkg/config"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

// admin-token prints a signed bearer token for the /api/admin routes.
func main() {
	logg := logger.New(logger.Options{ServiceName: "admin-token"})
	_ = godotenv.Load()

	subject := flag.String("subject", "", "operator identity recorded in the token")
	minutes := flag.Int("minutes", 0, "token lifetime in minutes (defaults to config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	adminCfg := cfg.Admin
	if *minutes > 0 {
		adminCfg.ExpirationMinutes = *minutes
	}
	if !adminCfg.Protected() {
		fmt.Fprintln(os.Stderr, "CARTKEEPER_ADMIN_JWT_SECRET is not set; admin routes are open")
		os.Exit(1)
	}

	token, err := auth.MintAdminToken(adminCfg, time.Now(), auth.AdminTokenPayload{Subject: *subject})
	if err != nil {
		logg.Error(context.Background(), "failed to mint admin token", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
