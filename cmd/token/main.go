package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/auth"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// token issues a bearer token for a point-of-sale terminal. The token is
// printed on stdout; everything else goes to the log.
func main() {
	var (
		terminal string
		user     string
		branch   string
		ttl      time.Duration
	)
	flag.StringVar(&terminal, "terminal", "", "Terminal identifier (required)")
	flag.StringVar(&user, "user", "", "Operator name carried in the token")
	flag.StringVar(&branch, "branch", "", "Branch the terminal belongs to")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime; defaults to auth.token_ttl")
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if terminal == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if ttl > 0 {
		cfg.Auth.TokenTTL = ttl
	}

	token, expires, err := auth.NewTokenService(cfg.Auth).Issue(terminal, user, branch)
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}
	log.Info("Token issued",
		zap.String("terminal", terminal),
		zap.String("branch", branch),
		zap.Time("expires_at", expires),
	)
	fmt.Println(token)
}
