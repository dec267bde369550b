package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/gophkeeper-session/internal/config"
	"github.com/dtroode/gophkeeper-session/internal/identity/httpapi"
	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/session"
	"github.com/dtroode/gophkeeper-session/internal/storage"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if os.Args[1] == "version" {
		logAppVersion()
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, logger.Format(cfg.LogFormat))

	kv, closeStorage, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer closeStorage()

	client := httpapi.New(cfg.API.URL,
		httpapi.WithTimeout(cfg.API.Timeout),
		httpapi.WithLogger(logger),
	)

	var opts []session.Option
	if cfg.Session.ValidateOnStart {
		opts = append(opts, session.WithStartupValidation())
	}

	mgr := session.NewManager(client, kv, logger, opts...)
	client.SetTokenSource(mgr)

	if err := mgr.Restore(ctx); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}

	if err := run(ctx, mgr, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		closeStorage()
		os.Exit(1)
	}
}

func logAppVersion() {
	tmpl := `Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
