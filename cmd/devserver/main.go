package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	apiserver "github.com/dtroode/gophkeeper-session/internal/api/http/server"
	"github.com/dtroode/gophkeeper-session/internal/config"
	"github.com/dtroode/gophkeeper-session/internal/identity/devserver"
	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/repository/postgres"
	"github.com/dtroode/gophkeeper-session/internal/server"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, logger.Format(cfg.LogFormat))

	opts := devserver.Options{
		JWTSecret: cfg.DevServer.JWTSecret,
		TokenTTL:  cfg.DevServer.TokenTTL,
	}

	if cfg.DevServer.DatabaseDSN != "" {
		db, err := postgres.NewConnection(ctx, cfg.DevServer.DatabaseDSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		defer db.Close()

		opts.Users = postgres.NewUserRepository(db)
		opts.Revocations = postgres.NewRevocationRepository(db)
		logger.Info("accounts are kept in postgres")
	}

	identity := devserver.New(opts, logger)

	httpServer := apiserver.NewHTTPServer(identity, cfg.DevServer.Addr)
	sl := server.NewSecurityLayer(cfg.DevServer.EnableHTTPS, cfg.DevServer.CertFileName, cfg.DevServer.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
