package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/client"
	"github.com/mlevkov/go-vault-client/internal/config"
	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/internal/session"
	"github.com/mlevkov/go-vault-client/internal/store"
	"github.com/mlevkov/go-vault-client/internal/tui"
	"github.com/mlevkov/go-vault-client/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	log := logger.NewClientLogger("vault-client", os.Getenv("VAULT_LOG_LEVEL"))
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Server.RequestTimeout,
	}, log)

	db, err := store.NewConnectSQLite(context.Background(), cfg.Cache.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open cache database")
	}
	defer db.Close()
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate cache database")
	}

	keychain := crypto.NewKeychain()
	kdf := workers.NewKDFWorker(keychain, log)
	workers.NewWorkers(kdf).Run()

	sessions := session.NewStore(cfg.Session.Path, session.NewCrypto(keychain), log)
	cache := store.NewVaultCache(db, log)

	services := service.NewServices(serverAdapter, cache, sessions, keychain, kdf, log)

	ui, err := tui.New(services, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
