package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"finbook/pkg/config"
	"finbook/pkg/ledger"
	"finbook/pkg/token"
	"finbook/pkg/users"
	"finbook/storage"
)

func main() {
	// Load ./.env before anything reads the environment; existing
	// variables win over file values.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FINBOOK_CONFIG"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := openDB(cfg)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}

	// `finbook migrate` runs the schema migration and exits; useful for
	// CI and manual database setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		slog.Info("migration completed")
		return
	}

	userSvc := users.NewService(storage.NewUserStore(db), users.BcryptHasher{Cost: cfg.Security.BcryptCost})
	ledgerSvc := ledger.NewService(storage.NewEntryStore(db))
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	newServer(userSvc, ledgerSvc, issuer).setupRoutes(r)

	slog.Info("server listening", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
