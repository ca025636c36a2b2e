package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finbook/pkg/config"
	"finbook/pkg/users"
	"finbook/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seeds a user account from the command line, e.g. for a fresh install.
func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <name> <email> <password>")
		os.Exit(2)
	}
	name, email, password := os.Args[1], os.Args[2], os.Args[3]

	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("FINBOOK_CONFIG"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}

	svc := users.NewService(storage.NewUserStore(db), users.BcryptHasher{Cost: cfg.Security.BcryptCost})
	user, err := svc.Register(context.Background(), name, email, password)
	if err != nil {
		slog.Error("create user", "error", err)
		os.Exit(1)
	}
	fmt.Printf("created user %s id=%d\n", user.Email, user.ID)
}
