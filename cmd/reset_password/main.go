package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finbook/models"
	"finbook/pkg/config"
	"finbook/pkg/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Overwrites a user's password hash. For operators locked out of an
// account; there is no self-service reset flow.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/reset_password <email> <new-password>")
		os.Exit(2)
	}
	email, password := os.Args[1], os.Args[2]

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

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		slog.Error("find user", "email", email, "error", err)
		os.Exit(1)
	}
	hash, err := users.BcryptHasher{Cost: cfg.Security.BcryptCost}.Hash(password)
	if err != nil {
		slog.Error("hash password", "error", err)
		os.Exit(1)
	}
	if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
		slog.Error("update password", "error", err)
		os.Exit(1)
	}
	fmt.Printf("password updated for %s (id=%d)\n", user.Email, user.ID)
}
