package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/a3lachi/servauth/config"
	"github.com/a3lachi/servauth/internal/domain/entity"
	pginfra "github.com/a3lachi/servauth/internal/infrastructure/postgres"
	"github.com/a3lachi/servauth/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	email := "demo@example.com"
	password := "Passw0rd1"
	u := &entity.User{Email: email, Name: "Demo User"}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	if err := repo.Create(ctx, u, hash); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
}
