package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/sisconis/identity-api/config"
	"github.com/sisconis/identity-api/internal/domain/entity"
	"github.com/sisconis/identity-api/internal/infrastructure/idgen"
	pginfra "github.com/sisconis/identity-api/internal/infrastructure/postgres"
	"github.com/sisconis/identity-api/internal/infrastructure/security"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)
	hasher := security.NewBcryptHasher()
	idGen := idgen.NewULIDGenerator()

	email := getenv("SEED_EMAIL", "admin@sisconis.local")
	dni := getenv("SEED_DNI", "00000001")

	if existing, err := repo.FindByEmail(ctx, email); err != nil {
		log.Fatalf("lookup failed: %v", err)
	} else if existing != nil {
		fmt.Printf("seed user already present: id=%s email=%s\n", existing.ID(), email)
		return
	}

	user, err := entity.NewUser(ctx, entity.CreateUserProps{
		Name:     getenv("SEED_NAME", "Admin"),
		LastName: getenv("SEED_LAST_NAME", "User"),
		Email:    email,
		Dni:      dni,
	}, idGen, hasher)
	if err != nil {
		log.Fatalf("failed to build seed user: %v", err)
	}
	if err := repo.Save(ctx, user); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	// Initial password is temporary and equals the dni.
	fmt.Printf("seeded user: id=%s email=%s temporary password=%s\n", user.ID(), email, dni)
}
