package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/khoahotran/vlog-studio/adapters/persistence"
	authUC "github.com/khoahotran/vlog-studio/internal/application/usecase/auth"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// Creates the account named by SEED_EMAIL and SEED_PASSWORD.
func main() {
	fmt.Println("adding user into database...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}

	pool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	signUp := authUC.NewSignUpUseCase(persistence.NewPostgresUserRepo(pool, appLogger), appLogger)
	out, err := signUp.Execute(context.Background(), authUC.SignUpInput{Email: email, Password: password})
	if errors.Is(err, apperror.ErrConflict) {
		fmt.Printf("user '%s' already exists\n", email)
		return
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added user '%s' (%s) successfully!\n", email, out.UserID)
}
