// Command createadmin seeds an approved Admin account. Admin registration is
// blocked on the public API, so the first admin has to come from here.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/cyd0c/linkUp/internal/config"
	"github.com/cyd0c/linkUp/internal/database"
	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := repository.NewAccountRepo(db)
	id, err := accounts.Create(ctx, repository.NewAccountParams{
		Username: *username,
		Password: *password,
		Role:     model.RoleAdmin,
		Email:    *email,
	}, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Fatalf("an account with email %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}
	if err := accounts.SetStatus(ctx, id, model.AccountApproved); err != nil {
		log.Fatalf("approve admin: %v", err)
	}

	log.Printf("admin account %q created with id %d", *username, id)
}
