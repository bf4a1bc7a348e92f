package main

import (
	"context"
	"flag"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/sjperalta/salesdesk-api/internal/config"
	"github.com/sjperalta/salesdesk-api/internal/database"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// create_admin seeds the first administrator so the role-gated user
// endpoints can be reached at all.
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin e-mail")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Administrator", "full name")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("usage: create_admin -email you@example.com -password <at least 8 chars>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	repos := repository.NewRepositories(db)
	userSvc := services.NewUserService(repos.User, repos.Tx, nil, nil, nil)

	user, err := userSvc.Bootstrap(context.Background(), services.CreateUserInput{
		Email:    *email,
		Password: *password,
		FullName: *name,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Admin %s created with id %s", user.Email, user.ID)
}
