package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"unimaterials/internal/config"
	"unimaterials/internal/repositories"
	"unimaterials/internal/services"
)

// Grants the admin role to an existing account and sets its login
// password. Run from the repo root so config/config.yaml resolves:
//
//	go run ./cmd/promote -email dean@uniport.edu.ng -password <password>
func main() {
	email := flag.String("email", "", "email of the account to promote")
	password := flag.String("password", "", "password the admin will log in with")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: ", err)
	}

	authService := services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewOTPRepository(db),
		services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		),
		cfg.Auth.AllowedDomain,
		cfg.Auth.OTPTTL(),
	)

	user, err := authService.PromoteToAdmin(*email, *password)
	if err != nil {
		log.Fatal("Failed to promote: ", err)
	}
	fmt.Printf("Promoted %s (id=%d) to admin\n", user.Email, user.ID)
}
