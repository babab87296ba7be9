package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stemsi/survey-analytics/internal/config"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/logger"
	"github.com/stemsi/survey-analytics/internal/repository"
	"github.com/stemsi/survey-analytics/internal/service"
	"golang.org/x/term"
)

// seed-admin ensures the admin account named by ADMIN_USERNAME exists.
// Running it again is a no-op. When ADMIN_PASSWORD is unset and stdin is a
// terminal, the password is prompted for.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	username, email, password := cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword
	stdin := int(os.Stdin.Fd())
	if term.IsTerminal(stdin) {
		reader := bufio.NewReader(os.Stdin)
		if username == "" {
			username = prompt(reader, "Enter Username: ")
		}
		if email == "" {
			email = prompt(reader, "Enter Email: ")
		}
		if password == "" {
			fmt.Print("Enter Password: ")
			b, err := term.ReadPassword(stdin)
			fmt.Println() // Newline after password input
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read password")
			}
			password = string(b)
		}
	}

	if username == "" || email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set.")
		os.Exit(1)
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	authService := service.NewAuthService(cfg, repository.NewAdminRepository(pool), nil)

	created, err := authService.SeedAdmin(ctx, username, email, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin")
	}
	if created {
		fmt.Printf("Admin %q created.\n", username)
		return
	}
	fmt.Printf("Admin %q already exists, nothing to do.\n", username)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	s, _ := r.ReadString('\n')
	return strings.TrimSpace(s)
}
